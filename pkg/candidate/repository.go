package candidate

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("candidate not found")

// SearchFilter holds the optional predicates of /candidates/search.
// Zero values mean "no constraint"; string matches are case-insensitive
// substring, combined with AND.
type SearchFilter struct {
	FullName     string
	VisaStatus   VisaStatus
	PrimarySkill string
	State        string
	Status       Status
}

// Repository is the persistence port for candidates.
type Repository interface {
	Create(ctx context.Context, c Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (Candidate, error)
	Update(ctx context.Context, c Candidate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]Candidate, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]Candidate, int64, error)
	ListByStatus(ctx context.Context, status Status) ([]Candidate, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

// FileStore is the attachment port; implemented by pkg/storage/files.
type FileStore interface {
	Save(data []byte, originalName string) (string, error)
	Load(key string) ([]byte, error)
	Delete(key string) error
}
