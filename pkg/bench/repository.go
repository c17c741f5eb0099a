package bench

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/consultancy/staffing/pkg/candidate"
)

var (
	ErrNotFound         = errors.New("bench candidate not found")
	ErrDocumentNotFound = errors.New("document not found")
)

// SearchFilter holds the optional predicates of /bench-candidates/search.
type SearchFilter struct {
	FullName               string
	VisaStatus             candidate.VisaStatus
	PrimarySkill           string
	State                  string
	AssignedConsultantName string
}

// Repository is the persistence port for bench candidates and their documents.
// DeleteWithDocuments removes the candidate row together with its document
// rows in one transaction and reports the storage keys that backed them.
type Repository interface {
	Create(ctx context.Context, bc BenchCandidate) error
	GetByID(ctx context.Context, id uuid.UUID) (BenchCandidate, error)
	Update(ctx context.Context, bc BenchCandidate) error
	DeleteWithDocuments(ctx context.Context, id uuid.UUID) (storageKeys []string, err error)
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]BenchCandidate, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]BenchCandidate, int64, error)
	ListByConsultant(ctx context.Context, consultantID uuid.UUID) ([]BenchCandidate, error)
	ListRecent(ctx context.Context, limit int) ([]BenchCandidate, error)
	Count(ctx context.Context) (int64, error)

	CreateDocument(ctx context.Context, d Document) error
	GetDocument(ctx context.Context, candidateID, documentID uuid.UUID) (Document, error)
	ListDocuments(ctx context.Context, candidateID uuid.UUID) ([]Document, error)
	DeleteDocument(ctx context.Context, candidateID, documentID uuid.UUID) error
	CountDocuments(ctx context.Context, candidateID uuid.UUID) (int64, error)
	TotalDocumentSize(ctx context.Context, candidateID uuid.UUID) (int64, error)
}

// EmployeeDirectory resolves consultant references; implemented by the
// employee repository.
type EmployeeDirectory interface {
	NameByID(ctx context.Context, id uuid.UUID) (string, error)
}
