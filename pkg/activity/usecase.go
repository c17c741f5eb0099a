package activity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("activity not found")

// SearchFilter narrows the activity log. Empty fields are skipped;
// set fields combine conjunctively.
type SearchFilter struct {
	CandidateID uuid.UUID
	Type        Type
	ClientName  string
	From        time.Time
	To          time.Time
}

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	Update(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*Activity, error)
	ListRecent(ctx context.Context, since time.Time, limit int) ([]*Activity, error)
	Count(ctx context.Context) (int64, error)
	CountByCandidate(ctx context.Context, candidateID uuid.UUID) (int64, error)
	CountByType(ctx context.Context, t Type) (int64, error)
}

// UseCase covers the candidate activity timeline.
type UseCase interface {
	Create(ctx context.Context, a *Activity, createdBy uuid.UUID) (*Activity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	Update(ctx context.Context, id uuid.UUID, a *Activity) (*Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*Activity, error)
	ListByCandidatePaged(ctx context.Context, candidateID uuid.UUID, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error)
	ListByType(ctx context.Context, t Type, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error)
	ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error)
	Recent(ctx context.Context, limit int) ([]*Activity, error)
	Count(ctx context.Context) (int64, error)
	CountByCandidate(ctx context.Context, candidateID uuid.UUID) (int64, error)
	CountByType(ctx context.Context, t Type) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, a *Activity, createdBy uuid.UUID) (*Activity, error) {
	if err := validate(a); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	a.ID = uuid.New()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.CreatedBy = createdBy
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, a.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Activity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, a *Activity) (*Activity, error) {
	if err := validate(a); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.ID = existing.ID
	a.CreatedAt = existing.CreatedAt
	a.CreatedBy = existing.CreatedBy
	a.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error) {
	return s.repo.List(ctx, limit, offset, sortBy, sortDir)
}

func (s *service) Search(ctx context.Context, f SearchFilter, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, 0, ErrValidation("unknown activity type: " + string(f.Type))
	}
	return s.repo.Search(ctx, f, limit, offset, sortBy, sortDir)
}

func (s *service) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*Activity, error) {
	return s.repo.ListByCandidate(ctx, candidateID)
}

func (s *service) ListByCandidatePaged(ctx context.Context, candidateID uuid.UUID, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error) {
	f := SearchFilter{CandidateID: candidateID}
	return s.repo.Search(ctx, f, limit, offset, sortBy, sortDir)
}

func (s *service) ListByType(ctx context.Context, t Type, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error) {
	if !t.Valid() {
		return nil, 0, ErrValidation("unknown activity type: " + string(t))
	}
	return s.repo.Search(ctx, SearchFilter{Type: t}, limit, offset, sortBy, sortDir)
}

func (s *service) ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int, sortBy, sortDir string) ([]*Activity, int64, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, 0, ErrValidation("date range end precedes start")
	}
	return s.repo.Search(ctx, SearchFilter{From: from, To: to}, limit, offset, sortBy, sortDir)
}

// Recent returns activities dated within the past week, newest first.
func (s *service) Recent(ctx context.Context, limit int) ([]*Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	since := time.Now().UTC().AddDate(0, 0, -7)
	return s.repo.ListRecent(ctx, since, limit)
}

func (s *service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *service) CountByCandidate(ctx context.Context, candidateID uuid.UUID) (int64, error) {
	return s.repo.CountByCandidate(ctx, candidateID)
}

func (s *service) CountByType(ctx context.Context, t Type) (int64, error) {
	if !t.Valid() {
		return 0, ErrValidation("unknown activity type: " + string(t))
	}
	return s.repo.CountByType(ctx, t)
}

func validate(a *Activity) error {
	if a == nil {
		return ErrValidation("activity payload is required")
	}
	a.ClientName = strings.TrimSpace(a.ClientName)
	if a.CandidateID == uuid.Nil {
		return ErrValidation("candidateId is required")
	}
	if !a.Type.Valid() {
		return ErrValidation("unknown activity type: " + string(a.Type))
	}
	if a.ClientName == "" {
		return ErrValidation("clientName is required")
	}
	if a.ActivityDate.IsZero() {
		return ErrValidation("activityDate is required")
	}
	if a.SubmittedRate != nil && *a.SubmittedRate < 0 {
		return ErrValidation("submittedRate must not be negative")
	}
	return nil
}
