package working

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consultancy/staffing/pkg/candidate"
)

var ErrNotFound = errors.New("working candidate not found")

// SearchFilter holds the optional predicates of /working-candidates/search.
type SearchFilter struct {
	FullName     string
	VisaStatus   candidate.VisaStatus
	JobRole      string
	ClientName   string
	PlacedByName string
}

// Repository is the persistence port for working candidates.
type Repository interface {
	Create(ctx context.Context, wc WorkingCandidate) error
	GetByID(ctx context.Context, id uuid.UUID) (WorkingCandidate, error)
	Update(ctx context.Context, wc WorkingCandidate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]WorkingCandidate, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]WorkingCandidate, int64, error)
	Count(ctx context.Context) (int64, error)
}

// EmployeeDirectory resolves the mandatory placedBy reference.
type EmployeeDirectory interface {
	NameByID(ctx context.Context, id uuid.UUID) (string, error)
}

type UseCase interface {
	Create(ctx context.Context, wc WorkingCandidate, createdBy uuid.UUID) (WorkingCandidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (WorkingCandidate, error)
	Update(ctx context.Context, id uuid.UUID, wc WorkingCandidate) (WorkingCandidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]WorkingCandidate, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]WorkingCandidate, int64, error)
}

type service struct {
	repo      Repository
	employees EmployeeDirectory
}

func NewService(repo Repository, employees EmployeeDirectory) UseCase {
	return &service{repo: repo, employees: employees}
}

func (s *service) validate(wc WorkingCandidate) error {
	if strings.TrimSpace(wc.FullName) == "" {
		return candidate.ErrValidation("fullName is required")
	}
	if strings.TrimSpace(wc.ClientName) == "" {
		return candidate.ErrValidation("clientName is required")
	}
	if wc.HourlyRate <= 0 {
		return candidate.ErrValidation("hourlyRate must be positive")
	}
	if wc.ExperienceYears < 0 || wc.ExperienceYears > 50 {
		return candidate.ErrValidation("experienceYears must be between 0 and 50")
	}
	if wc.VisaStatus != "" && !wc.VisaStatus.Valid() {
		return candidate.ErrValidation("unknown visa status: " + string(wc.VisaStatus))
	}
	return nil
}

// resolvePlacedBy enforces the mandatory placing-employee reference and
// stamps the resolved name onto the entity.
func (s *service) resolvePlacedBy(ctx context.Context, wc *WorkingCandidate) error {
	if wc.PlacedBy == uuid.Nil {
		return candidate.ErrValidation("placedById is required")
	}
	name, err := s.employees.NameByID(ctx, wc.PlacedBy)
	if err != nil {
		return candidate.ErrValidation("placing employee not found")
	}
	wc.PlacedByName = name
	return nil
}

func (s *service) Create(ctx context.Context, wc WorkingCandidate, createdBy uuid.UUID) (WorkingCandidate, error) {
	if err := s.validate(wc); err != nil {
		return WorkingCandidate{}, err
	}
	if err := s.resolvePlacedBy(ctx, &wc); err != nil {
		return WorkingCandidate{}, err
	}
	wc.ID = uuid.New()
	now := time.Now().UTC()
	wc.CreatedAt = now
	wc.UpdatedAt = now
	wc.CreatedBy = createdBy
	if err := s.repo.Create(ctx, wc); err != nil {
		return WorkingCandidate{}, err
	}
	return s.repo.GetByID(ctx, wc.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (WorkingCandidate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, wc WorkingCandidate) (WorkingCandidate, error) {
	if err := s.validate(wc); err != nil {
		return WorkingCandidate{}, err
	}
	if err := s.resolvePlacedBy(ctx, &wc); err != nil {
		return WorkingCandidate{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return WorkingCandidate{}, err
	}
	wc.ID = existing.ID
	wc.CreatedAt = existing.CreatedAt
	wc.CreatedBy = existing.CreatedBy
	wc.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, wc); err != nil {
		return WorkingCandidate{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]WorkingCandidate, int64, error) {
	return s.repo.List(ctx, limit, offset, sortBy, sortDir)
}

func (s *service) Search(ctx context.Context, f SearchFilter, limit, offset int) ([]WorkingCandidate, int64, error) {
	return s.repo.Search(ctx, f, limit, offset)
}
