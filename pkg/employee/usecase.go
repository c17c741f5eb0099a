package employee

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UseCase interface {
	Create(ctx context.Context, e Employee, createdBy uuid.UUID) (Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (Employee, error)
	Update(ctx context.Context, id uuid.UUID, e Employee) (Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]Employee, error)
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]Employee, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]Employee, int64, error)
	ListByRole(ctx context.Context, role Role) ([]Employee, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func validate(e Employee) error {
	if strings.TrimSpace(e.FullName) == "" {
		return ErrValidation("fullName is required")
	}
	if strings.TrimSpace(e.Email) == "" {
		return ErrValidation("email is required")
	}
	if !e.Role.Valid() {
		return ErrValidation("unknown employee role: " + string(e.Role))
	}
	return nil
}

func (s *service) Create(ctx context.Context, e Employee, createdBy uuid.UUID) (Employee, error) {
	if err := validate(e); err != nil {
		return Employee{}, err
	}
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	taken, err := s.repo.ExistsByEmail(ctx, e.Email, uuid.Nil)
	if err != nil {
		return Employee{}, err
	}
	if taken {
		return Employee{}, ErrEmailTaken
	}
	e.ID = uuid.New()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.CreatedBy = createdBy
	if err := s.repo.Create(ctx, e); err != nil {
		return Employee{}, err
	}
	return s.repo.GetByID(ctx, e.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Employee, error) {
	return s.repo.GetByID(ctx, id)
}

// Update re-checks email uniqueness against employees other than self.
func (s *service) Update(ctx context.Context, id uuid.UUID, e Employee) (Employee, error) {
	if err := validate(e); err != nil {
		return Employee{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	if e.Email != existing.Email {
		taken, err := s.repo.ExistsByEmail(ctx, e.Email, id)
		if err != nil {
			return Employee{}, err
		}
		if taken {
			return Employee{}, ErrEmailTaken
		}
	}
	e.ID = existing.ID
	e.CreatedAt = existing.CreatedAt
	e.CreatedBy = existing.CreatedBy
	e.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return Employee{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListAll(ctx context.Context) ([]Employee, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]Employee, int64, error) {
	return s.repo.List(ctx, limit, offset, sortBy, sortDir)
}

func (s *service) Search(ctx context.Context, f SearchFilter, limit, offset int) ([]Employee, int64, error) {
	return s.repo.Search(ctx, f, limit, offset)
}

func (s *service) ListByRole(ctx context.Context, role Role) ([]Employee, error) {
	if !role.Valid() {
		return nil, ErrValidation("unknown employee role: " + string(role))
	}
	return s.repo.ListByRole(ctx, role)
}
