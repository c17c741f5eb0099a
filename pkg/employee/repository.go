package employee

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("employee not found")
	ErrEmailTaken = errors.New("employee email already in use")
)

// SearchFilter holds the optional predicates of /employees/search.
type SearchFilter struct {
	FullName string
	Email    string
	Role     Role
}

// Repository is the persistence port for employees.
type Repository interface {
	Create(ctx context.Context, e Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (Employee, error)
	Update(ctx context.Context, e Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]Employee, error)
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]Employee, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]Employee, int64, error)
	ListByRole(ctx context.Context, role Role) ([]Employee, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}
