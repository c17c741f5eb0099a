package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/consultancy/staffing/pkg/employee"
)

// EmployeeRepository implements employee.Repository backed by PostgreSQL.
// It also serves as the EmployeeDirectory for the candidate domains.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

var employeeSortColumns = map[string]string{
	"fullname":  "e.full_name",
	"email":     "e.email",
	"role":      "e.role",
	"createdat": "e.created_at",
	"updatedat": "e.updated_at",
}

const employeeColumns = `
	e.id, e.full_name, e.email, e.phone_number, e.role, e.notes,
	e.created_at, e.updated_at, e.created_by, COALESCE(u.full_name, '')`

const employeeFrom = `FROM employees e LEFT JOIN users u ON u.id = e.created_by`

func NewEmployeeRepository(pool *pgxpool.Pool) (*EmployeeRepository, error) {
	repo := &EmployeeRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *EmployeeRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS employees (
			id UUID PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone_number TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			created_by UUID
		);
	`)
	return err
}

func (r *EmployeeRepository) Create(ctx context.Context, e employee.Employee) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO employees (
			id, full_name, email, phone_number, role, notes,
			created_at, updated_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.FullName, strings.ToLower(e.Email), e.PhoneNumber, e.Role, e.Notes,
		e.CreatedAt, e.UpdatedAt, nullableUUID(e.CreatedBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return employee.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` `+employeeFrom+` WHERE e.id = $1`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e employee.Employee) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE employees SET
			full_name = $2, email = $3, phone_number = $4, role = $5,
			notes = $6, updated_at = $7
		WHERE id = $1
	`, e.ID, e.FullName, strings.ToLower(e.Email), e.PhoneNumber, e.Role,
		e.Notes, e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return employee.ErrEmailTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) ListAll(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` `+employeeFrom+` ORDER BY e.full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEmployees(rows)
}

func (r *EmployeeRepository) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]employee.Employee, int64, error) {
	return r.query(ctx, predicates{}, limit, offset, sortBy, sortDir)
}

func (r *EmployeeRepository) Search(ctx context.Context, f employee.SearchFilter, limit, offset int) ([]employee.Employee, int64, error) {
	var p predicates
	p.ilike("e.full_name", f.FullName)
	p.ilike("e.email", f.Email)
	if f.Role != "" {
		p.add("e.role = $%d", string(f.Role))
	}
	return r.query(ctx, p, limit, offset, "", "")
}

func (r *EmployeeRepository) query(ctx context.Context, p predicates, limit, offset int, sortBy, sortDir string) ([]employee.Employee, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	var total int64
	countSQL := `SELECT COUNT(*) ` + employeeFrom + ` ` + p.where()
	if err := r.pool.QueryRow(ctx, countSQL, p.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := orderClause(employeeSortColumns, sortBy, sortDir, "e.full_name")
	sql := fmt.Sprintf(`SELECT %s %s %s %s LIMIT $%d OFFSET $%d`,
		employeeColumns, employeeFrom, p.where(), order, p.next(), p.next()+1)
	rows, err := r.pool.Query(ctx, sql, append(p.args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *EmployeeRepository) ListByRole(ctx context.Context, role employee.Role) ([]employee.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` `+employeeFrom+` WHERE e.role = $1 ORDER BY e.full_name`,
		string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEmployees(rows)
}

func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM employees WHERE email = $1 AND id <> $2
		)
	`, strings.ToLower(email), excludeID).Scan(&exists)
	return exists, err
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n)
	return n, err
}

// NameByID resolves an employee reference to a display name; used by the
// bench and working domains to validate consultant/placedBy links.
func (r *EmployeeRepository) NameByID(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx,
		`SELECT full_name FROM employees WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", employee.ErrNotFound
	}
	return name, err
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var out []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var createdBy *uuid.UUID
	err := row.Scan(
		&e.ID, &e.FullName, &e.Email, &e.PhoneNumber, &e.Role, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt, &createdBy, &e.CreatedByName,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}
