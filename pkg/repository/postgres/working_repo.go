package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/consultancy/staffing/pkg/working"
)

// WorkingRepository implements working.Repository backed by PostgreSQL.
type WorkingRepository struct {
	pool *pgxpool.Pool
}

var workingSortColumns = map[string]string{
	"fullname":        "w.full_name",
	"visastatus":      "w.visa_status",
	"jobrole":         "w.job_role",
	"clientname":      "w.client_name",
	"hourlyrate":      "w.hourly_rate",
	"experienceyears": "w.experience_years",
	"createdat":       "w.created_at",
	"updatedat":       "w.updated_at",
}

const workingColumns = `
	w.id, w.full_name, w.visa_status, w.working_location, w.job_role,
	w.experience_years, w.email, w.phone_number, w.hourly_rate,
	w.project_duration, w.client_name,
	w.placed_by, COALESCE(e.full_name, ''),
	w.notes, w.created_at, w.updated_at, w.created_by, COALESCE(u.full_name, '')`

const workingFrom = `
	FROM working_candidates w
	LEFT JOIN employees e ON e.id = w.placed_by
	LEFT JOIN users u ON u.id = w.created_by`

func NewWorkingRepository(pool *pgxpool.Pool) (*WorkingRepository, error) {
	repo := &WorkingRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *WorkingRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS working_candidates (
			id UUID PRIMARY KEY,
			full_name TEXT NOT NULL,
			visa_status TEXT NOT NULL,
			working_location TEXT NOT NULL DEFAULT '',
			job_role TEXT NOT NULL DEFAULT '',
			experience_years INT NOT NULL DEFAULT 0,
			email TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL DEFAULT '',
			hourly_rate DOUBLE PRECISION NOT NULL,
			project_duration TEXT NOT NULL DEFAULT '',
			client_name TEXT NOT NULL,
			placed_by UUID NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			created_by UUID
		);
	`)
	return err
}

func (r *WorkingRepository) Create(ctx context.Context, wc working.WorkingCandidate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO working_candidates (
			id, full_name, visa_status, working_location, job_role,
			experience_years, email, phone_number, hourly_rate,
			project_duration, client_name, placed_by, notes,
			created_at, updated_at, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16
		)
	`, wc.ID, wc.FullName, wc.VisaStatus, wc.WorkingLocation, wc.JobRole,
		wc.ExperienceYears, wc.Email, wc.PhoneNumber, wc.HourlyRate,
		wc.ProjectDuration, wc.ClientName, wc.PlacedBy, wc.Notes,
		wc.CreatedAt, wc.UpdatedAt, nullableUUID(wc.CreatedBy))
	return err
}

func (r *WorkingRepository) GetByID(ctx context.Context, id uuid.UUID) (working.WorkingCandidate, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+workingColumns+` `+workingFrom+` WHERE w.id = $1`, id)
	wc, err := scanWorkingCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return working.WorkingCandidate{}, working.ErrNotFound
		}
		return working.WorkingCandidate{}, err
	}
	return wc, nil
}

func (r *WorkingRepository) Update(ctx context.Context, wc working.WorkingCandidate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE working_candidates SET
			full_name = $2, visa_status = $3, working_location = $4,
			job_role = $5, experience_years = $6, email = $7,
			phone_number = $8, hourly_rate = $9, project_duration = $10,
			client_name = $11, placed_by = $12, notes = $13, updated_at = $14
		WHERE id = $1
	`, wc.ID, wc.FullName, wc.VisaStatus, wc.WorkingLocation,
		wc.JobRole, wc.ExperienceYears, wc.Email,
		wc.PhoneNumber, wc.HourlyRate, wc.ProjectDuration,
		wc.ClientName, wc.PlacedBy, wc.Notes, wc.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return working.ErrNotFound
	}
	return nil
}

func (r *WorkingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM working_candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return working.ErrNotFound
	}
	return nil
}

func (r *WorkingRepository) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]working.WorkingCandidate, int64, error) {
	return r.query(ctx, predicates{}, limit, offset, sortBy, sortDir)
}

func (r *WorkingRepository) Search(ctx context.Context, f working.SearchFilter, limit, offset int) ([]working.WorkingCandidate, int64, error) {
	var p predicates
	p.ilike("w.full_name", f.FullName)
	if f.VisaStatus != "" {
		p.add("w.visa_status = $%d", string(f.VisaStatus))
	}
	p.ilike("w.job_role", f.JobRole)
	p.ilike("w.client_name", f.ClientName)
	p.ilike("e.full_name", f.PlacedByName)
	return r.query(ctx, p, limit, offset, "", "")
}

func (r *WorkingRepository) query(ctx context.Context, p predicates, limit, offset int, sortBy, sortDir string) ([]working.WorkingCandidate, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	var total int64
	countSQL := `SELECT COUNT(*) ` + workingFrom + ` ` + p.where()
	if err := r.pool.QueryRow(ctx, countSQL, p.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := orderClause(workingSortColumns, sortBy, sortDir, "w.created_at")
	sql := fmt.Sprintf(`SELECT %s %s %s %s LIMIT $%d OFFSET $%d`,
		workingColumns, workingFrom, p.where(), order, p.next(), p.next()+1)
	rows, err := r.pool.Query(ctx, sql, append(p.args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []working.WorkingCandidate
	for rows.Next() {
		wc, err := scanWorkingCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, wc)
	}
	return out, total, rows.Err()
}

func (r *WorkingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM working_candidates`).Scan(&n)
	return n, err
}

func scanWorkingCandidate(row pgx.Row) (working.WorkingCandidate, error) {
	var wc working.WorkingCandidate
	var createdBy *uuid.UUID
	err := row.Scan(
		&wc.ID, &wc.FullName, &wc.VisaStatus, &wc.WorkingLocation, &wc.JobRole,
		&wc.ExperienceYears, &wc.Email, &wc.PhoneNumber, &wc.HourlyRate,
		&wc.ProjectDuration, &wc.ClientName,
		&wc.PlacedBy, &wc.PlacedByName,
		&wc.Notes, &wc.CreatedAt, &wc.UpdatedAt, &createdBy, &wc.CreatedByName,
	)
	if err != nil {
		return working.WorkingCandidate{}, err
	}
	if createdBy != nil {
		wc.CreatedBy = *createdBy
	}
	wc.CreatedAt = wc.CreatedAt.UTC()
	wc.UpdatedAt = wc.UpdatedAt.UTC()
	return wc, nil
}
