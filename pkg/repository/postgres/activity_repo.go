package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/consultancy/staffing/pkg/activity"
)

// ActivityRepository implements activity.Repository backed by PostgreSQL.
// candidate_id is a loose reference into whichever candidate table the event
// relates to, deliberately without a foreign key.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

var activitySortColumns = map[string]string{
	"activitydate": "a.activity_date",
	"activitytype": "a.activity_type",
	"clientname":   "a.client_name",
	"createdat":    "a.created_at",
	"updatedat":    "a.updated_at",
}

const activityColumns = `
	a.id, a.candidate_id, a.activity_type, a.client_name, a.contact_person,
	a.contact_phone, a.contact_email, a.submitted_rate, a.notes,
	a.activity_date, a.created_at, a.updated_at, a.created_by,
	COALESCE(u.full_name, '')`

const activityFrom = `
	FROM candidate_activities a
	LEFT JOIN users u ON u.id = a.created_by`

func NewActivityRepository(pool *pgxpool.Pool) (*ActivityRepository, error) {
	repo := &ActivityRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ActivityRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS candidate_activities (
			id UUID PRIMARY KEY,
			candidate_id UUID NOT NULL,
			activity_type TEXT NOT NULL,
			client_name TEXT NOT NULL,
			contact_person TEXT NOT NULL DEFAULT '',
			contact_phone TEXT NOT NULL DEFAULT '',
			contact_email TEXT NOT NULL DEFAULT '',
			submitted_rate DOUBLE PRECISION,
			notes TEXT NOT NULL DEFAULT '',
			activity_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			created_by UUID
		);
		CREATE INDEX IF NOT EXISTS idx_activities_candidate
			ON candidate_activities (candidate_id);
		CREATE INDEX IF NOT EXISTS idx_activities_date
			ON candidate_activities (activity_date);
	`)
	return err
}

func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO candidate_activities (
			id, candidate_id, activity_type, client_name, contact_person,
			contact_phone, contact_email, submitted_rate, notes,
			activity_date, created_at, updated_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, a.ID, a.CandidateID, a.Type, a.ClientName, a.ContactPerson,
		a.ContactPhone, a.ContactEmail, a.SubmittedRate, a.Notes,
		a.ActivityDate, a.CreatedAt, a.UpdatedAt, nullableUUID(a.CreatedBy))
	return err
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*activity.Activity, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+activityColumns+` `+activityFrom+` WHERE a.id = $1`, id)
	a, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, activity.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *activity.Activity) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE candidate_activities SET
			candidate_id = $2, activity_type = $3, client_name = $4,
			contact_person = $5, contact_phone = $6, contact_email = $7,
			submitted_rate = $8, notes = $9, activity_date = $10,
			updated_at = $11
		WHERE id = $1
	`, a.ID, a.CandidateID, a.Type, a.ClientName,
		a.ContactPerson, a.ContactPhone, a.ContactEmail,
		a.SubmittedRate, a.Notes, a.ActivityDate, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return activity.ErrNotFound
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM candidate_activities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return activity.ErrNotFound
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]*activity.Activity, int64, error) {
	return r.query(ctx, predicates{}, limit, offset, sortBy, sortDir)
}

func (r *ActivityRepository) Search(ctx context.Context, f activity.SearchFilter, limit, offset int, sortBy, sortDir string) ([]*activity.Activity, int64, error) {
	var p predicates
	if f.CandidateID != uuid.Nil {
		p.add("a.candidate_id = $%d", f.CandidateID)
	}
	if f.Type != "" {
		p.add("a.activity_type = $%d", string(f.Type))
	}
	p.ilike("a.client_name", f.ClientName)
	if !f.From.IsZero() {
		p.add("a.activity_date >= $%d", f.From)
	}
	if !f.To.IsZero() {
		p.add("a.activity_date <= $%d", f.To)
	}
	return r.query(ctx, p, limit, offset, sortBy, sortDir)
}

func (r *ActivityRepository) query(ctx context.Context, p predicates, limit, offset int, sortBy, sortDir string) ([]*activity.Activity, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	var total int64
	countSQL := `SELECT COUNT(*) ` + activityFrom + ` ` + p.where()
	if err := r.pool.QueryRow(ctx, countSQL, p.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if sortBy == "" {
		sortBy = "activitydate"
		sortDir = "desc"
	}
	order := orderClause(activitySortColumns, sortBy, sortDir, "a.activity_date")
	sql := fmt.Sprintf(`SELECT %s %s %s %s LIMIT $%d OFFSET $%d`,
		activityColumns, activityFrom, p.where(), order, p.next(), p.next()+1)
	rows, err := r.pool.Query(ctx, sql, append(p.args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectActivitiesWithTotal(rows, total)
}

func (r *ActivityRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*activity.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+activityColumns+` `+activityFrom+`
		WHERE a.candidate_id = $1
		ORDER BY a.activity_date DESC
	`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivities(rows)
}

func (r *ActivityRepository) ListRecent(ctx context.Context, since time.Time, limit int) ([]*activity.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+activityColumns+` `+activityFrom+`
		WHERE a.activity_date >= $1
		ORDER BY a.activity_date DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivities(rows)
}

func (r *ActivityRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidate_activities`).Scan(&n)
	return n, err
}

func (r *ActivityRepository) CountByCandidate(ctx context.Context, candidateID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM candidate_activities WHERE candidate_id = $1`,
		candidateID).Scan(&n)
	return n, err
}

func (r *ActivityRepository) CountByType(ctx context.Context, t activity.Type) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM candidate_activities WHERE activity_type = $1`,
		string(t)).Scan(&n)
	return n, err
}

// CountSince feeds the dashboard's recent-activity figure.
func (r *ActivityRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM candidate_activities WHERE activity_date >= $1`,
		since).Scan(&n)
	return n, err
}

func collectActivities(rows pgx.Rows) ([]*activity.Activity, error) {
	var out []*activity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func collectActivitiesWithTotal(rows pgx.Rows, total int64) ([]*activity.Activity, int64, error) {
	out, err := collectActivities(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanActivity(row pgx.Row) (*activity.Activity, error) {
	var a activity.Activity
	var createdBy *uuid.UUID
	err := row.Scan(
		&a.ID, &a.CandidateID, &a.Type, &a.ClientName, &a.ContactPerson,
		&a.ContactPhone, &a.ContactEmail, &a.SubmittedRate, &a.Notes,
		&a.ActivityDate, &a.CreatedAt, &a.UpdatedAt, &createdBy,
		&a.CreatedByName,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		a.CreatedBy = *createdBy
	}
	a.ActivityDate = a.ActivityDate.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}
