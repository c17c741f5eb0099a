package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/consultancy/staffing/pkg/bench"
)

// BenchRepository implements bench.Repository backed by PostgreSQL. Candidate
// and document rows live in two tables tied by a foreign key; deletes go
// through one transaction so orphan document rows cannot survive.
type BenchRepository struct {
	pool *pgxpool.Pool
}

var benchSortColumns = map[string]string{
	"fullname":        "b.full_name",
	"visastatus":      "b.visa_status",
	"primaryskill":    "b.primary_skill",
	"state":           "b.state",
	"experienceyears": "b.experience_years",
	"createdat":       "b.created_at",
	"updatedat":       "b.updated_at",
}

const benchColumns = `
	b.id, b.full_name, b.visa_status, b.city, b.state, b.primary_skill,
	b.experience_years, b.phone_number, b.email, b.target_rate,
	b.assigned_consultant_id, COALESCE(e.full_name, ''),
	b.notes, b.resume_filename, b.resume_key,
	b.created_at, b.updated_at, b.created_by, COALESCE(u.full_name, '')`

const benchFrom = `
	FROM bench_candidates b
	LEFT JOIN employees e ON e.id = b.assigned_consultant_id
	LEFT JOIN users u ON u.id = b.created_by`

const documentColumns = `
	d.id, d.bench_candidate_id, d.storage_key, d.original_filename,
	d.file_size, d.content_type, d.document_type,
	d.uploaded_at, d.uploaded_by, COALESCE(u.full_name, '')`

const documentFrom = `
	FROM candidate_documents d
	LEFT JOIN users u ON u.id = d.uploaded_by`

func NewBenchRepository(pool *pgxpool.Pool) (*BenchRepository, error) {
	repo := &BenchRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *BenchRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bench_candidates (
			id UUID PRIMARY KEY,
			full_name TEXT NOT NULL,
			visa_status TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			primary_skill TEXT NOT NULL,
			experience_years INT NOT NULL DEFAULT 0,
			phone_number TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			target_rate DOUBLE PRECISION,
			assigned_consultant_id UUID,
			notes TEXT NOT NULL DEFAULT '',
			resume_filename TEXT NOT NULL DEFAULT '',
			resume_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			created_by UUID
		);
		CREATE TABLE IF NOT EXISTS candidate_documents (
			id UUID PRIMARY KEY,
			bench_candidate_id UUID NOT NULL REFERENCES bench_candidates(id) ON DELETE CASCADE,
			storage_key TEXT NOT NULL,
			original_filename TEXT NOT NULL,
			file_size BIGINT NOT NULL,
			content_type TEXT NOT NULL DEFAULT '',
			document_type TEXT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL,
			uploaded_by UUID
		);
		CREATE INDEX IF NOT EXISTS idx_candidate_documents_candidate
			ON candidate_documents (bench_candidate_id);
	`)
	return err
}

func (r *BenchRepository) Create(ctx context.Context, bc bench.BenchCandidate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bench_candidates (
			id, full_name, visa_status, city, state, primary_skill,
			experience_years, phone_number, email, target_rate,
			assigned_consultant_id, notes, resume_filename, resume_key,
			created_at, updated_at, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17
		)
	`, bc.ID, bc.FullName, bc.VisaStatus, bc.City, bc.State, bc.PrimarySkill,
		bc.ExperienceYears, bc.PhoneNumber, bc.Email, bc.TargetRate,
		bc.AssignedConsultantID, bc.Notes, bc.ResumeFilename, bc.ResumeKey,
		bc.CreatedAt, bc.UpdatedAt, nullableUUID(bc.CreatedBy))
	return err
}

func (r *BenchRepository) GetByID(ctx context.Context, id uuid.UUID) (bench.BenchCandidate, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+benchColumns+` `+benchFrom+` WHERE b.id = $1`, id)
	bc, err := scanBenchCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bench.BenchCandidate{}, bench.ErrNotFound
		}
		return bench.BenchCandidate{}, err
	}
	return bc, nil
}

func (r *BenchRepository) Update(ctx context.Context, bc bench.BenchCandidate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bench_candidates SET
			full_name = $2, visa_status = $3, city = $4, state = $5,
			primary_skill = $6, experience_years = $7, phone_number = $8,
			email = $9, target_rate = $10, assigned_consultant_id = $11,
			notes = $12, resume_filename = $13, resume_key = $14,
			updated_at = $15
		WHERE id = $1
	`, bc.ID, bc.FullName, bc.VisaStatus, bc.City, bc.State,
		bc.PrimarySkill, bc.ExperienceYears, bc.PhoneNumber,
		bc.Email, bc.TargetRate, bc.AssignedConsultantID,
		bc.Notes, bc.ResumeFilename, bc.ResumeKey,
		bc.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return bench.ErrNotFound
	}
	return nil
}

func (r *BenchRepository) DeleteWithDocuments(ctx context.Context, id uuid.UUID) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT storage_key FROM candidate_documents WHERE bench_candidate_id = $1`, id)
	if err != nil {
		return nil, err
	}
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return nil, err
		}
		keys = append(keys, key)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM candidate_documents WHERE bench_candidate_id = $1`, id); err != nil {
		return nil, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM bench_candidates WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, bench.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *BenchRepository) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]bench.BenchCandidate, int64, error) {
	return r.query(ctx, predicates{}, limit, offset, sortBy, sortDir)
}

func (r *BenchRepository) Search(ctx context.Context, f bench.SearchFilter, limit, offset int) ([]bench.BenchCandidate, int64, error) {
	var p predicates
	p.ilike("b.full_name", f.FullName)
	if f.VisaStatus != "" {
		p.add("b.visa_status = $%d", string(f.VisaStatus))
	}
	p.ilike("b.primary_skill", f.PrimarySkill)
	p.ilike("b.state", f.State)
	p.ilike("e.full_name", f.AssignedConsultantName)
	return r.query(ctx, p, limit, offset, "", "")
}

func (r *BenchRepository) query(ctx context.Context, p predicates, limit, offset int, sortBy, sortDir string) ([]bench.BenchCandidate, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	var total int64
	countSQL := `SELECT COUNT(*) ` + benchFrom + ` ` + p.where()
	if err := r.pool.QueryRow(ctx, countSQL, p.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := orderClause(benchSortColumns, sortBy, sortDir, "b.created_at")
	sql := fmt.Sprintf(`SELECT %s %s %s %s LIMIT $%d OFFSET $%d`,
		benchColumns, benchFrom, p.where(), order, p.next(), p.next()+1)
	rows, err := r.pool.Query(ctx, sql, append(p.args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []bench.BenchCandidate
	for rows.Next() {
		bc, err := scanBenchCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, bc)
	}
	return out, total, rows.Err()
}

func (r *BenchRepository) ListByConsultant(ctx context.Context, consultantID uuid.UUID) ([]bench.BenchCandidate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+benchColumns+` `+benchFrom+` WHERE b.assigned_consultant_id = $1 ORDER BY b.full_name`,
		consultantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBenchCandidates(rows)
}

func (r *BenchRepository) ListRecent(ctx context.Context, limit int) ([]bench.BenchCandidate, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+benchColumns+` `+benchFrom+` ORDER BY b.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBenchCandidates(rows)
}

func (r *BenchRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bench_candidates`).Scan(&n)
	return n, err
}

func (r *BenchRepository) CreateDocument(ctx context.Context, d bench.Document) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO candidate_documents (
			id, bench_candidate_id, storage_key, original_filename,
			file_size, content_type, document_type, uploaded_at, uploaded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, d.ID, d.BenchCandidateID, d.StorageKey, d.OriginalFilename,
		d.FileSize, d.ContentType, d.Type, d.UploadedAt, nullableUUID(d.UploadedBy))
	return err
}

func (r *BenchRepository) GetDocument(ctx context.Context, candidateID, documentID uuid.UUID) (bench.Document, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` `+documentFrom+` WHERE d.id = $1 AND d.bench_candidate_id = $2`,
		documentID, candidateID)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bench.Document{}, bench.ErrDocumentNotFound
		}
		return bench.Document{}, err
	}
	return d, nil
}

func (r *BenchRepository) ListDocuments(ctx context.Context, candidateID uuid.UUID) ([]bench.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+` `+documentFrom+` WHERE d.bench_candidate_id = $1 ORDER BY d.uploaded_at DESC`,
		candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []bench.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *BenchRepository) DeleteDocument(ctx context.Context, candidateID, documentID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM candidate_documents WHERE id = $1 AND bench_candidate_id = $2`,
		documentID, candidateID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return bench.ErrDocumentNotFound
	}
	return nil
}

func (r *BenchRepository) CountDocuments(ctx context.Context, candidateID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM candidate_documents WHERE bench_candidate_id = $1`,
		candidateID).Scan(&n)
	return n, err
}

func (r *BenchRepository) TotalDocumentSize(ctx context.Context, candidateID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(file_size), 0) FROM candidate_documents WHERE bench_candidate_id = $1`,
		candidateID).Scan(&n)
	return n, err
}

func collectBenchCandidates(rows pgx.Rows) ([]bench.BenchCandidate, error) {
	var out []bench.BenchCandidate
	for rows.Next() {
		bc, err := scanBenchCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}

func scanBenchCandidate(row pgx.Row) (bench.BenchCandidate, error) {
	var bc bench.BenchCandidate
	var createdBy *uuid.UUID
	err := row.Scan(
		&bc.ID, &bc.FullName, &bc.VisaStatus, &bc.City, &bc.State, &bc.PrimarySkill,
		&bc.ExperienceYears, &bc.PhoneNumber, &bc.Email, &bc.TargetRate,
		&bc.AssignedConsultantID, &bc.AssignedConsultantName,
		&bc.Notes, &bc.ResumeFilename, &bc.ResumeKey,
		&bc.CreatedAt, &bc.UpdatedAt, &createdBy, &bc.CreatedByName,
	)
	if err != nil {
		return bench.BenchCandidate{}, err
	}
	if createdBy != nil {
		bc.CreatedBy = *createdBy
	}
	bc.CreatedAt = bc.CreatedAt.UTC()
	bc.UpdatedAt = bc.UpdatedAt.UTC()
	return bc, nil
}

func scanDocument(row pgx.Row) (bench.Document, error) {
	var d bench.Document
	var uploadedBy *uuid.UUID
	err := row.Scan(
		&d.ID, &d.BenchCandidateID, &d.StorageKey, &d.OriginalFilename,
		&d.FileSize, &d.ContentType, &d.Type,
		&d.UploadedAt, &uploadedBy, &d.UploadedByName,
	)
	if err != nil {
		return bench.Document{}, err
	}
	if uploadedBy != nil {
		d.UploadedBy = *uploadedBy
	}
	d.UploadedAt = d.UploadedAt.UTC()
	return d, nil
}
