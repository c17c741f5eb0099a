package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/consultancy/staffing/pkg/candidate"
)

// CandidateRepository implements candidate.Repository backed by PostgreSQL.
// It keeps the unified legacy record: bench, interview and placement fields
// all live on the one row.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

var candidateSortColumns = map[string]string{
	"fullname":        "c.full_name",
	"visastatus":      "c.visa_status",
	"status":          "c.status",
	"primaryskill":    "c.primary_skill",
	"state":           "c.state",
	"experienceyears": "c.experience_years",
	"createdat":       "c.created_at",
	"updatedat":       "c.updated_at",
}

const candidateColumns = `
	c.id, c.full_name, c.visa_status, c.city, c.state, c.primary_skill,
	c.experience_years, c.contact_info, c.notes, c.status,
	c.resume_filename, c.resume_key,
	c.assigned_consultant_name, c.total_submissions, c.target_rate,
	c.interview_company, c.interview_position, c.first_interview_date,
	c.vendor_contact_name, c.vendor_contact_email, c.vendor_contact_phone,
	c.client_company, c.project_name, c.hourly_rate, c.start_date, c.end_date,
	c.consultant_notes,
	c.created_at, c.updated_at, c.created_by, COALESCE(u.full_name, '')`

const candidateFrom = `FROM candidates c LEFT JOIN users u ON u.id = c.created_by`

func NewCandidateRepository(pool *pgxpool.Pool) (*CandidateRepository, error) {
	repo := &CandidateRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *CandidateRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS candidates (
			id UUID PRIMARY KEY,
			full_name TEXT NOT NULL,
			visa_status TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			primary_skill TEXT NOT NULL,
			experience_years INT NOT NULL DEFAULT 0,
			contact_info TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			resume_filename TEXT NOT NULL DEFAULT '',
			resume_key TEXT NOT NULL DEFAULT '',
			assigned_consultant_name TEXT NOT NULL DEFAULT '',
			total_submissions INT NOT NULL DEFAULT 0,
			target_rate DOUBLE PRECISION,
			interview_company TEXT NOT NULL DEFAULT '',
			interview_position TEXT NOT NULL DEFAULT '',
			first_interview_date TIMESTAMPTZ,
			vendor_contact_name TEXT NOT NULL DEFAULT '',
			vendor_contact_email TEXT NOT NULL DEFAULT '',
			vendor_contact_phone TEXT NOT NULL DEFAULT '',
			client_company TEXT NOT NULL DEFAULT '',
			project_name TEXT NOT NULL DEFAULT '',
			hourly_rate DOUBLE PRECISION,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			consultant_notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			created_by UUID
		);
		CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates (status);
	`)
	return err
}

func (r *CandidateRepository) Create(ctx context.Context, c candidate.Candidate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO candidates (
			id, full_name, visa_status, city, state, primary_skill,
			experience_years, contact_info, notes, status,
			resume_filename, resume_key,
			assigned_consultant_name, total_submissions, target_rate,
			interview_company, interview_position, first_interview_date,
			vendor_contact_name, vendor_contact_email, vendor_contact_phone,
			client_company, project_name, hourly_rate, start_date, end_date,
			consultant_notes, created_at, updated_at, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		)
	`, c.ID, c.FullName, c.VisaStatus, c.City, c.State, c.PrimarySkill,
		c.ExperienceYears, c.ContactInfo, c.Notes, c.Status,
		c.ResumeFilename, c.ResumeKey,
		c.AssignedConsultantName, c.TotalSubmissions, c.TargetRate,
		c.InterviewCompany, c.InterviewPosition, c.FirstInterviewDate,
		c.VendorContactName, c.VendorContactEmail, c.VendorContactPhone,
		c.ClientCompany, c.ProjectName, c.HourlyRate, c.StartDate, c.EndDate,
		c.ConsultantNotes, c.CreatedAt, c.UpdatedAt, nullableUUID(c.CreatedBy))
	return err
}

func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` `+candidateFrom+` WHERE c.id = $1`, id)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return candidate.Candidate{}, candidate.ErrNotFound
		}
		return candidate.Candidate{}, err
	}
	return c, nil
}

func (r *CandidateRepository) Update(ctx context.Context, c candidate.Candidate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE candidates SET
			full_name = $2, visa_status = $3, city = $4, state = $5,
			primary_skill = $6, experience_years = $7, contact_info = $8,
			notes = $9, status = $10, resume_filename = $11, resume_key = $12,
			assigned_consultant_name = $13, total_submissions = $14,
			target_rate = $15, interview_company = $16, interview_position = $17,
			first_interview_date = $18, vendor_contact_name = $19,
			vendor_contact_email = $20, vendor_contact_phone = $21,
			client_company = $22, project_name = $23, hourly_rate = $24,
			start_date = $25, end_date = $26, consultant_notes = $27,
			updated_at = $28
		WHERE id = $1
	`, c.ID, c.FullName, c.VisaStatus, c.City, c.State,
		c.PrimarySkill, c.ExperienceYears, c.ContactInfo,
		c.Notes, c.Status, c.ResumeFilename, c.ResumeKey,
		c.AssignedConsultantName, c.TotalSubmissions,
		c.TargetRate, c.InterviewCompany, c.InterviewPosition,
		c.FirstInterviewDate, c.VendorContactName,
		c.VendorContactEmail, c.VendorContactPhone,
		c.ClientCompany, c.ProjectName, c.HourlyRate,
		c.StartDate, c.EndDate, c.ConsultantNotes,
		c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

func (r *CandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

func (r *CandidateRepository) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]candidate.Candidate, int64, error) {
	return r.query(ctx, predicates{}, limit, offset, sortBy, sortDir)
}

func (r *CandidateRepository) Search(ctx context.Context, f candidate.SearchFilter, limit, offset int) ([]candidate.Candidate, int64, error) {
	var p predicates
	p.ilike("c.full_name", f.FullName)
	if f.VisaStatus != "" {
		p.add("c.visa_status = $%d", string(f.VisaStatus))
	}
	p.ilike("c.primary_skill", f.PrimarySkill)
	p.ilike("c.state", f.State)
	if f.Status != "" {
		p.add("c.status = $%d", string(f.Status))
	}
	return r.query(ctx, p, limit, offset, "", "")
}

func (r *CandidateRepository) query(ctx context.Context, p predicates, limit, offset int, sortBy, sortDir string) ([]candidate.Candidate, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	var total int64
	countSQL := `SELECT COUNT(*) ` + candidateFrom + ` ` + p.where()
	if err := r.pool.QueryRow(ctx, countSQL, p.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := orderClause(candidateSortColumns, sortBy, sortDir, "c.created_at")
	sql := fmt.Sprintf(`SELECT %s %s %s %s LIMIT $%d OFFSET $%d`,
		candidateColumns, candidateFrom, p.where(), order, p.next(), p.next()+1)
	rows, err := r.pool.Query(ctx, sql, append(p.args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *CandidateRepository) ListByStatus(ctx context.Context, status candidate.Status) ([]candidate.Candidate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+candidateColumns+` `+candidateFrom+` WHERE c.status = $1 ORDER BY c.full_name`,
		string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CandidateRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&n)
	return n, err
}

func (r *CandidateRepository) CountByStatus(ctx context.Context, status candidate.Status) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM candidates WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

func scanCandidate(row pgx.Row) (candidate.Candidate, error) {
	var c candidate.Candidate
	var createdBy *uuid.UUID
	err := row.Scan(
		&c.ID, &c.FullName, &c.VisaStatus, &c.City, &c.State, &c.PrimarySkill,
		&c.ExperienceYears, &c.ContactInfo, &c.Notes, &c.Status,
		&c.ResumeFilename, &c.ResumeKey,
		&c.AssignedConsultantName, &c.TotalSubmissions, &c.TargetRate,
		&c.InterviewCompany, &c.InterviewPosition, &c.FirstInterviewDate,
		&c.VendorContactName, &c.VendorContactEmail, &c.VendorContactPhone,
		&c.ClientCompany, &c.ProjectName, &c.HourlyRate, &c.StartDate, &c.EndDate,
		&c.ConsultantNotes,
		&c.CreatedAt, &c.UpdatedAt, &createdBy, &c.CreatedByName,
	)
	if err != nil {
		return candidate.Candidate{}, err
	}
	if createdBy != nil {
		c.CreatedBy = *createdBy
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

// nullableUUID maps the zero uuid to NULL so audit links stay optional.
func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
