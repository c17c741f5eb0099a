package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/consultancy/staffing/pkg/vendor"
)

// VendorRepository implements vendor.Repository backed by PostgreSQL. The
// submission/placement counters are bumped with atomic in-place updates.
type VendorRepository struct {
	pool *pgxpool.Pool
}

var vendorSortColumns = map[string]string{
	"companyname":          "v.company_name",
	"status":               "v.status",
	"totalsubmissions":     "v.total_submissions",
	"successfulplacements": "v.successful_placements",
	"createdat":            "v.created_at",
	"updatedat":            "v.updated_at",
}

const vendorColumns = `
	v.id, v.company_name, v.primary_contact_name, v.primary_contact_email,
	v.primary_contact_phone, v.address, v.city, v.state, v.zip_code,
	v.country, v.preferred_skills, v.rate_range_min, v.rate_range_max,
	v.total_submissions, v.successful_placements, v.notes, v.status,
	v.created_at, v.updated_at, v.created_by, COALESCE(u.full_name, '')`

const vendorFrom = `FROM vendors v LEFT JOIN users u ON u.id = v.created_by`

func NewVendorRepository(pool *pgxpool.Pool) (*VendorRepository, error) {
	repo := &VendorRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *VendorRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS vendors (
			id UUID PRIMARY KEY,
			company_name TEXT NOT NULL,
			primary_contact_name TEXT NOT NULL,
			primary_contact_email TEXT NOT NULL DEFAULT '',
			primary_contact_phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			zip_code TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			preferred_skills TEXT NOT NULL DEFAULT '',
			rate_range_min DOUBLE PRECISION,
			rate_range_max DOUBLE PRECISION,
			total_submissions INT NOT NULL DEFAULT 0,
			successful_placements INT NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			created_by UUID
		);
		CREATE INDEX IF NOT EXISTS idx_vendors_status ON vendors (status);
	`)
	return err
}

func (r *VendorRepository) Create(ctx context.Context, v vendor.Vendor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO vendors (
			id, company_name, primary_contact_name, primary_contact_email,
			primary_contact_phone, address, city, state, zip_code, country,
			preferred_skills, rate_range_min, rate_range_max,
			total_submissions, successful_placements, notes, status,
			created_at, updated_at, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`, v.ID, v.CompanyName, v.PrimaryContactName, v.PrimaryContactEmail,
		v.PrimaryContactPhone, v.Address, v.City, v.State, v.ZipCode, v.Country,
		v.PreferredSkills, v.RateRangeMin, v.RateRangeMax,
		v.TotalSubmissions, v.SuccessfulPlacements, v.Notes, v.Status,
		v.CreatedAt, v.UpdatedAt, nullableUUID(v.CreatedBy))
	return err
}

func (r *VendorRepository) GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+vendorColumns+` `+vendorFrom+` WHERE v.id = $1`, id)
	v, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vendor.Vendor{}, vendor.ErrNotFound
		}
		return vendor.Vendor{}, err
	}
	return v, nil
}

func (r *VendorRepository) Update(ctx context.Context, v vendor.Vendor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vendors SET
			company_name = $2, primary_contact_name = $3,
			primary_contact_email = $4, primary_contact_phone = $5,
			address = $6, city = $7, state = $8, zip_code = $9, country = $10,
			preferred_skills = $11, rate_range_min = $12, rate_range_max = $13,
			notes = $14, status = $15, updated_at = $16
		WHERE id = $1
	`, v.ID, v.CompanyName, v.PrimaryContactName,
		v.PrimaryContactEmail, v.PrimaryContactPhone,
		v.Address, v.City, v.State, v.ZipCode, v.Country,
		v.PreferredSkills, v.RateRangeMin, v.RateRangeMax,
		v.Notes, v.Status, v.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return vendor.ErrNotFound
	}
	return nil
}

func (r *VendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return vendor.ErrNotFound
	}
	return nil
}

func (r *VendorRepository) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]vendor.Vendor, int64, error) {
	return r.query(ctx, predicates{}, limit, offset, sortBy, sortDir)
}

func (r *VendorRepository) Search(ctx context.Context, f vendor.SearchFilter, limit, offset int) ([]vendor.Vendor, int64, error) {
	var p predicates
	p.ilike("v.company_name", f.CompanyName)
	p.ilike("v.primary_contact_name", f.ContactName)
	if f.Status != "" {
		p.add("v.status = $%d", string(f.Status))
	}
	return r.query(ctx, p, limit, offset, "", "")
}

func (r *VendorRepository) query(ctx context.Context, p predicates, limit, offset int, sortBy, sortDir string) ([]vendor.Vendor, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	var total int64
	countSQL := `SELECT COUNT(*) ` + vendorFrom + ` ` + p.where()
	if err := r.pool.QueryRow(ctx, countSQL, p.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := orderClause(vendorSortColumns, sortBy, sortDir, "v.company_name")
	sql := fmt.Sprintf(`SELECT %s %s %s %s LIMIT $%d OFFSET $%d`,
		vendorColumns, vendorFrom, p.where(), order, p.next(), p.next()+1)
	rows, err := r.pool.Query(ctx, sql, append(p.args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectVendors(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *VendorRepository) ListByStatus(ctx context.Context, status vendor.Status) ([]vendor.Vendor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vendorColumns+` `+vendorFrom+` WHERE v.status = $1 ORDER BY v.company_name`,
		string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVendors(rows)
}

func (r *VendorRepository) ListTopPerforming(ctx context.Context, limit int) ([]vendor.Vendor, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+vendorColumns+` `+vendorFrom+`
		ORDER BY v.successful_placements DESC, v.total_submissions DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVendors(rows)
}

func (r *VendorRepository) IncrementSubmissions(ctx context.Context, id uuid.UUID) error {
	return r.bump(ctx, id, "total_submissions")
}

func (r *VendorRepository) IncrementPlacements(ctx context.Context, id uuid.UUID) error {
	return r.bump(ctx, id, "successful_placements")
}

func (r *VendorRepository) bump(ctx context.Context, id uuid.UUID, column string) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE vendors SET %s = %s + 1, updated_at = NOW() WHERE id = $1
	`, column, column), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return vendor.ErrNotFound
	}
	return nil
}

func (r *VendorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vendors`).Scan(&n)
	return n, err
}

func (r *VendorRepository) CountByStatus(ctx context.Context, status vendor.Status) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM vendors WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

func collectVendors(rows pgx.Rows) ([]vendor.Vendor, error) {
	var out []vendor.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVendor(row pgx.Row) (vendor.Vendor, error) {
	var v vendor.Vendor
	var createdBy *uuid.UUID
	err := row.Scan(
		&v.ID, &v.CompanyName, &v.PrimaryContactName, &v.PrimaryContactEmail,
		&v.PrimaryContactPhone, &v.Address, &v.City, &v.State, &v.ZipCode,
		&v.Country, &v.PreferredSkills, &v.RateRangeMin, &v.RateRangeMax,
		&v.TotalSubmissions, &v.SuccessfulPlacements, &v.Notes, &v.Status,
		&v.CreatedAt, &v.UpdatedAt, &createdBy, &v.CreatedByName,
	)
	if err != nil {
		return vendor.Vendor{}, err
	}
	if createdBy != nil {
		v.CreatedBy = *createdBy
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, nil
}
