package working

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultancy/staffing/pkg/candidate"
)

type memRepo struct {
	rows map[uuid.UUID]WorkingCandidate
}

func (r *memRepo) Create(_ context.Context, wc WorkingCandidate) error {
	r.rows[wc.ID] = wc
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (WorkingCandidate, error) {
	wc, ok := r.rows[id]
	if !ok {
		return WorkingCandidate{}, ErrNotFound
	}
	return wc, nil
}

func (r *memRepo) Update(_ context.Context, wc WorkingCandidate) error {
	if _, ok := r.rows[wc.ID]; !ok {
		return ErrNotFound
	}
	r.rows[wc.ID] = wc
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *memRepo) List(_ context.Context, _, _ int, _, _ string) ([]WorkingCandidate, int64, error) {
	var out []WorkingCandidate
	for _, wc := range r.rows {
		out = append(out, wc)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) Search(ctx context.Context, _ SearchFilter, limit, offset int) ([]WorkingCandidate, int64, error) {
	return r.List(ctx, limit, offset, "", "")
}

func (r *memRepo) Count(_ context.Context) (int64, error) { return int64(len(r.rows)), nil }

type memDirectory struct{ names map[uuid.UUID]string }

func (d *memDirectory) NameByID(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := d.names[id]
	if !ok {
		return "", errors.New("employee not found")
	}
	return name, nil
}

func fixture() (UseCase, uuid.UUID) {
	placedBy := uuid.New()
	dir := &memDirectory{names: map[uuid.UUID]string{placedBy: "Jane Doe"}}
	return NewService(&memRepo{rows: map[uuid.UUID]WorkingCandidate{}}, dir), placedBy
}

func valid(placedBy uuid.UUID) WorkingCandidate {
	return WorkingCandidate{
		FullName:        "John Smith",
		VisaStatus:      candidate.VisaOPT,
		WorkingLocation: "Dallas, TX",
		JobRole:         "Data Engineer",
		ExperienceYears: 5,
		Email:           "john@x.com",
		PhoneNumber:     "555-0101",
		HourlyRate:      85,
		ProjectDuration: "12 months",
		ClientName:      "Acme Corp",
		PlacedBy:        placedBy,
	}
}

func TestCreateRequiresExistingPlacer(t *testing.T) {
	svc, placedBy := fixture()

	got, err := svc.Create(context.Background(), valid(placedBy), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, placedBy, got.PlacedBy)
	assert.Equal(t, "Jane Doe", got.PlacedByName)

	wc := valid(uuid.New()) // dangling reference
	_, err = svc.Create(context.Background(), wc, uuid.New())
	var verr candidate.ErrValidation
	assert.ErrorAs(t, err, &verr)

	wc = valid(placedBy)
	wc.PlacedBy = uuid.Nil
	_, err = svc.Create(context.Background(), wc, uuid.New())
	assert.ErrorAs(t, err, &verr)
}

func TestCreateRequiresRateAndClient(t *testing.T) {
	svc, placedBy := fixture()
	var verr candidate.ErrValidation

	wc := valid(placedBy)
	wc.HourlyRate = 0
	_, err := svc.Create(context.Background(), wc, uuid.New())
	assert.ErrorAs(t, err, &verr)

	wc = valid(placedBy)
	wc.ClientName = "  "
	_, err = svc.Create(context.Background(), wc, uuid.New())
	assert.ErrorAs(t, err, &verr)
}

func TestUpdatePreservesAudit(t *testing.T) {
	svc, placedBy := fixture()
	creator := uuid.New()
	created, err := svc.Create(context.Background(), valid(placedBy), creator)
	require.NoError(t, err)

	upd := valid(placedBy)
	upd.ClientName = "Globex"
	got, err := svc.Update(context.Background(), created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Globex", got.ClientName)
	assert.Equal(t, creator, got.CreatedBy)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestDeleteThenGetNotFound(t *testing.T) {
	svc, placedBy := fixture()
	created, err := svc.Create(context.Background(), valid(placedBy), uuid.New())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
