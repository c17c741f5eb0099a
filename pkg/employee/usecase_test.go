package employee

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows map[uuid.UUID]Employee
}

func newMemRepo() *memRepo { return &memRepo{rows: map[uuid.UUID]Employee{}} }

func (r *memRepo) Create(_ context.Context, e Employee) error {
	r.rows[e.ID] = e
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (Employee, error) {
	e, ok := r.rows[id]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return e, nil
}

func (r *memRepo) Update(_ context.Context, e Employee) error {
	if _, ok := r.rows[e.ID]; !ok {
		return ErrNotFound
	}
	r.rows[e.ID] = e
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo) ListAll(_ context.Context) ([]Employee, error) {
	out := make([]Employee, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *memRepo) List(ctx context.Context, limit, offset int, _, _ string) ([]Employee, int64, error) {
	all, _ := r.ListAll(ctx)
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memRepo) Search(ctx context.Context, f SearchFilter, limit, offset int) ([]Employee, int64, error) {
	var out []Employee
	all, _ := r.ListAll(ctx)
	for _, e := range all {
		if f.FullName != "" && !strings.Contains(strings.ToLower(e.FullName), strings.ToLower(f.FullName)) {
			continue
		}
		if f.Role != "" && e.Role != f.Role {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) ListByRole(ctx context.Context, role Role) ([]Employee, error) {
	out, _, err := r.Search(ctx, SearchFilter{Role: role}, 0, 0)
	return out, err
}

func (r *memRepo) ExistsByEmail(_ context.Context, email string, excludeID uuid.UUID) (bool, error) {
	for _, e := range r.rows {
		if e.Email == email && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) Count(_ context.Context) (int64, error) { return int64(len(r.rows)), nil }

func jane() Employee {
	return Employee{FullName: "Jane Doe", Email: "jane@x.com", Role: RoleConsultant}
}

func TestCreateUniqueEmail(t *testing.T) {
	svc := NewService(newMemRepo())

	created, err := svc.Create(context.Background(), jane(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", created.Email)
	assert.NotEqual(t, uuid.Nil, created.ID)

	dup := jane()
	dup.FullName = "Jane Smith"
	_, err = svc.Create(context.Background(), dup, uuid.New())
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Different email succeeds.
	other := jane()
	other.Email = "jane.smith@x.com"
	_, err = svc.Create(context.Background(), other, uuid.New())
	assert.NoError(t, err)
}

func TestCreateNormalizesEmailCase(t *testing.T) {
	svc := NewService(newMemRepo())
	e := jane()
	e.Email = "Jane@X.com"
	created, err := svc.Create(context.Background(), e, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", created.Email)

	_, err = svc.Create(context.Background(), jane(), uuid.New())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateEmailConflictExcludesSelf(t *testing.T) {
	svc := NewService(newMemRepo())
	a, err := svc.Create(context.Background(), jane(), uuid.New())
	require.NoError(t, err)
	b := jane()
	b.FullName = "Bob Lee"
	b.Email = "bob@x.com"
	created, err := svc.Create(context.Background(), b, uuid.New())
	require.NoError(t, err)

	// Keeping your own email is fine.
	upd := created
	upd.Notes = "updated"
	_, err = svc.Update(context.Background(), created.ID, upd)
	assert.NoError(t, err)

	// Taking someone else's is not.
	upd.Email = a.Email
	_, err = svc.Update(context.Background(), created.ID, upd)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestValidation(t *testing.T) {
	svc := NewService(newMemRepo())
	cases := []struct {
		name string
		e    Employee
	}{
		{"missing name", Employee{Email: "a@x.com", Role: RoleRecruiter}},
		{"missing email", Employee{FullName: "A", Role: RoleRecruiter}},
		{"bad role", Employee{FullName: "A", Email: "a@x.com", Role: "INTERN"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.e, uuid.New())
			var verr ErrValidation
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestDeleteIsIrreversible(t *testing.T) {
	svc := NewService(newMemRepo())
	created, err := svc.Create(context.Background(), jane(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), ErrNotFound)
}
