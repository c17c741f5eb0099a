package activity

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	activities map[uuid.UUID]*Activity
	// creator names resolved on read, like the users join in the SQL repo
	names map[uuid.UUID]string
}

func newMemRepo() *memRepo {
	return &memRepo{
		activities: make(map[uuid.UUID]*Activity),
		names:      make(map[uuid.UUID]string),
	}
}

func (r *memRepo) Create(_ context.Context, a *Activity) error {
	cp := *a
	r.activities[a.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Activity, error) {
	a, ok := r.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	cp.CreatedByName = r.names[a.CreatedBy]
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, a *Activity) error {
	if _, ok := r.activities[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	r.activities[a.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.activities[id]; !ok {
		return ErrNotFound
	}
	delete(r.activities, id)
	return nil
}

func (r *memRepo) all() []*Activity {
	out := make([]*Activity, 0, len(r.activities))
	for _, a := range r.activities {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivityDate.After(out[j].ActivityDate) })
	return out
}

func page(items []*Activity, limit, offset int) ([]*Activity, int64) {
	total := int64(len(items))
	if offset >= len(items) {
		return nil, total
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total
}

func (r *memRepo) List(_ context.Context, limit, offset int, _, _ string) ([]*Activity, int64, error) {
	items, total := page(r.all(), limit, offset)
	return items, total, nil
}

func (r *memRepo) Search(_ context.Context, f SearchFilter, limit, offset int, _, _ string) ([]*Activity, int64, error) {
	var hits []*Activity
	for _, a := range r.all() {
		if f.CandidateID != uuid.Nil && a.CandidateID != f.CandidateID {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.ClientName != "" && !strings.Contains(strings.ToLower(a.ClientName), strings.ToLower(f.ClientName)) {
			continue
		}
		if !f.From.IsZero() && a.ActivityDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && a.ActivityDate.After(f.To) {
			continue
		}
		hits = append(hits, a)
	}
	items, total := page(hits, limit, offset)
	return items, total, nil
}

func (r *memRepo) ListByCandidate(_ context.Context, candidateID uuid.UUID) ([]*Activity, error) {
	var out []*Activity
	for _, a := range r.all() {
		if a.CandidateID == candidateID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memRepo) ListRecent(_ context.Context, since time.Time, limit int) ([]*Activity, error) {
	var out []*Activity
	for _, a := range r.all() {
		if a.ActivityDate.Before(since) {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.activities)), nil
}

func (r *memRepo) CountByCandidate(_ context.Context, candidateID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.activities {
		if a.CandidateID == candidateID {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) CountByType(_ context.Context, t Type) (int64, error) {
	var n int64
	for _, a := range r.activities {
		if a.Type == t {
			n++
		}
	}
	return n, nil
}

func sample(candidateID uuid.UUID, t Type, client string, daysAgo int) *Activity {
	return &Activity{
		CandidateID:  candidateID,
		Type:         t,
		ClientName:   client,
		ActivityDate: time.Now().UTC().AddDate(0, 0, -daysAgo),
	}
}

func TestActivityCreateAndGet(t *testing.T) {
	uc := NewService(newMemRepo())
	candidateID := uuid.New()
	creator := uuid.New()

	created, err := uc.Create(context.Background(), sample(candidateID, TypeSubmitted, "Acme Corp", 0), creator)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, creator, created.CreatedBy)

	got, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, TypeSubmitted, got.Type)
	assert.Equal(t, "Acme Corp", got.ClientName)
}

func TestActivityCreateReturnsStoredRecord(t *testing.T) {
	repo := newMemRepo()
	uc := NewService(repo)
	creator := uuid.New()
	repo.names[creator] = "Jane Doe"

	created, err := uc.Create(context.Background(), sample(uuid.New(), TypeApplied, "Acme Corp", 0), creator)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", created.CreatedByName)

	updated, err := uc.Update(context.Background(), created.ID, sample(created.CandidateID, TypeSubmitted, "Acme Corp", 0))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.CreatedByName)
}

func TestActivityValidation(t *testing.T) {
	uc := NewService(newMemRepo())
	candidateID := uuid.New()
	neg := -5.0

	cases := []struct {
		name string
		a    *Activity
	}{
		{"nil payload", nil},
		{"missing candidate", sample(uuid.Nil, TypeApplied, "Acme", 0)},
		{"unknown type", sample(candidateID, "PINGED", "Acme", 0)},
		{"missing client", sample(candidateID, TypeApplied, "  ", 0)},
		{"zero date", &Activity{CandidateID: candidateID, Type: TypeApplied, ClientName: "Acme"}},
		{"negative rate", &Activity{CandidateID: candidateID, Type: TypeApplied, ClientName: "Acme", ActivityDate: time.Now(), SubmittedRate: &neg}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tc.a, uuid.New())
			var verr ErrValidation
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestActivityUpdatePreservesAudit(t *testing.T) {
	uc := NewService(newMemRepo())
	creator := uuid.New()

	created, err := uc.Create(context.Background(), sample(uuid.New(), TypeSubmitted, "Acme Corp", 1), creator)
	require.NoError(t, err)

	patch := sample(created.CandidateID, TypeInterviewScheduled, "Acme Corp", 0)
	updated, err := uc.Update(context.Background(), created.ID, patch)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, creator, updated.CreatedBy)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, TypeInterviewScheduled, updated.Type)
}

func TestActivitySearchConjunctive(t *testing.T) {
	uc := NewService(newMemRepo())
	target := uuid.New()

	_, err := uc.Create(context.Background(), sample(target, TypeSubmitted, "Acme Corp", 1), uuid.New())
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), sample(target, TypeRejected, "Acme Corp", 2), uuid.New())
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), sample(uuid.New(), TypeSubmitted, "Globex", 3), uuid.New())
	require.NoError(t, err)

	hits, total, err := uc.Search(context.Background(), SearchFilter{
		CandidateID: target,
		Type:        TypeSubmitted,
	}, 10, 0, "activity_date", "desc")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, hits, 1)
	assert.Equal(t, "Acme Corp", hits[0].ClientName)

	_, _, err = uc.Search(context.Background(), SearchFilter{Type: "PINGED"}, 10, 0, "", "")
	var verr ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestActivityDateRange(t *testing.T) {
	uc := NewService(newMemRepo())

	_, err := uc.Create(context.Background(), sample(uuid.New(), TypeApplied, "Acme", 1), uuid.New())
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), sample(uuid.New(), TypeApplied, "Acme", 30), uuid.New())
	require.NoError(t, err)

	from := time.Now().UTC().AddDate(0, 0, -7)
	to := time.Now().UTC()
	hits, total, err := uc.ListByDateRange(context.Background(), from, to, 10, 0, "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, hits, 1)

	_, _, err = uc.ListByDateRange(context.Background(), to, from, 10, 0, "", "")
	var verr ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestActivityRecentWindow(t *testing.T) {
	uc := NewService(newMemRepo())

	_, err := uc.Create(context.Background(), sample(uuid.New(), TypeFeedbackReceived, "Acme", 2), uuid.New())
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), sample(uuid.New(), TypeFeedbackReceived, "Acme", 12), uuid.New())
	require.NoError(t, err)

	recent, err := uc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestActivityCounts(t *testing.T) {
	uc := NewService(newMemRepo())
	target := uuid.New()

	_, err := uc.Create(context.Background(), sample(target, TypeSubmitted, "Acme", 1), uuid.New())
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), sample(target, TypeOnHold, "Acme", 2), uuid.New())
	require.NoError(t, err)

	total, err := uc.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	byCandidate, err := uc.CountByCandidate(context.Background(), target)
	require.NoError(t, err)
	assert.EqualValues(t, 2, byCandidate)

	byType, err := uc.CountByType(context.Background(), TypeOnHold)
	require.NoError(t, err)
	assert.EqualValues(t, 1, byType)

	_, err = uc.CountByType(context.Background(), "PINGED")
	var verr ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestActivityDelete(t *testing.T) {
	uc := NewService(newMemRepo())

	created, err := uc.Create(context.Background(), sample(uuid.New(), TypeApplied, "Acme", 0), uuid.New())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))
	_, err = uc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
