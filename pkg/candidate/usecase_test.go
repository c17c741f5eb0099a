package candidate

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	candidates map[uuid.UUID]Candidate
}

func newMemRepo() *memRepo {
	return &memRepo{candidates: map[uuid.UUID]Candidate{}}
}

func (r *memRepo) Create(_ context.Context, c Candidate) error {
	r.candidates[c.ID] = c
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (Candidate, error) {
	c, ok := r.candidates[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return c, nil
}

func (r *memRepo) Update(_ context.Context, c Candidate) error {
	if _, ok := r.candidates[c.ID]; !ok {
		return ErrNotFound
	}
	r.candidates[c.ID] = c
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.candidates[id]; !ok {
		return ErrNotFound
	}
	delete(r.candidates, id)
	return nil
}

func (r *memRepo) all() []Candidate {
	out := make([]Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		out = append(out, c)
	}
	return out
}

func (r *memRepo) List(_ context.Context, limit, offset int, _, _ string) ([]Candidate, int64, error) {
	all := r.all()
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *memRepo) Search(_ context.Context, f SearchFilter, limit, offset int) ([]Candidate, int64, error) {
	var matched []Candidate
	for _, c := range r.all() {
		if f.FullName != "" && !strings.Contains(strings.ToLower(c.FullName), strings.ToLower(f.FullName)) {
			continue
		}
		if f.VisaStatus != "" && c.VisaStatus != f.VisaStatus {
			continue
		}
		if f.PrimarySkill != "" && !strings.Contains(strings.ToLower(c.PrimarySkill), strings.ToLower(f.PrimarySkill)) {
			continue
		}
		if f.State != "" && !strings.Contains(strings.ToLower(c.State), strings.ToLower(f.State)) {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		matched = append(matched, c)
	}
	return page(matched, limit, offset), int64(len(matched)), nil
}

func (r *memRepo) ListByStatus(_ context.Context, status Status) ([]Candidate, error) {
	var out []Candidate
	for _, c := range r.all() {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) CountByStatus(_ context.Context, status Status) (int64, error) {
	items, _ := r.ListByStatus(context.Background(), status)
	return int64(len(items)), nil
}

func page(items []Candidate, limit, offset int) []Candidate {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type memStore struct {
	files map[string][]byte
	next  int
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (s *memStore) Save(data []byte, originalName string) (string, error) {
	s.next++
	key := originalName + "#" + strings.Repeat("x", s.next)
	s.files[key] = data
	return key, nil
}

func (s *memStore) Load(key string) ([]byte, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *memStore) Delete(key string) error {
	delete(s.files, key)
	return nil
}

func fixture() (UseCase, *memRepo, *memStore) {
	repo := newMemRepo()
	store := newMemStore()
	return NewService(repo, store), repo, store
}

func valid() Candidate {
	return Candidate{
		FullName:        "John Smith",
		VisaStatus:      VisaOPT,
		City:            "Dallas",
		State:           "TX",
		PrimarySkill:    "Go",
		ExperienceYears: 4,
	}
}

func TestCandidateCreateDefaultsToBench(t *testing.T) {
	svc, _, _ := fixture()

	got, err := svc.Create(context.Background(), valid(), nil, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StatusBench, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	fetched, err := svc.GetByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, fetched)
}

func TestCandidateValidation(t *testing.T) {
	svc, _, _ := fixture()
	cases := []struct {
		name   string
		mutate func(*Candidate)
	}{
		{"missing name", func(c *Candidate) { c.FullName = " " }},
		{"missing city", func(c *Candidate) { c.City = "" }},
		{"missing skill", func(c *Candidate) { c.PrimarySkill = "" }},
		{"negative experience", func(c *Candidate) { c.ExperienceYears = -1 }},
		{"absurd experience", func(c *Candidate) { c.ExperienceYears = 51 }},
		{"unknown visa", func(c *Candidate) { c.VisaStatus = "B2" }},
		{"unknown status", func(c *Candidate) { c.Status = "RETIRED" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), in, nil, uuid.New())
			var verr ErrValidation
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCandidateUpdatePreservesAuditFields(t *testing.T) {
	svc, _, _ := fixture()
	creator := uuid.New()
	created, err := svc.Create(context.Background(), valid(), nil, creator)
	require.NoError(t, err)

	in := valid()
	in.FullName = "John A. Smith"
	in.Status = StatusInterview
	updated, err := svc.Update(context.Background(), created.ID, in, nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, creator, updated.CreatedBy)
	assert.Equal(t, "John A. Smith", updated.FullName)
	assert.Equal(t, StatusInterview, updated.Status)
}

func TestCandidateResumeReplaceDeletesOldFile(t *testing.T) {
	svc, _, store := fixture()
	created, err := svc.Create(context.Background(), valid(),
		&Upload{Filename: "old.pdf", Size: 3, Data: []byte("old")}, uuid.New())
	require.NoError(t, err)
	require.Len(t, store.files, 1)

	updated, err := svc.Update(context.Background(), created.ID, valid(),
		&Upload{Filename: "new.pdf", Size: 3, Data: []byte("new")})
	require.NoError(t, err)
	assert.Equal(t, "new.pdf", updated.ResumeFilename)
	assert.Len(t, store.files, 1)

	data, filename, err := svc.ResumeFile(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
	assert.Equal(t, "new.pdf", filename)
}

func TestCandidateUpdateWithoutResumeKeepsExisting(t *testing.T) {
	svc, _, _ := fixture()
	created, err := svc.Create(context.Background(), valid(),
		&Upload{Filename: "resume.pdf", Size: 1, Data: []byte("r")}, uuid.New())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, valid(), nil)
	require.NoError(t, err)
	assert.Equal(t, created.ResumeKey, updated.ResumeKey)
	assert.Equal(t, "resume.pdf", updated.ResumeFilename)
}

func TestCandidateDeleteRemovesResumeFile(t *testing.T) {
	svc, _, store := fixture()
	created, err := svc.Create(context.Background(), valid(),
		&Upload{Filename: "resume.pdf", Size: 1, Data: []byte("r")}, uuid.New())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, store.files)
	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCandidateResumeMissing(t *testing.T) {
	svc, _, _ := fixture()
	created, err := svc.Create(context.Background(), valid(), nil, uuid.New())
	require.NoError(t, err)

	_, _, err = svc.ResumeFile(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCandidateSearchConjunctive(t *testing.T) {
	svc, _, _ := fixture()
	a := valid()
	a.FullName = "Alice Johnson"
	a.PrimarySkill = "Java"
	b := valid()
	b.FullName = "Bob Johnson"
	b.PrimarySkill = "Go"
	for _, c := range []Candidate{a, b} {
		_, err := svc.Create(context.Background(), c, nil, uuid.New())
		require.NoError(t, err)
	}

	items, total, err := svc.Search(context.Background(),
		SearchFilter{FullName: "johnson", PrimarySkill: "go"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Bob Johnson", items[0].FullName)
}

func TestCandidateEmptySearchEqualsList(t *testing.T) {
	svc, _, _ := fixture()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), valid(), nil, uuid.New())
		require.NoError(t, err)
	}

	listed, listTotal, err := svc.List(context.Background(), 10, 0, "", "")
	require.NoError(t, err)
	searched, searchTotal, err := svc.Search(context.Background(), SearchFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, listTotal, searchTotal)
	assert.ElementsMatch(t, listed, searched)
}

func TestCandidateListByStatusRejectsUnknown(t *testing.T) {
	svc, _, _ := fixture()
	_, err := svc.ListByStatus(context.Background(), "RETIRED")
	var verr ErrValidation
	assert.ErrorAs(t, err, &verr)
}
