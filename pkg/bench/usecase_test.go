package bench

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultancy/staffing/pkg/candidate"
)

// In-memory doubles for the repository, file store and employee directory.

type memRepo struct {
	candidates map[uuid.UUID]BenchCandidate
	documents  map[uuid.UUID]Document
}

func newMemRepo() *memRepo {
	return &memRepo{
		candidates: map[uuid.UUID]BenchCandidate{},
		documents:  map[uuid.UUID]Document{},
	}
}

func (r *memRepo) Create(_ context.Context, bc BenchCandidate) error {
	r.candidates[bc.ID] = bc
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (BenchCandidate, error) {
	bc, ok := r.candidates[id]
	if !ok {
		return BenchCandidate{}, ErrNotFound
	}
	return bc, nil
}

func (r *memRepo) Update(_ context.Context, bc BenchCandidate) error {
	if _, ok := r.candidates[bc.ID]; !ok {
		return ErrNotFound
	}
	r.candidates[bc.ID] = bc
	return nil
}

func (r *memRepo) DeleteWithDocuments(_ context.Context, id uuid.UUID) ([]string, error) {
	if _, ok := r.candidates[id]; !ok {
		return nil, ErrNotFound
	}
	var keys []string
	for docID, d := range r.documents {
		if d.BenchCandidateID == id {
			keys = append(keys, d.StorageKey)
			delete(r.documents, docID)
		}
	}
	delete(r.candidates, id)
	return keys, nil
}

func (r *memRepo) List(_ context.Context, limit, offset int, _, _ string) ([]BenchCandidate, int64, error) {
	all := r.all()
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

func (r *memRepo) Search(_ context.Context, f SearchFilter, limit, offset int) ([]BenchCandidate, int64, error) {
	var out []BenchCandidate
	for _, bc := range r.all() {
		if f.FullName != "" && !strings.Contains(strings.ToLower(bc.FullName), strings.ToLower(f.FullName)) {
			continue
		}
		if f.PrimarySkill != "" && !strings.Contains(strings.ToLower(bc.PrimarySkill), strings.ToLower(f.PrimarySkill)) {
			continue
		}
		if f.VisaStatus != "" && bc.VisaStatus != f.VisaStatus {
			continue
		}
		out = append(out, bc)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) ListByConsultant(_ context.Context, consultantID uuid.UUID) ([]BenchCandidate, error) {
	var out []BenchCandidate
	for _, bc := range r.all() {
		if bc.AssignedConsultantID != nil && *bc.AssignedConsultantID == consultantID {
			out = append(out, bc)
		}
	}
	return out, nil
}

func (r *memRepo) ListRecent(_ context.Context, limit int) ([]BenchCandidate, error) {
	all := r.all()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memRepo) Count(_ context.Context) (int64, error) { return int64(len(r.candidates)), nil }

func (r *memRepo) CreateDocument(_ context.Context, d Document) error {
	r.documents[d.ID] = d
	return nil
}

func (r *memRepo) GetDocument(_ context.Context, candidateID, documentID uuid.UUID) (Document, error) {
	d, ok := r.documents[documentID]
	if !ok || d.BenchCandidateID != candidateID {
		return Document{}, ErrDocumentNotFound
	}
	return d, nil
}

func (r *memRepo) ListDocuments(_ context.Context, candidateID uuid.UUID) ([]Document, error) {
	var out []Document
	for _, d := range r.documents {
		if d.BenchCandidateID == candidateID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memRepo) DeleteDocument(_ context.Context, candidateID, documentID uuid.UUID) error {
	d, ok := r.documents[documentID]
	if !ok || d.BenchCandidateID != candidateID {
		return ErrDocumentNotFound
	}
	delete(r.documents, documentID)
	return nil
}

func (r *memRepo) CountDocuments(_ context.Context, candidateID uuid.UUID) (int64, error) {
	docs, _ := r.ListDocuments(context.Background(), candidateID)
	return int64(len(docs)), nil
}

func (r *memRepo) TotalDocumentSize(_ context.Context, candidateID uuid.UUID) (int64, error) {
	docs, _ := r.ListDocuments(context.Background(), candidateID)
	var total int64
	for _, d := range docs {
		total += d.FileSize
	}
	return total, nil
}

func (r *memRepo) all() []BenchCandidate {
	out := make([]BenchCandidate, 0, len(r.candidates))
	for _, bc := range r.candidates {
		out = append(out, bc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}

type memStore struct {
	files map[string][]byte
	n     int
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (s *memStore) Save(data []byte, originalName string) (string, error) {
	s.n++
	key := uuid.New().String()
	s.files[key] = data
	return key, nil
}

func (s *memStore) Load(key string) ([]byte, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func (s *memStore) Delete(key string) error {
	delete(s.files, key)
	return nil
}

type memDirectory struct {
	names map[uuid.UUID]string
}

func (d *memDirectory) NameByID(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := d.names[id]
	if !ok {
		return "", errors.New("employee not found")
	}
	return name, nil
}

func fixture() (UseCase, *memRepo, *memStore, uuid.UUID) {
	repo := newMemRepo()
	store := newMemStore()
	consultantID := uuid.New()
	dir := &memDirectory{names: map[uuid.UUID]string{consultantID: "Jane Doe"}}
	return NewService(repo, store, dir), repo, store, consultantID
}

func validCandidate() BenchCandidate {
	return BenchCandidate{
		FullName:        "John Smith",
		VisaStatus:      candidate.VisaH1B,
		City:            "Austin",
		State:           "TX",
		PrimarySkill:    "Java",
		ExperienceYears: 7,
	}
}

func TestCreateRoundTrip(t *testing.T) {
	svc, _, _, consultantID := fixture()
	in := validCandidate()
	in.AssignedConsultantID = &consultantID

	got, err := svc.Create(context.Background(), in, nil, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "John Smith", got.FullName)
	assert.Equal(t, candidate.VisaH1B, got.VisaStatus)
	assert.Equal(t, "Jane Doe", got.AssignedConsultantName)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestConsultantNameFollowsReference(t *testing.T) {
	svc, _, _, consultantID := fixture()
	created, err := svc.Create(context.Background(), validCandidate(), nil, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, created.AssignedConsultantName)

	in := validCandidate()
	in.AssignedConsultantID = &consultantID
	updated, err := svc.Update(context.Background(), created.ID, in, nil)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.AssignedConsultantName)

	unassigned, err := svc.Update(context.Background(), created.ID, validCandidate(), nil)
	require.NoError(t, err)
	assert.Empty(t, unassigned.AssignedConsultantName)
}

func TestCreateRejectsDanglingConsultant(t *testing.T) {
	svc, _, _, _ := fixture()
	in := validCandidate()
	missing := uuid.New()
	in.AssignedConsultantID = &missing

	_, err := svc.Create(context.Background(), in, nil, uuid.New())
	var verr candidate.ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestCreateMirrorsFirstResumeDocument(t *testing.T) {
	svc, repo, _, _ := fixture()
	docs := []candidate.Upload{
		{Filename: "random.pdf", ContentType: "application/pdf", Size: 3, Data: []byte("abc")},
		{Filename: "John_Resume.pdf", ContentType: "application/pdf", Size: 4, Data: []byte("abcd")},
		{Filename: "other_cv.pdf", ContentType: "application/pdf", Size: 2, Data: []byte("ab")},
	}
	got, err := svc.Create(context.Background(), validCandidate(), docs, uuid.New())
	require.NoError(t, err)

	// First RESUME-typed document becomes the legacy single resume.
	assert.Equal(t, "John_Resume.pdf", got.ResumeFilename)
	assert.NotEmpty(t, got.ResumeKey)

	stored, err := repo.ListDocuments(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestUpdateIsIdempotent(t *testing.T) {
	svc, _, _, _ := fixture()
	created, err := svc.Create(context.Background(), validCandidate(), nil, uuid.New())
	require.NoError(t, err)

	upd := validCandidate()
	upd.PrimarySkill = "Go"
	first, err := svc.Update(context.Background(), created.ID, upd, nil)
	require.NoError(t, err)
	second, err := svc.Update(context.Background(), created.ID, upd, nil)
	require.NoError(t, err)

	first.UpdatedAt = second.UpdatedAt
	assert.Equal(t, first, second)
	assert.Equal(t, created.CreatedAt, second.CreatedAt)
}

func TestDeleteCascadesDocumentsAndFiles(t *testing.T) {
	svc, repo, store, _ := fixture()
	docs := []candidate.Upload{
		{Filename: "John_Resume.pdf", Size: 4, Data: []byte("abcd")},
		{Filename: "transcript_2023.pdf", Size: 3, Data: []byte("abc")},
	}
	created, err := svc.Create(context.Background(), validCandidate(), docs, uuid.New())
	require.NoError(t, err)
	require.Len(t, store.files, 2)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, repo.documents)
	assert.Empty(t, store.files, "backing files must be removed with the rows")
}

func TestDeleteDocumentRemovesBackingFile(t *testing.T) {
	svc, _, store, _ := fixture()
	created, err := svc.Create(context.Background(), validCandidate(), nil, uuid.New())
	require.NoError(t, err)

	doc, err := svc.UploadDocument(context.Background(), created.ID,
		candidate.Upload{Filename: "aws_certificate.pdf", Size: 3, Data: []byte("abc")}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, DocCertificate, doc.Type)

	require.NoError(t, svc.DeleteDocument(context.Background(), created.ID, doc.ID))
	assert.Empty(t, store.files)
	_, err = svc.DocumentInfo(context.Background(), created.ID, doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestSearchFiltersAreConjunctive(t *testing.T) {
	svc, _, _, _ := fixture()
	a := validCandidate() // John Smith / Java
	b := validCandidate()
	b.FullName = "John Carter"
	b.PrimarySkill = "Python"
	_, err := svc.Create(context.Background(), a, nil, uuid.New())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), b, nil, uuid.New())
	require.NoError(t, err)

	// Both match the name filter alone.
	got, total, err := svc.Search(context.Background(), SearchFilter{FullName: "john"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, got, 2)

	// Adding the skill filter excludes the Python candidate.
	got, total, err = svc.Search(context.Background(), SearchFilter{FullName: "john", PrimarySkill: "java"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "John Smith", got[0].FullName)
}

func TestEmptySearchEqualsList(t *testing.T) {
	svc, _, _, _ := fixture()
	for _, name := range []string{"A One", "B Two", "C Three"} {
		bc := validCandidate()
		bc.FullName = name
		_, err := svc.Create(context.Background(), bc, nil, uuid.New())
		require.NoError(t, err)
	}
	listed, listTotal, err := svc.List(context.Background(), 100, 0, "", "")
	require.NoError(t, err)
	searched, searchTotal, err := svc.Search(context.Background(), SearchFilter{}, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, listTotal, searchTotal)
	assert.ElementsMatch(t, listed, searched)
}

func TestResumeDownloadMissing(t *testing.T) {
	svc, _, _, _ := fixture()
	created, err := svc.Create(context.Background(), validCandidate(), nil, uuid.New())
	require.NoError(t, err)
	_, _, err = svc.ResumeFile(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentSummary(t *testing.T) {
	svc, _, _, _ := fixture()
	created, err := svc.Create(context.Background(), validCandidate(), []candidate.Upload{
		{Filename: "John_Resume.pdf", ContentType: "application/pdf", Size: 4, Data: []byte("abcd")},
		{Filename: "transcript_2023.pdf", ContentType: "application/pdf", Size: 6, Data: []byte("abcdef")},
	}, uuid.New())
	require.NoError(t, err)

	count, totalBytes, err := svc.DocumentSummary(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(10), totalBytes)

	_, _, err = svc.DocumentSummary(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
