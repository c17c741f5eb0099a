package bench

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consultancy/staffing/pkg/candidate"
)

// UseCase covers bench candidates and their document sub-resource.
type UseCase interface {
	Create(ctx context.Context, bc BenchCandidate, docs []candidate.Upload, createdBy uuid.UUID) (BenchCandidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (BenchCandidate, error)
	Update(ctx context.Context, id uuid.UUID, bc BenchCandidate, docs []candidate.Upload) (BenchCandidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]BenchCandidate, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]BenchCandidate, int64, error)
	ListByConsultant(ctx context.Context, consultantID uuid.UUID) ([]BenchCandidate, error)
	ListRecent(ctx context.Context, limit int) ([]BenchCandidate, error)
	ResumeFile(ctx context.Context, id uuid.UUID) ([]byte, string, error)

	Documents(ctx context.Context, candidateID uuid.UUID) ([]Document, error)
	DocumentSummary(ctx context.Context, candidateID uuid.UUID) (count, totalBytes int64, err error)
	UploadDocument(ctx context.Context, candidateID uuid.UUID, up candidate.Upload, uploadedBy uuid.UUID) (Document, error)
	DocumentInfo(ctx context.Context, candidateID, documentID uuid.UUID) (Document, error)
	DocumentFile(ctx context.Context, candidateID, documentID uuid.UUID) ([]byte, string, error)
	DeleteDocument(ctx context.Context, candidateID, documentID uuid.UUID) error
}

type service struct {
	repo      Repository
	store     candidate.FileStore
	employees EmployeeDirectory
}

func NewService(repo Repository, store candidate.FileStore, employees EmployeeDirectory) UseCase {
	return &service{repo: repo, store: store, employees: employees}
}

func (s *service) validate(bc BenchCandidate) error {
	if strings.TrimSpace(bc.FullName) == "" {
		return candidate.ErrValidation("fullName is required")
	}
	if strings.TrimSpace(bc.City) == "" || strings.TrimSpace(bc.State) == "" {
		return candidate.ErrValidation("city and state are required")
	}
	if strings.TrimSpace(bc.PrimarySkill) == "" {
		return candidate.ErrValidation("primarySkill is required")
	}
	if bc.ExperienceYears < 0 || bc.ExperienceYears > 50 {
		return candidate.ErrValidation("experienceYears must be between 0 and 50")
	}
	if bc.VisaStatus != "" && !bc.VisaStatus.Valid() {
		return candidate.ErrValidation("unknown visa status: " + string(bc.VisaStatus))
	}
	return nil
}

// resolveConsultant rejects dangling consultant references and stamps the
// resolved name onto the entity.
func (s *service) resolveConsultant(ctx context.Context, bc *BenchCandidate) error {
	bc.AssignedConsultantName = ""
	if bc.AssignedConsultantID == nil {
		return nil
	}
	name, err := s.employees.NameByID(ctx, *bc.AssignedConsultantID)
	if err != nil {
		return candidate.ErrValidation("assigned consultant not found")
	}
	bc.AssignedConsultantName = name
	return nil
}

func (s *service) Create(ctx context.Context, bc BenchCandidate, docs []candidate.Upload, createdBy uuid.UUID) (BenchCandidate, error) {
	if err := s.validate(bc); err != nil {
		return BenchCandidate{}, err
	}
	if err := s.resolveConsultant(ctx, &bc); err != nil {
		return BenchCandidate{}, err
	}
	bc.ID = uuid.New()
	now := time.Now().UTC()
	bc.CreatedAt = now
	bc.UpdatedAt = now
	bc.CreatedBy = createdBy
	if err := s.repo.Create(ctx, bc); err != nil {
		return BenchCandidate{}, err
	}
	for _, up := range docs {
		if len(up.Data) == 0 {
			continue
		}
		if _, err := s.attachDocument(ctx, &bc, up, createdBy); err != nil {
			return BenchCandidate{}, err
		}
	}
	return s.repo.GetByID(ctx, bc.ID)
}

// attachDocument stores the upload, records the document row and mirrors the
// first RESUME-typed upload into the legacy single-resume fields.
func (s *service) attachDocument(ctx context.Context, bc *BenchCandidate, up candidate.Upload, uploadedBy uuid.UUID) (Document, error) {
	key, err := s.store.Save(up.Data, up.Filename)
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		ID:               uuid.New(),
		BenchCandidateID: bc.ID,
		StorageKey:       key,
		OriginalFilename: up.Filename,
		FileSize:         up.Size,
		ContentType:      up.ContentType,
		Type:             ClassifyDocument(up.Filename),
		UploadedAt:       time.Now().UTC(),
		UploadedBy:       uploadedBy,
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return Document{}, err
	}
	if doc.Type == DocResume && bc.ResumeKey == "" {
		bc.ResumeFilename = up.Filename
		bc.ResumeKey = key
		bc.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, *bc); err != nil {
			return Document{}, err
		}
	}
	return doc, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (BenchCandidate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, bc BenchCandidate, docs []candidate.Upload) (BenchCandidate, error) {
	if err := s.validate(bc); err != nil {
		return BenchCandidate{}, err
	}
	if err := s.resolveConsultant(ctx, &bc); err != nil {
		return BenchCandidate{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return BenchCandidate{}, err
	}
	bc.ID = existing.ID
	bc.CreatedAt = existing.CreatedAt
	bc.CreatedBy = existing.CreatedBy
	bc.ResumeFilename = existing.ResumeFilename
	bc.ResumeKey = existing.ResumeKey
	bc.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, bc); err != nil {
		return BenchCandidate{}, err
	}
	for _, up := range docs {
		if len(up.Data) == 0 {
			continue
		}
		if _, err := s.attachDocument(ctx, &bc, up, existing.CreatedBy); err != nil {
			return BenchCandidate{}, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes the candidate, its document rows and their backing files,
// plus the legacy resume file. File removal is best-effort after the
// transactional row delete.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	keys, err := s.repo.DeleteWithDocuments(ctx, id)
	if err != nil {
		return err
	}
	for _, key := range keys {
		_ = s.store.Delete(key)
	}
	if existing.ResumeKey != "" {
		_ = s.store.Delete(existing.ResumeKey)
	}
	return nil
}

func (s *service) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]BenchCandidate, int64, error) {
	return s.repo.List(ctx, limit, offset, sortBy, sortDir)
}

func (s *service) Search(ctx context.Context, f SearchFilter, limit, offset int) ([]BenchCandidate, int64, error) {
	return s.repo.Search(ctx, f, limit, offset)
}

func (s *service) ListByConsultant(ctx context.Context, consultantID uuid.UUID) ([]BenchCandidate, error) {
	if _, err := s.employees.NameByID(ctx, consultantID); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListByConsultant(ctx, consultantID)
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]BenchCandidate, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *service) ResumeFile(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	bc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if bc.ResumeKey == "" {
		return nil, "", ErrDocumentNotFound
	}
	data, err := s.store.Load(bc.ResumeKey)
	if err != nil {
		return nil, "", err
	}
	return data, bc.ResumeFilename, nil
}

func (s *service) Documents(ctx context.Context, candidateID uuid.UUID) ([]Document, error) {
	if _, err := s.repo.GetByID(ctx, candidateID); err != nil {
		return nil, err
	}
	return s.repo.ListDocuments(ctx, candidateID)
}

func (s *service) DocumentSummary(ctx context.Context, candidateID uuid.UUID) (int64, int64, error) {
	if _, err := s.repo.GetByID(ctx, candidateID); err != nil {
		return 0, 0, err
	}
	count, err := s.repo.CountDocuments(ctx, candidateID)
	if err != nil {
		return 0, 0, err
	}
	total, err := s.repo.TotalDocumentSize(ctx, candidateID)
	if err != nil {
		return 0, 0, err
	}
	return count, total, nil
}

func (s *service) UploadDocument(ctx context.Context, candidateID uuid.UUID, up candidate.Upload, uploadedBy uuid.UUID) (Document, error) {
	if len(up.Data) == 0 {
		return Document{}, candidate.ErrValidation("file is empty")
	}
	bc, err := s.repo.GetByID(ctx, candidateID)
	if err != nil {
		return Document{}, err
	}
	return s.attachDocument(ctx, &bc, up, uploadedBy)
}

func (s *service) DocumentInfo(ctx context.Context, candidateID, documentID uuid.UUID) (Document, error) {
	return s.repo.GetDocument(ctx, candidateID, documentID)
}

func (s *service) DocumentFile(ctx context.Context, candidateID, documentID uuid.UUID) ([]byte, string, error) {
	doc, err := s.repo.GetDocument(ctx, candidateID, documentID)
	if err != nil {
		return nil, "", err
	}
	data, err := s.store.Load(doc.StorageKey)
	if err != nil {
		return nil, "", err
	}
	return data, doc.OriginalFilename, nil
}

func (s *service) DeleteDocument(ctx context.Context, candidateID, documentID uuid.UUID) error {
	doc, err := s.repo.GetDocument(ctx, candidateID, documentID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDocument(ctx, candidateID, documentID); err != nil {
		return err
	}
	_ = s.store.Delete(doc.StorageKey)
	return nil
}
