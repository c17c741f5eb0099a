package candidate

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UseCase covers the legacy unified candidate lifecycle, including the
// optional single resume attachment.
type UseCase interface {
	Create(ctx context.Context, c Candidate, resume *Upload, createdBy uuid.UUID) (Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (Candidate, error)
	Update(ctx context.Context, id uuid.UUID, c Candidate, resume *Upload) (Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]Candidate, int64, error)
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]Candidate, int64, error)
	ListByStatus(ctx context.Context, status Status) ([]Candidate, error)
	ResumeFile(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type service struct {
	repo  Repository
	store FileStore
}

func NewService(repo Repository, store FileStore) UseCase {
	return &service{repo: repo, store: store}
}

func (s *service) validate(c Candidate) error {
	if strings.TrimSpace(c.FullName) == "" {
		return ErrValidation("fullName is required")
	}
	if strings.TrimSpace(c.City) == "" || strings.TrimSpace(c.State) == "" {
		return ErrValidation("city and state are required")
	}
	if strings.TrimSpace(c.PrimarySkill) == "" {
		return ErrValidation("primarySkill is required")
	}
	if c.ExperienceYears < 0 || c.ExperienceYears > 50 {
		return ErrValidation("experienceYears must be between 0 and 50")
	}
	if c.VisaStatus != "" && !c.VisaStatus.Valid() {
		return ErrValidation("unknown visa status: " + string(c.VisaStatus))
	}
	if c.Status != "" && !c.Status.Valid() {
		return ErrValidation("unknown candidate status: " + string(c.Status))
	}
	return nil
}

func (s *service) Create(ctx context.Context, c Candidate, resume *Upload, createdBy uuid.UUID) (Candidate, error) {
	if err := s.validate(c); err != nil {
		return Candidate{}, err
	}
	c.ID = uuid.New()
	if c.Status == "" {
		c.Status = StatusBench
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.CreatedBy = createdBy

	if resume != nil {
		key, err := s.store.Save(resume.Data, resume.Filename)
		if err != nil {
			return Candidate{}, err
		}
		c.ResumeFilename = resume.Filename
		c.ResumeKey = key
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Candidate{}, err
	}
	return s.repo.GetByID(ctx, c.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Candidate, error) {
	return s.repo.GetByID(ctx, id)
}

// Update is a full replace of the mutable fields. A new resume upload
// replaces the stored file; the previous one is removed best-effort.
func (s *service) Update(ctx context.Context, id uuid.UUID, c Candidate, resume *Upload) (Candidate, error) {
	if err := s.validate(c); err != nil {
		return Candidate{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Candidate{}, err
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	c.CreatedBy = existing.CreatedBy
	c.UpdatedAt = time.Now().UTC()
	if c.Status == "" {
		c.Status = existing.Status
	}
	c.ResumeFilename = existing.ResumeFilename
	c.ResumeKey = existing.ResumeKey

	if resume != nil {
		key, err := s.store.Save(resume.Data, resume.Filename)
		if err != nil {
			return Candidate{}, err
		}
		if existing.ResumeKey != "" {
			_ = s.store.Delete(existing.ResumeKey)
		}
		c.ResumeFilename = resume.Filename
		c.ResumeKey = key
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return Candidate{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if existing.ResumeKey != "" {
		_ = s.store.Delete(existing.ResumeKey)
	}
	return nil
}

func (s *service) List(ctx context.Context, limit, offset int, sortBy, sortDir string) ([]Candidate, int64, error) {
	return s.repo.List(ctx, limit, offset, sortBy, sortDir)
}

func (s *service) Search(ctx context.Context, f SearchFilter, limit, offset int) ([]Candidate, int64, error) {
	return s.repo.Search(ctx, f, limit, offset)
}

func (s *service) ListByStatus(ctx context.Context, status Status) ([]Candidate, error) {
	if !status.Valid() {
		return nil, ErrValidation("unknown candidate status: " + string(status))
	}
	return s.repo.ListByStatus(ctx, status)
}

func (s *service) ResumeFile(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if c.ResumeKey == "" {
		return nil, "", ErrNotFound
	}
	data, err := s.store.Load(c.ResumeKey)
	if err != nil {
		return nil, "", err
	}
	return data, c.ResumeFilename, nil
}
