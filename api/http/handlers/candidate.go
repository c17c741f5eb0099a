package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/consultancy/staffing/api/http/presenter"
	"github.com/consultancy/staffing/pkg/candidate"
	"github.com/consultancy/staffing/pkg/storage/files"
)

// CandidateHandler serves the legacy unified candidate resource.
type CandidateHandler struct {
	useCase  candidate.UseCase
	maxBytes int64
}

func NewCandidateHandler(useCase candidate.UseCase, maxBytes int64) *CandidateHandler {
	return &CandidateHandler{useCase: useCase, maxBytes: maxBytes}
}

type candidateRequest struct {
	FullName               string   `json:"fullName"`
	VisaStatus             string   `json:"visaStatus"`
	City                   string   `json:"city"`
	State                  string   `json:"state"`
	PrimarySkill           string   `json:"primarySkill"`
	ExperienceYears        int      `json:"experienceYears"`
	ContactInfo            string   `json:"contactInfo"`
	Notes                  string   `json:"notes"`
	Status                 string   `json:"status"`
	AssignedConsultantName string   `json:"assignedConsultantName"`
	TotalSubmissions       int      `json:"totalSubmissions"`
	TargetRate             *float64 `json:"targetRate"`
	InterviewCompany       string   `json:"interviewCompany"`
	InterviewPosition      string   `json:"interviewPosition"`
	FirstInterviewDate     *string  `json:"firstInterviewDate"`
	VendorContactName      string   `json:"vendorContactName"`
	VendorContactEmail     string   `json:"vendorContactEmail"`
	VendorContactPhone     string   `json:"vendorContactPhone"`
	ClientCompany          string   `json:"clientCompany"`
	ProjectName            string   `json:"projectName"`
	HourlyRate             *float64 `json:"hourlyRate"`
	StartDate              *string  `json:"startDate"`
	EndDate                *string  `json:"endDate"`
	ConsultantNotes        string   `json:"consultantNotes"`
}

func (req candidateRequest) toEntity() (candidate.Candidate, error) {
	c := candidate.Candidate{
		FullName:               req.FullName,
		VisaStatus:             candidate.VisaStatus(req.VisaStatus),
		City:                   req.City,
		State:                  req.State,
		PrimarySkill:           req.PrimarySkill,
		ExperienceYears:        req.ExperienceYears,
		ContactInfo:            req.ContactInfo,
		Notes:                  req.Notes,
		Status:                 candidate.Status(req.Status),
		AssignedConsultantName: req.AssignedConsultantName,
		TotalSubmissions:       req.TotalSubmissions,
		TargetRate:             req.TargetRate,
		InterviewCompany:       req.InterviewCompany,
		InterviewPosition:      req.InterviewPosition,
		VendorContactName:      req.VendorContactName,
		VendorContactEmail:     req.VendorContactEmail,
		VendorContactPhone:     req.VendorContactPhone,
		ClientCompany:          req.ClientCompany,
		ProjectName:            req.ProjectName,
		HourlyRate:             req.HourlyRate,
		ConsultantNotes:        req.ConsultantNotes,
	}
	var err error
	if c.FirstInterviewDate, err = parseDatePtr(req.FirstInterviewDate); err != nil {
		return candidate.Candidate{}, fmt.Errorf("firstInterviewDate: %w", err)
	}
	if c.StartDate, err = parseDatePtr(req.StartDate); err != nil {
		return candidate.Candidate{}, fmt.Errorf("startDate: %w", err)
	}
	if c.EndDate, err = parseDatePtr(req.EndDate); err != nil {
		return candidate.Candidate{}, fmt.Errorf("endDate: %w", err)
	}
	return c, nil
}

type candidateResponse struct {
	ID                     string     `json:"id"`
	FullName               string     `json:"fullName"`
	VisaStatus             string     `json:"visaStatus"`
	VisaStatusDisplay      string     `json:"visaStatusDisplay,omitempty"`
	City                   string     `json:"city"`
	State                  string     `json:"state"`
	PrimarySkill           string     `json:"primarySkill"`
	ExperienceYears        int        `json:"experienceYears"`
	ContactInfo            string     `json:"contactInfo,omitempty"`
	Notes                  string     `json:"notes,omitempty"`
	Status                 string     `json:"status"`
	StatusDisplay          string     `json:"statusDisplay,omitempty"`
	ResumeFilename         string     `json:"resumeFilename,omitempty"`
	AssignedConsultantName string     `json:"assignedConsultantName,omitempty"`
	TotalSubmissions       int        `json:"totalSubmissions"`
	TargetRate             *float64   `json:"targetRate,omitempty"`
	InterviewCompany       string     `json:"interviewCompany,omitempty"`
	InterviewPosition      string     `json:"interviewPosition,omitempty"`
	FirstInterviewDate     *time.Time `json:"firstInterviewDate,omitempty"`
	VendorContactName      string     `json:"vendorContactName,omitempty"`
	VendorContactEmail     string     `json:"vendorContactEmail,omitempty"`
	VendorContactPhone     string     `json:"vendorContactPhone,omitempty"`
	ClientCompany          string     `json:"clientCompany,omitempty"`
	ProjectName            string     `json:"projectName,omitempty"`
	HourlyRate             *float64   `json:"hourlyRate,omitempty"`
	StartDate              *time.Time `json:"startDate,omitempty"`
	EndDate                *time.Time `json:"endDate,omitempty"`
	ConsultantNotes        string     `json:"consultantNotes,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
	CreatedByName          string     `json:"createdByName,omitempty"`
}

func toCandidateResponse(c candidate.Candidate) candidateResponse {
	return candidateResponse{
		ID:                     c.ID.String(),
		FullName:               c.FullName,
		VisaStatus:             string(c.VisaStatus),
		VisaStatusDisplay:      c.VisaStatus.DisplayName(),
		City:                   c.City,
		State:                  c.State,
		PrimarySkill:           c.PrimarySkill,
		ExperienceYears:        c.ExperienceYears,
		ContactInfo:            c.ContactInfo,
		Notes:                  c.Notes,
		Status:                 string(c.Status),
		StatusDisplay:          c.Status.DisplayName(),
		ResumeFilename:         c.ResumeFilename,
		AssignedConsultantName: c.AssignedConsultantName,
		TotalSubmissions:       c.TotalSubmissions,
		TargetRate:             c.TargetRate,
		InterviewCompany:       c.InterviewCompany,
		InterviewPosition:      c.InterviewPosition,
		FirstInterviewDate:     c.FirstInterviewDate,
		VendorContactName:      c.VendorContactName,
		VendorContactEmail:     c.VendorContactEmail,
		VendorContactPhone:     c.VendorContactPhone,
		ClientCompany:          c.ClientCompany,
		ProjectName:            c.ProjectName,
		HourlyRate:             c.HourlyRate,
		StartDate:              c.StartDate,
		EndDate:                c.EndDate,
		ConsultantNotes:        c.ConsultantNotes,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
		CreatedByName:          c.CreatedByName,
	}
}

func toCandidateResponses(cs []candidate.Candidate) []candidateResponse {
	out := make([]candidateResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCandidateResponse(c))
	}
	return out
}

// parseCandidateBody accepts either a plain JSON body or a multipart form
// with the JSON under "data" and an optional file under "resume".
func (h *CandidateHandler) parseCandidateBody(c *fiber.Ctx) (candidate.Candidate, *candidate.Upload, error) {
	var req candidateRequest
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		raw := c.FormValue("data")
		if raw == "" {
			return candidate.Candidate{}, nil, errors.New("multipart field 'data' is required")
		}
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return candidate.Candidate{}, nil, errors.New("invalid JSON in 'data' field")
		}
		ent, err := req.toEntity()
		if err != nil {
			return candidate.Candidate{}, nil, err
		}
		up, err := optionalFormFile(c, "resume", h.maxBytes)
		if err != nil {
			return candidate.Candidate{}, nil, err
		}
		return ent, up, nil
	}
	if err := c.BodyParser(&req); err != nil {
		return candidate.Candidate{}, nil, errors.New("invalid JSON payload")
	}
	ent, err := req.toEntity()
	return ent, nil, err
}

// Create adds a candidate, optionally with a resume attachment.
// @Summary Create candidate
// @Tags    candidates
// @Accept  json
// @Accept  multipart/form-data
// @Produce json
// @Param   input body candidateRequest true "candidate payload"
// @Security BearerAuth
// @Success 201 {object} candidateResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /candidates [post]
func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	ent, up, err := h.parseCandidateBody(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	created, err := h.useCase.Create(c.Context(), ent, up, currentUserID(c))
	if err != nil {
		return candidateError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, toCandidateResponse(created))
}

// Get returns one candidate by id.
// @Summary Get candidate
// @Tags    candidates
// @Produce json
// @Param   id path string true "candidate id"
// @Security BearerAuth
// @Success 200 {object} candidateResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [get]
func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	got, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		return candidateError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toCandidateResponse(got))
}

// Update replaces a candidate's mutable fields.
// @Summary Update candidate
// @Tags    candidates
// @Accept  json
// @Accept  multipart/form-data
// @Produce json
// @Param   id path string true "candidate id"
// @Param   input body candidateRequest true "candidate payload"
// @Security BearerAuth
// @Success 200 {object} candidateResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [put]
func (h *CandidateHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	ent, up, err := h.parseCandidateBody(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	updated, err := h.useCase.Update(c.Context(), id, ent, up)
	if err != nil {
		return candidateError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toCandidateResponse(updated))
}

// Delete removes a candidate and its resume file.
// @Summary Delete candidate
// @Tags    candidates
// @Produce json
// @Param   id path string true "candidate id"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	if err := h.useCase.Delete(c.Context(), id); err != nil {
		return candidateError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "candidate deleted"})
}

// List returns a page of candidates.
// @Summary List candidates
// @Tags    candidates
// @Produce json
// @Param   page query int false "zero-based page"
// @Param   size query int false "page size"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /candidates [get]
func (h *CandidateHandler) List(c *fiber.Ctx) error {
	p := parsePageParams(c)
	items, total, err := h.useCase.List(c.Context(), p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return candidateError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toCandidateResponses(items), p.Page, p.Size, total))
}

// Search filters candidates; all filters optional and conjunctive.
// @Summary Search candidates
// @Tags    candidates
// @Produce json
// @Param   fullName query string false "name substring"
// @Param   visaStatus query string false "visa status tag"
// @Param   primarySkill query string false "skill substring"
// @Param   state query string false "state substring"
// @Param   status query string false "candidate status tag"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /candidates/search [get]
func (h *CandidateHandler) Search(c *fiber.Ctx) error {
	p := parsePageParams(c)
	f := candidate.SearchFilter{
		FullName:     c.Query("fullName"),
		VisaStatus:   candidate.VisaStatus(c.Query("visaStatus")),
		PrimarySkill: c.Query("primarySkill"),
		State:        c.Query("state"),
		Status:       candidate.Status(c.Query("status")),
	}
	items, total, err := h.useCase.Search(c.Context(), f, p.Limit(), p.Offset())
	if err != nil {
		return candidateError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toCandidateResponses(items), p.Page, p.Size, total))
}

// ByStatus lists candidates carrying one lifecycle status.
// @Summary List candidates by status
// @Tags    candidates
// @Produce json
// @Param   status path string true "candidate status tag"
// @Security BearerAuth
// @Success 200 {array} candidateResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /candidates/status/{status} [get]
func (h *CandidateHandler) ByStatus(c *fiber.Ctx) error {
	status, err := candidate.ParseStatus(strings.ToUpper(c.Params("status")))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	items, err := h.useCase.ListByStatus(c.Context(), status)
	if err != nil {
		return candidateError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toCandidateResponses(items))
}

// DownloadResume streams the stored resume file.
// @Summary Download candidate resume
// @Tags    candidates
// @Produce application/octet-stream
// @Param   id path string true "candidate id"
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/resume [get]
func (h *CandidateHandler) DownloadResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	data, filename, err := h.useCase.ResumeFile(c.Context(), id)
	if err != nil {
		return candidateError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Status(http.StatusOK).Send(data)
}

func candidateError(c *fiber.Ctx, err error) error {
	var verr candidate.ErrValidation
	switch {
	case errors.Is(err, candidate.ErrNotFound), errors.Is(err, files.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "candidate not found")
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusBadRequest, verr.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}

// parseDatePtr accepts both date-only and RFC3339 timestamps.
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("expected YYYY-MM-DD or RFC3339 timestamp")
	}
	return t.UTC(), nil
}
