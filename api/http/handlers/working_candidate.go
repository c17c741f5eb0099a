package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/consultancy/staffing/api/http/presenter"
	"github.com/consultancy/staffing/pkg/candidate"
	"github.com/consultancy/staffing/pkg/working"
)

// WorkingCandidateHandler serves candidates currently placed at clients.
type WorkingCandidateHandler struct {
	useCase working.UseCase
}

func NewWorkingCandidateHandler(useCase working.UseCase) *WorkingCandidateHandler {
	return &WorkingCandidateHandler{useCase: useCase}
}

type workingCandidateRequest struct {
	FullName        string  `json:"fullName"`
	VisaStatus      string  `json:"visaStatus"`
	WorkingLocation string  `json:"workingLocation"`
	JobRole         string  `json:"jobRole"`
	ExperienceYears int     `json:"experienceYears"`
	Email           string  `json:"email"`
	PhoneNumber     string  `json:"phoneNumber"`
	HourlyRate      float64 `json:"hourlyRate"`
	ProjectDuration string  `json:"projectDuration"`
	ClientName      string  `json:"clientName"`
	PlacedBy        string  `json:"placedBy"`
	Notes           string  `json:"notes"`
}

func (req workingCandidateRequest) toEntity() (working.WorkingCandidate, error) {
	wc := working.WorkingCandidate{
		FullName:        req.FullName,
		VisaStatus:      candidate.VisaStatus(req.VisaStatus),
		WorkingLocation: req.WorkingLocation,
		JobRole:         req.JobRole,
		ExperienceYears: req.ExperienceYears,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		HourlyRate:      req.HourlyRate,
		ProjectDuration: req.ProjectDuration,
		ClientName:      req.ClientName,
		Notes:           req.Notes,
	}
	if strings.TrimSpace(req.PlacedBy) != "" {
		id, err := uuid.Parse(req.PlacedBy)
		if err != nil {
			return working.WorkingCandidate{}, errors.New("placedBy must be a UUID")
		}
		wc.PlacedBy = id
	}
	return wc, nil
}

type workingCandidateResponse struct {
	ID                string    `json:"id"`
	FullName          string    `json:"fullName"`
	VisaStatus        string    `json:"visaStatus"`
	VisaStatusDisplay string    `json:"visaStatusDisplay,omitempty"`
	WorkingLocation   string    `json:"workingLocation,omitempty"`
	JobRole           string    `json:"jobRole,omitempty"`
	ExperienceYears   int       `json:"experienceYears"`
	Email             string    `json:"email,omitempty"`
	PhoneNumber       string    `json:"phoneNumber,omitempty"`
	HourlyRate        float64   `json:"hourlyRate"`
	ProjectDuration   string    `json:"projectDuration,omitempty"`
	ClientName        string    `json:"clientName"`
	PlacedBy          string    `json:"placedBy"`
	PlacedByName      string    `json:"placedByName,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	CreatedByName     string    `json:"createdByName,omitempty"`
}

func toWorkingCandidateResponse(wc working.WorkingCandidate) workingCandidateResponse {
	return workingCandidateResponse{
		ID:                wc.ID.String(),
		FullName:          wc.FullName,
		VisaStatus:        string(wc.VisaStatus),
		VisaStatusDisplay: wc.VisaStatus.DisplayName(),
		WorkingLocation:   wc.WorkingLocation,
		JobRole:           wc.JobRole,
		ExperienceYears:   wc.ExperienceYears,
		Email:             wc.Email,
		PhoneNumber:       wc.PhoneNumber,
		HourlyRate:        wc.HourlyRate,
		ProjectDuration:   wc.ProjectDuration,
		ClientName:        wc.ClientName,
		PlacedBy:          wc.PlacedBy.String(),
		PlacedByName:      wc.PlacedByName,
		Notes:             wc.Notes,
		CreatedAt:         wc.CreatedAt,
		UpdatedAt:         wc.UpdatedAt,
		CreatedByName:     wc.CreatedByName,
	}
}

func toWorkingCandidateResponses(wcs []working.WorkingCandidate) []workingCandidateResponse {
	out := make([]workingCandidateResponse, 0, len(wcs))
	for _, wc := range wcs {
		out = append(out, toWorkingCandidateResponse(wc))
	}
	return out
}

// Create adds a working candidate; placedBy must reference an employee.
// @Summary Create working candidate
// @Tags    working-candidates
// @Accept  json
// @Produce json
// @Param   input body workingCandidateRequest true "working candidate payload"
// @Security BearerAuth
// @Success 201 {object} workingCandidateResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /working-candidates [post]
func (h *WorkingCandidateHandler) Create(c *fiber.Ctx) error {
	var req workingCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	ent, err := req.toEntity()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	created, err := h.useCase.Create(c.Context(), ent, currentUserID(c))
	if err != nil {
		return workingError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, toWorkingCandidateResponse(created))
}

// Get returns one working candidate.
// @Summary Get working candidate
// @Tags    working-candidates
// @Produce json
// @Param   id path string true "working candidate id"
// @Security BearerAuth
// @Success 200 {object} workingCandidateResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /working-candidates/{id} [get]
func (h *WorkingCandidateHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid working candidate id")
	}
	got, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		return workingError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toWorkingCandidateResponse(got))
}

// Update replaces a working candidate's mutable fields.
// @Summary Update working candidate
// @Tags    working-candidates
// @Accept  json
// @Produce json
// @Param   id path string true "working candidate id"
// @Param   input body workingCandidateRequest true "working candidate payload"
// @Security BearerAuth
// @Success 200 {object} workingCandidateResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /working-candidates/{id} [put]
func (h *WorkingCandidateHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid working candidate id")
	}
	var req workingCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	ent, err := req.toEntity()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	updated, err := h.useCase.Update(c.Context(), id, ent)
	if err != nil {
		return workingError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toWorkingCandidateResponse(updated))
}

// Delete removes a working candidate.
// @Summary Delete working candidate
// @Tags    working-candidates
// @Produce json
// @Param   id path string true "working candidate id"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /working-candidates/{id} [delete]
func (h *WorkingCandidateHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid working candidate id")
	}
	if err := h.useCase.Delete(c.Context(), id); err != nil {
		return workingError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "working candidate deleted"})
}

// List returns a page of working candidates.
// @Summary List working candidates
// @Tags    working-candidates
// @Produce json
// @Param   page query int false "zero-based page"
// @Param   size query int false "page size"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /working-candidates [get]
func (h *WorkingCandidateHandler) List(c *fiber.Ctx) error {
	p := parsePageParams(c)
	items, total, err := h.useCase.List(c.Context(), p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return workingError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toWorkingCandidateResponses(items), p.Page, p.Size, total))
}

// Search filters working candidates; all filters optional and conjunctive.
// @Summary Search working candidates
// @Tags    working-candidates
// @Produce json
// @Param   fullName query string false "name substring"
// @Param   visaStatus query string false "visa status tag"
// @Param   jobRole query string false "role substring"
// @Param   clientName query string false "client substring"
// @Param   placedByName query string false "employee name substring"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /working-candidates/search [get]
func (h *WorkingCandidateHandler) Search(c *fiber.Ctx) error {
	p := parsePageParams(c)
	f := working.SearchFilter{
		FullName:     c.Query("fullName"),
		VisaStatus:   candidate.VisaStatus(c.Query("visaStatus")),
		JobRole:      c.Query("jobRole"),
		ClientName:   c.Query("clientName"),
		PlacedByName: c.Query("placedByName"),
	}
	items, total, err := h.useCase.Search(c.Context(), f, p.Limit(), p.Offset())
	if err != nil {
		return workingError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toWorkingCandidateResponses(items), p.Page, p.Size, total))
}

func workingError(c *fiber.Ctx, err error) error {
	var verr candidate.ErrValidation
	switch {
	case errors.Is(err, working.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "working candidate not found")
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusBadRequest, verr.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}
