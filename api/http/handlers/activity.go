package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/consultancy/staffing/api/http/presenter"
	"github.com/consultancy/staffing/pkg/activity"
)

// ActivityHandler serves the candidate activity log.
type ActivityHandler struct {
	useCase activity.UseCase
}

func NewActivityHandler(useCase activity.UseCase) *ActivityHandler {
	return &ActivityHandler{useCase: useCase}
}

type activityRequest struct {
	CandidateID   string   `json:"candidateId"`
	Type          string   `json:"activityType"`
	ClientName    string   `json:"clientName"`
	ContactPerson string   `json:"contactPerson"`
	ContactPhone  string   `json:"contactPhone"`
	ContactEmail  string   `json:"contactEmail"`
	SubmittedRate *float64 `json:"submittedRate"`
	Notes         string   `json:"notes"`
	ActivityDate  string   `json:"activityDate"`
}

func (req activityRequest) toEntity() (*activity.Activity, error) {
	a := &activity.Activity{
		Type:          activity.Type(req.Type),
		ClientName:    req.ClientName,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		SubmittedRate: req.SubmittedRate,
		Notes:         req.Notes,
	}
	if strings.TrimSpace(req.CandidateID) != "" {
		id, err := uuid.Parse(req.CandidateID)
		if err != nil {
			return nil, errors.New("candidateId must be a UUID")
		}
		a.CandidateID = id
	}
	if strings.TrimSpace(req.ActivityDate) != "" {
		t, err := parseDate(req.ActivityDate)
		if err != nil {
			return nil, errors.New("activityDate: " + err.Error())
		}
		a.ActivityDate = t
	}
	return a, nil
}

type activityResponse struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidateId"`
	Type          string    `json:"activityType"`
	TypeDisplay   string    `json:"activityTypeDisplay,omitempty"`
	ClientName    string    `json:"clientName"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	ContactPhone  string    `json:"contactPhone,omitempty"`
	ContactEmail  string    `json:"contactEmail,omitempty"`
	SubmittedRate *float64  `json:"submittedRate,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	ActivityDate  time.Time `json:"activityDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	CreatedByName string    `json:"createdByName,omitempty"`
}

func toActivityResponse(a *activity.Activity) activityResponse {
	return activityResponse{
		ID:            a.ID.String(),
		CandidateID:   a.CandidateID.String(),
		Type:          string(a.Type),
		TypeDisplay:   a.Type.DisplayName(),
		ClientName:    a.ClientName,
		ContactPerson: a.ContactPerson,
		ContactPhone:  a.ContactPhone,
		ContactEmail:  a.ContactEmail,
		SubmittedRate: a.SubmittedRate,
		Notes:         a.Notes,
		ActivityDate:  a.ActivityDate,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		CreatedByName: a.CreatedByName,
	}
}

func toActivityResponses(as []*activity.Activity) []activityResponse {
	out := make([]activityResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toActivityResponse(a))
	}
	return out
}

// Create adds an activity log entry.
// @Summary Create candidate activity
// @Tags    candidate-activities
// @Accept  json
// @Produce json
// @Param   input body activityRequest true "activity payload"
// @Security BearerAuth
// @Success 201 {object} activityResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /candidate-activities [post]
func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	var req activityRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	ent, err := req.toEntity()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	created, err := h.useCase.Create(c.Context(), ent, currentUserID(c))
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, toActivityResponse(created))
}

// Get returns one activity.
// @Summary Get candidate activity
// @Tags    candidate-activities
// @Produce json
// @Param   id path string true "activity id"
// @Security BearerAuth
// @Success 200 {object} activityResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidate-activities/{id} [get]
func (h *ActivityHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid activity id")
	}
	got, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toActivityResponse(got))
}

// Update replaces an activity's mutable fields.
// @Summary Update candidate activity
// @Tags    candidate-activities
// @Accept  json
// @Produce json
// @Param   id path string true "activity id"
// @Param   input body activityRequest true "activity payload"
// @Security BearerAuth
// @Success 200 {object} activityResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidate-activities/{id} [put]
func (h *ActivityHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid activity id")
	}
	var req activityRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	ent, err := req.toEntity()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	updated, err := h.useCase.Update(c.Context(), id, ent)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toActivityResponse(updated))
}

// Delete removes an activity.
// @Summary Delete candidate activity
// @Tags    candidate-activities
// @Produce json
// @Param   id path string true "activity id"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidate-activities/{id} [delete]
func (h *ActivityHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid activity id")
	}
	if err := h.useCase.Delete(c.Context(), id); err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "activity deleted"})
}

// List returns a page of activities, newest first by default.
// @Summary List candidate activities
// @Tags    candidate-activities
// @Produce json
// @Param   page query int false "zero-based page"
// @Param   size query int false "page size"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /candidate-activities [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	p := parsePageParams(c)
	items, total, err := h.useCase.List(c.Context(), p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toActivityResponses(items), p.Page, p.Size, total))
}

// Search filters activities; all filters optional and conjunctive, dates
// inclusive.
// @Summary Search candidate activities
// @Tags    candidate-activities
// @Produce json
// @Param   candidateId query string false "candidate id"
// @Param   activityType query string false "activity type tag"
// @Param   clientName query string false "client substring"
// @Param   startDate query string false "inclusive lower bound"
// @Param   endDate query string false "inclusive upper bound"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /candidate-activities/search [get]
func (h *ActivityHandler) Search(c *fiber.Ctx) error {
	p := parsePageParams(c)
	f := activity.SearchFilter{
		Type:       activity.Type(c.Query("activityType")),
		ClientName: c.Query("clientName"),
	}
	if v := strings.TrimSpace(c.Query("candidateId")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, "candidateId must be a UUID")
		}
		f.CandidateID = id
	}
	var err error
	if f.From, f.To, err = parseDateRange(c); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	items, total, err := h.useCase.Search(c.Context(), f, p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toActivityResponses(items), p.Page, p.Size, total))
}

// ByCandidate lists every activity of one candidate, newest first.
// @Summary List activities for a candidate
// @Tags    candidate-activities
// @Produce json
// @Param   candidateId path string true "candidate id"
// @Security BearerAuth
// @Success 200 {array} activityResponse
// @Router  /candidate-activities/candidate/{candidateId} [get]
func (h *ActivityHandler) ByCandidate(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	items, err := h.useCase.ListByCandidate(c.Context(), candidateID)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toActivityResponses(items))
}

// ByCandidatePaged pages through one candidate's activities.
// @Summary List activities for a candidate, paginated
// @Tags    candidate-activities
// @Produce json
// @Param   candidateId path string true "candidate id"
// @Param   page query int false "zero-based page"
// @Param   size query int false "page size"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /candidate-activities/candidate/{candidateId}/paginated [get]
func (h *ActivityHandler) ByCandidatePaged(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	p := parsePageParams(c)
	items, total, err := h.useCase.ListByCandidatePaged(c.Context(), candidateID, p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toActivityResponses(items), p.Page, p.Size, total))
}

// ByType pages through activities of one type.
// @Summary List activities by type
// @Tags    candidate-activities
// @Produce json
// @Param   type path string true "activity type tag"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /candidate-activities/type/{type} [get]
func (h *ActivityHandler) ByType(c *fiber.Ctx) error {
	t, err := activity.ParseType(strings.ToUpper(c.Params("type")))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	p := parsePageParams(c)
	items, total, err := h.useCase.ListByType(c.Context(), t, p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toActivityResponses(items), p.Page, p.Size, total))
}

// ByDateRange pages through activities dated within an inclusive range.
// @Summary List activities by date range
// @Tags    candidate-activities
// @Produce json
// @Param   startDate query string true "inclusive lower bound"
// @Param   endDate query string true "inclusive upper bound"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /candidate-activities/date-range [get]
func (h *ActivityHandler) ByDateRange(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	p := parsePageParams(c)
	items, total, err := h.useCase.ListByDateRange(c.Context(), from, to, p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toActivityResponses(items), p.Page, p.Size, total))
}

// Recent lists activities dated within the past week.
// @Summary List recent activities
// @Tags    candidate-activities
// @Produce json
// @Param   limit query int false "max rows, default 20"
// @Security BearerAuth
// @Success 200 {array} activityResponse
// @Router  /candidate-activities/recent [get]
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	items, err := h.useCase.Recent(c.Context(), limit)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toActivityResponses(items))
}

// CountByCandidate returns the number of activities logged for a candidate.
// @Summary Count activities for a candidate
// @Tags    candidate-activities
// @Produce json
// @Param   candidateId path string true "candidate id"
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router  /candidate-activities/count/candidate/{candidateId} [get]
func (h *ActivityHandler) CountByCandidate(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	n, err := h.useCase.CountByCandidate(c.Context(), candidateID)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"count": n})
}

// CountByType returns the number of activities carrying one type.
// @Summary Count activities by type
// @Tags    candidate-activities
// @Produce json
// @Param   type path string true "activity type tag"
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /candidate-activities/count/type/{type} [get]
func (h *ActivityHandler) CountByType(c *fiber.Ctx) error {
	t, err := activity.ParseType(strings.ToUpper(c.Params("type")))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	n, err := h.useCase.CountByType(c.Context(), t)
	if err != nil {
		return activityError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"count": n})
}

func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if v := strings.TrimSpace(c.Query("startDate")); v != "" {
		if from, err = parseDate(v); err != nil {
			return time.Time{}, time.Time{}, errors.New("startDate: " + err.Error())
		}
	}
	if v := strings.TrimSpace(c.Query("endDate")); v != "" {
		if to, err = parseDate(v); err != nil {
			return time.Time{}, time.Time{}, errors.New("endDate: " + err.Error())
		}
		// Date-only upper bounds cover the whole day.
		if len(v) == len("2006-01-02") {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return from, to, nil
}

func activityError(c *fiber.Ctx, err error) error {
	var verr activity.ErrValidation
	switch {
	case errors.Is(err, activity.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "activity not found")
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusBadRequest, verr.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}
