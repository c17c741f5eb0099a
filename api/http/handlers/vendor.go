package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/consultancy/staffing/api/http/presenter"
	"github.com/consultancy/staffing/pkg/vendor"
)

// VendorHandler serves third-party staffing partners.
type VendorHandler struct {
	useCase vendor.UseCase
}

func NewVendorHandler(useCase vendor.UseCase) *VendorHandler {
	return &VendorHandler{useCase: useCase}
}

type vendorRequest struct {
	CompanyName         string   `json:"companyName"`
	PrimaryContactName  string   `json:"primaryContactName"`
	PrimaryContactEmail string   `json:"primaryContactEmail"`
	PrimaryContactPhone string   `json:"primaryContactPhone"`
	Address             string   `json:"address"`
	City                string   `json:"city"`
	State               string   `json:"state"`
	ZipCode             string   `json:"zipCode"`
	Country             string   `json:"country"`
	PreferredSkills     string   `json:"preferredSkills"`
	RateRangeMin        *float64 `json:"rateRangeMin"`
	RateRangeMax        *float64 `json:"rateRangeMax"`
	Notes               string   `json:"notes"`
	Status              string   `json:"status"`
}

func (req vendorRequest) toEntity() vendor.Vendor {
	return vendor.Vendor{
		CompanyName:         req.CompanyName,
		PrimaryContactName:  req.PrimaryContactName,
		PrimaryContactEmail: req.PrimaryContactEmail,
		PrimaryContactPhone: req.PrimaryContactPhone,
		Address:             req.Address,
		City:                req.City,
		State:               req.State,
		ZipCode:             req.ZipCode,
		Country:             req.Country,
		PreferredSkills:     req.PreferredSkills,
		RateRangeMin:        req.RateRangeMin,
		RateRangeMax:        req.RateRangeMax,
		Notes:               req.Notes,
		Status:              vendor.Status(req.Status),
	}
}

type vendorResponse struct {
	ID                   string    `json:"id"`
	CompanyName          string    `json:"companyName"`
	PrimaryContactName   string    `json:"primaryContactName"`
	PrimaryContactEmail  string    `json:"primaryContactEmail,omitempty"`
	PrimaryContactPhone  string    `json:"primaryContactPhone,omitempty"`
	Address              string    `json:"address,omitempty"`
	City                 string    `json:"city,omitempty"`
	State                string    `json:"state,omitempty"`
	ZipCode              string    `json:"zipCode,omitempty"`
	Country              string    `json:"country,omitempty"`
	PreferredSkills      string    `json:"preferredSkills,omitempty"`
	RateRangeMin         *float64  `json:"rateRangeMin,omitempty"`
	RateRangeMax         *float64  `json:"rateRangeMax,omitempty"`
	TotalSubmissions     int       `json:"totalSubmissions"`
	SuccessfulPlacements int       `json:"successfulPlacements"`
	Notes                string    `json:"notes,omitempty"`
	Status               string    `json:"status"`
	StatusDisplay        string    `json:"statusDisplay,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	CreatedByName        string    `json:"createdByName,omitempty"`
}

func toVendorResponse(v vendor.Vendor) vendorResponse {
	return vendorResponse{
		ID:                   v.ID.String(),
		CompanyName:          v.CompanyName,
		PrimaryContactName:   v.PrimaryContactName,
		PrimaryContactEmail:  v.PrimaryContactEmail,
		PrimaryContactPhone:  v.PrimaryContactPhone,
		Address:              v.Address,
		City:                 v.City,
		State:                v.State,
		ZipCode:              v.ZipCode,
		Country:              v.Country,
		PreferredSkills:      v.PreferredSkills,
		RateRangeMin:         v.RateRangeMin,
		RateRangeMax:         v.RateRangeMax,
		TotalSubmissions:     v.TotalSubmissions,
		SuccessfulPlacements: v.SuccessfulPlacements,
		Notes:                v.Notes,
		Status:               string(v.Status),
		StatusDisplay:        v.Status.DisplayName(),
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
		CreatedByName:        v.CreatedByName,
	}
}

func toVendorResponses(vs []vendor.Vendor) []vendorResponse {
	out := make([]vendorResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVendorResponse(v))
	}
	return out
}

// Create adds a vendor; status defaults to ACTIVE.
// @Summary Create vendor
// @Tags    vendors
// @Accept  json
// @Produce json
// @Param   input body vendorRequest true "vendor payload"
// @Security BearerAuth
// @Success 201 {object} vendorResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /vendors [post]
func (h *VendorHandler) Create(c *fiber.Ctx) error {
	var req vendorRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	created, err := h.useCase.Create(c.Context(), req.toEntity(), currentUserID(c))
	if err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, toVendorResponse(created))
}

// Get returns one vendor.
// @Summary Get vendor
// @Tags    vendors
// @Produce json
// @Param   id path string true "vendor id"
// @Security BearerAuth
// @Success 200 {object} vendorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /vendors/{id} [get]
func (h *VendorHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid vendor id")
	}
	got, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toVendorResponse(got))
}

// Update replaces a vendor's mutable fields; counters are untouched.
// @Summary Update vendor
// @Tags    vendors
// @Accept  json
// @Produce json
// @Param   id path string true "vendor id"
// @Param   input body vendorRequest true "vendor payload"
// @Security BearerAuth
// @Success 200 {object} vendorResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /vendors/{id} [put]
func (h *VendorHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid vendor id")
	}
	var req vendorRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	updated, err := h.useCase.Update(c.Context(), id, req.toEntity())
	if err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toVendorResponse(updated))
}

// Delete removes a vendor.
// @Summary Delete vendor
// @Tags    vendors
// @Produce json
// @Param   id path string true "vendor id"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /vendors/{id} [delete]
func (h *VendorHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid vendor id")
	}
	if err := h.useCase.Delete(c.Context(), id); err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "vendor deleted"})
}

// List returns a page of vendors.
// @Summary List vendors
// @Tags    vendors
// @Produce json
// @Param   page query int false "zero-based page"
// @Param   size query int false "page size"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /vendors [get]
func (h *VendorHandler) List(c *fiber.Ctx) error {
	p := parsePageParams(c)
	items, total, err := h.useCase.List(c.Context(), p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toVendorResponses(items), p.Page, p.Size, total))
}

// Search filters vendors; all filters optional and conjunctive.
// @Summary Search vendors
// @Tags    vendors
// @Produce json
// @Param   companyName query string false "company substring"
// @Param   contactName query string false "contact substring"
// @Param   status query string false "vendor status tag"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /vendors/search [get]
func (h *VendorHandler) Search(c *fiber.Ctx) error {
	p := parsePageParams(c)
	f := vendor.SearchFilter{
		CompanyName: c.Query("companyName"),
		ContactName: c.Query("contactName"),
		Status:      vendor.Status(c.Query("status")),
	}
	items, total, err := h.useCase.Search(c.Context(), f, p.Limit(), p.Offset())
	if err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toVendorResponses(items), p.Page, p.Size, total))
}

// ByStatus lists vendors carrying one relationship status.
// @Summary List vendors by status
// @Tags    vendors
// @Produce json
// @Param   status path string true "vendor status tag"
// @Security BearerAuth
// @Success 200 {array} vendorResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /vendors/status/{status} [get]
func (h *VendorHandler) ByStatus(c *fiber.Ctx) error {
	status, err := vendor.ParseStatus(strings.ToUpper(c.Params("status")))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	items, err := h.useCase.ListByStatus(c.Context(), status)
	if err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toVendorResponses(items))
}

// TopPerforming lists vendors ordered by successful placements.
// @Summary List top performing vendors
// @Tags    vendors
// @Produce json
// @Param   limit query int false "max rows, default 10"
// @Security BearerAuth
// @Success 200 {array} vendorResponse
// @Router  /vendors/top-performing [get]
func (h *VendorHandler) TopPerforming(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	items, err := h.useCase.ListTopPerforming(c.Context(), limit)
	if err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toVendorResponses(items))
}

// RecordSubmission bumps the vendor's submission counter.
// @Summary Record vendor submission
// @Tags    vendors
// @Produce json
// @Param   id path string true "vendor id"
// @Security BearerAuth
// @Success 200 {object} vendorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /vendors/{id}/record-submission [post]
func (h *VendorHandler) RecordSubmission(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid vendor id")
	}
	got, err := h.useCase.RecordSubmission(c.Context(), id)
	if err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toVendorResponse(got))
}

// RecordPlacement bumps the vendor's placement counter.
// @Summary Record vendor placement
// @Tags    vendors
// @Produce json
// @Param   id path string true "vendor id"
// @Security BearerAuth
// @Success 200 {object} vendorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /vendors/{id}/record-placement [post]
func (h *VendorHandler) RecordPlacement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid vendor id")
	}
	got, err := h.useCase.RecordPlacement(c.Context(), id)
	if err != nil {
		return vendorError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toVendorResponse(got))
}

func vendorError(c *fiber.Ctx, err error) error {
	var verr vendor.ErrValidation
	switch {
	case errors.Is(err, vendor.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "vendor not found")
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusBadRequest, verr.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}
