package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/consultancy/staffing/api/http/presenter"
	"github.com/consultancy/staffing/pkg/employee"
)

// EmployeeHandler serves internal staff records.
type EmployeeHandler struct {
	useCase employee.UseCase
}

func NewEmployeeHandler(useCase employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{useCase: useCase}
}

type employeeRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	Notes       string `json:"notes"`
}

func (req employeeRequest) toEntity() employee.Employee {
	return employee.Employee{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        employee.Role(req.Role),
		Notes:       req.Notes,
	}
}

type employeeResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phoneNumber,omitempty"`
	Role          string    `json:"role"`
	RoleDisplay   string    `json:"roleDisplay,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	CreatedByName string    `json:"createdByName,omitempty"`
}

func toEmployeeResponse(e employee.Employee) employeeResponse {
	return employeeResponse{
		ID:            e.ID.String(),
		FullName:      e.FullName,
		Email:         e.Email,
		PhoneNumber:   e.PhoneNumber,
		Role:          string(e.Role),
		RoleDisplay:   e.Role.DisplayName(),
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		CreatedByName: e.CreatedByName,
	}
}

func toEmployeeResponses(es []employee.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(es))
	for _, e := range es {
		out = append(out, toEmployeeResponse(e))
	}
	return out
}

// Create adds a staff member; email must be unique.
// @Summary Create employee
// @Tags    employees
// @Accept  json
// @Produce json
// @Param   input body employeeRequest true "employee payload"
// @Security BearerAuth
// @Success 201 {object} employeeResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	created, err := h.useCase.Create(c.Context(), req.toEntity(), currentUserID(c))
	if err != nil {
		return employeeError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, toEmployeeResponse(created))
}

// Get returns one employee.
// @Summary Get employee
// @Tags    employees
// @Produce json
// @Param   id path string true "employee id"
// @Security BearerAuth
// @Success 200 {object} employeeResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /employees/{id} [get]
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid employee id")
	}
	got, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		return employeeError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toEmployeeResponse(got))
}

// Update replaces an employee's mutable fields; the unique-email rule is
// re-checked against everyone except this employee.
// @Summary Update employee
// @Tags    employees
// @Accept  json
// @Produce json
// @Param   id path string true "employee id"
// @Param   input body employeeRequest true "employee payload"
// @Security BearerAuth
// @Success 200 {object} employeeResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /employees/{id} [put]
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid employee id")
	}
	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	updated, err := h.useCase.Update(c.Context(), id, req.toEntity())
	if err != nil {
		return employeeError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toEmployeeResponse(updated))
}

// Delete removes an employee.
// @Summary Delete employee
// @Tags    employees
// @Produce json
// @Param   id path string true "employee id"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid employee id")
	}
	if err := h.useCase.Delete(c.Context(), id); err != nil {
		return employeeError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "employee deleted"})
}

// ListAll returns every employee ordered by name, without paging. Kept for
// dropdowns that need the full roster.
// @Summary List all employees
// @Tags    employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} employeeResponse
// @Router  /employees [get]
func (h *EmployeeHandler) ListAll(c *fiber.Ctx) error {
	items, err := h.useCase.ListAll(c.Context())
	if err != nil {
		return employeeError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toEmployeeResponses(items))
}

// List returns a page of employees.
// @Summary List employees paginated
// @Tags    employees
// @Produce json
// @Param   page query int false "zero-based page"
// @Param   size query int false "page size"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /employees/paginated [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	p := parsePageParams(c)
	items, total, err := h.useCase.List(c.Context(), p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return employeeError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toEmployeeResponses(items), p.Page, p.Size, total))
}

// Search filters employees; all filters optional and conjunctive.
// @Summary Search employees
// @Tags    employees
// @Produce json
// @Param   fullName query string false "name substring"
// @Param   email query string false "email substring"
// @Param   role query string false "role tag"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /employees/search [get]
func (h *EmployeeHandler) Search(c *fiber.Ctx) error {
	p := parsePageParams(c)
	f := employee.SearchFilter{
		FullName: c.Query("fullName"),
		Email:    c.Query("email"),
		Role:     employee.Role(c.Query("role")),
	}
	items, total, err := h.useCase.Search(c.Context(), f, p.Limit(), p.Offset())
	if err != nil {
		return employeeError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toEmployeeResponses(items), p.Page, p.Size, total))
}

// ByRole lists employees carrying one role.
// @Summary List employees by role
// @Tags    employees
// @Produce json
// @Param   role path string true "role tag"
// @Security BearerAuth
// @Success 200 {array} employeeResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /employees/role/{role} [get]
func (h *EmployeeHandler) ByRole(c *fiber.Ctx) error {
	role, err := employee.ParseRole(strings.ToUpper(c.Params("role")))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	items, err := h.useCase.ListByRole(c.Context(), role)
	if err != nil {
		return employeeError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toEmployeeResponses(items))
}

func employeeError(c *fiber.Ctx, err error) error {
	var verr employee.ErrValidation
	switch {
	case errors.Is(err, employee.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "employee not found")
	case errors.Is(err, employee.ErrEmailTaken):
		return presenter.Error(c, http.StatusConflict, "employee email already in use")
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusBadRequest, verr.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}
