package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultancy/staffing/pkg/employee"
)

type fakeEmployeeUseCase struct {
	createErr error
	getErr    error
	items     []employee.Employee
	total     int64
}

func (f *fakeEmployeeUseCase) Create(_ context.Context, e employee.Employee, _ uuid.UUID) (employee.Employee, error) {
	if f.createErr != nil {
		return employee.Employee{}, f.createErr
	}
	e.ID = uuid.New()
	return e, nil
}

func (f *fakeEmployeeUseCase) GetByID(_ context.Context, id uuid.UUID) (employee.Employee, error) {
	if f.getErr != nil {
		return employee.Employee{}, f.getErr
	}
	return employee.Employee{ID: id, FullName: "Pat Lee", Email: "pat@agency.io", Role: employee.RoleRecruiter}, nil
}

func (f *fakeEmployeeUseCase) Update(_ context.Context, id uuid.UUID, e employee.Employee) (employee.Employee, error) {
	if f.getErr != nil {
		return employee.Employee{}, f.getErr
	}
	e.ID = id
	return e, nil
}

func (f *fakeEmployeeUseCase) Delete(context.Context, uuid.UUID) error { return f.getErr }

func (f *fakeEmployeeUseCase) ListAll(context.Context) ([]employee.Employee, error) {
	return f.items, nil
}

func (f *fakeEmployeeUseCase) List(_ context.Context, _, _ int, _, _ string) ([]employee.Employee, int64, error) {
	return f.items, f.total, nil
}

func (f *fakeEmployeeUseCase) Search(_ context.Context, _ employee.SearchFilter, _, _ int) ([]employee.Employee, int64, error) {
	return f.items, f.total, nil
}

func (f *fakeEmployeeUseCase) ListByRole(context.Context, employee.Role) ([]employee.Employee, error) {
	return f.items, nil
}

func newEmployeeApp(uc employee.UseCase) *fiber.App {
	app := fiber.New()
	h := NewEmployeeHandler(uc)
	app.Post("/employees", h.Create)
	app.Get("/employees/paginated", h.List)
	app.Get("/employees/:id", h.Get)
	return app
}

func TestEmployeeCreateConflict(t *testing.T) {
	app := newEmployeeApp(&fakeEmployeeUseCase{createErr: employee.ErrEmailTaken})

	resp := postJSON(t, app, "/employees",
		`{"fullName":"Pat Lee","email":"pat@agency.io","role":"RECRUITER"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "employee email already in use", body["message"])
}

func TestEmployeeCreateValidation(t *testing.T) {
	app := newEmployeeApp(&fakeEmployeeUseCase{createErr: employee.ErrValidation("email is required")})

	resp := postJSON(t, app, "/employees", `{"fullName":"Pat Lee"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEmployeeCreateSuccess(t *testing.T) {
	app := newEmployeeApp(&fakeEmployeeUseCase{})

	resp := postJSON(t, app, "/employees",
		`{"fullName":"Pat Lee","email":"pat@agency.io","role":"RECRUITER"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Pat Lee", body["fullName"])
	assert.Equal(t, "RECRUITER", body["role"])
	assert.NotEmpty(t, body["id"])
}

func TestEmployeeGetBadID(t *testing.T) {
	app := newEmployeeApp(&fakeEmployeeUseCase{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/employees/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEmployeeGetNotFound(t *testing.T) {
	app := newEmployeeApp(&fakeEmployeeUseCase{getErr: employee.ErrNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/employees/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEmployeeListPageEnvelope(t *testing.T) {
	uc := &fakeEmployeeUseCase{
		items: []employee.Employee{
			{ID: uuid.New(), FullName: "A", Email: "a@agency.io", Role: employee.RoleSales},
			{ID: uuid.New(), FullName: "B", Email: "b@agency.io", Role: employee.RoleSales},
		},
		total: 25,
	}
	app := newEmployeeApp(uc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/employees/paginated?page=1&size=2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Content       []json.RawMessage `json:"content"`
		Page          int               `json:"page"`
		Size          int               `json:"size"`
		TotalElements int64             `json:"totalElements"`
		TotalPages    int64             `json:"totalPages"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Content, 2)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 2, body.Size)
	assert.Equal(t, int64(25), body.TotalElements)
	assert.Equal(t, int64(13), body.TotalPages)
}
