package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/consultancy/staffing/api/http/presenter"
	"github.com/consultancy/staffing/pkg/dashboard"
)

// DashboardHandler serves the aggregated stats endpoint.
type DashboardHandler struct {
	useCase *dashboard.UseCase
}

func NewDashboardHandler(useCase *dashboard.UseCase) *DashboardHandler {
	return &DashboardHandler{useCase: useCase}
}

// Stats returns the aggregate counters for the dashboard.
// @Summary Dashboard statistics
// @Tags    dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dashboard.Stats
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.useCase.Stats(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to collect stats")
	}
	return presenter.JSON(c, http.StatusOK, stats)
}
