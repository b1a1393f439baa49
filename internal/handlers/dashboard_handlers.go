package handlers

import (
	"net/http"

	"bizledger/internal/common"
	"bizledger/internal/services"

	"github.com/labstack/echo/v4"
)

type DashboardHandlers struct {
	dashboardService services.DashboardService
}

func NewDashboardHandlers(dashboardService services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

func (h *DashboardHandlers) Register(g *echo.Group) {
	g.GET("/dashboard", h.Summary)
	g.GET("/dashboard/timeseries", h.Timeseries)
}

// Summary godoc
// @Summary Record counts and totals created within a date range
// @Tags dashboard
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} common.Response
// @Router /dashboard [get]
func (h *DashboardHandlers) Summary(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}

	summary, err := h.dashboardService.Summary(c.Request().Context(), orgID, c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, summary, "Dashboard retrieved successfully")
}

func (h *DashboardHandlers) Timeseries(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}

	points, err := h.dashboardService.Timeseries(c.Request().Context(), orgID, c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, points, "Dashboard timeseries retrieved successfully")
}
