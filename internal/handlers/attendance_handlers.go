package handlers

import (
	"net/http"

	"bizledger/internal/common"
	"bizledger/internal/services"

	"github.com/labstack/echo/v4"
)

type AttendanceHandlers struct {
	attendanceService services.AttendanceService
}

func NewAttendanceHandlers(attendanceService services.AttendanceService) *AttendanceHandlers {
	return &AttendanceHandlers{attendanceService: attendanceService}
}

func (h *AttendanceHandlers) Register(g *echo.Group) {
	g.POST("/attendance", h.SaveAttendance)
	g.GET("/attendance", h.ListAttendance)
	g.GET("/attendance/summary/employees", h.EmployeeSummary)
	g.GET("/attendance/summary/monthly", h.MonthlySummary)
	g.PATCH("/attendance/:id", h.UpdateAttendance)
}

// SaveAttendance godoc
// @Summary Upsert a day's attendance for several employees
// @Description Each record is saved independently; rejected records are reported in failed.
// @Tags attendance
// @Param batch body services.SaveAttendanceInput true "Attendance batch"
// @Success 200 {object} common.Response
// @Router /attendance [post]
func (h *AttendanceHandlers) SaveAttendance(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	var input services.SaveAttendanceInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	result, err := h.attendanceService.Save(c.Request().Context(), orgID, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	message := "Attendance saved successfully"
	if len(result.Failed) > 0 {
		message = "Attendance saved with errors"
	}
	return common.SendSuccess(c, http.StatusOK, result, message)
}

func (h *AttendanceHandlers) ListAttendance(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}

	records, err := h.attendanceService.List(c.Request().Context(), orgID, c.QueryParam("date"), c.QueryParam("employeeId"))
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, records, "Attendance retrieved successfully")
}

func (h *AttendanceHandlers) UpdateAttendance(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}
	var patch services.AttendancePatch
	if err := bindAndValidate(c, &patch); err != nil {
		return common.SendServiceError(c, err)
	}

	record, err := h.attendanceService.Update(c.Request().Context(), orgID, id, patch)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, record, "Attendance updated successfully")
}

// EmployeeSummary godoc
// @Summary Per-employee attendance totals
// @Tags attendance
// @Param month query string false "YYYY-MM"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {object} common.Response
// @Router /attendance/summary/employees [get]
func (h *AttendanceHandlers) EmployeeSummary(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}

	report, err := h.attendanceService.EmployeeSummary(c.Request().Context(), orgID,
		c.QueryParam("month"), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, report, "Attendance summary retrieved successfully")
}

func (h *AttendanceHandlers) MonthlySummary(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}

	report, err := h.attendanceService.MonthlySummary(c.Request().Context(), orgID, c.QueryParam("year"), c.QueryParam("employeeId"))
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, report, "Monthly attendance summary retrieved successfully")
}
