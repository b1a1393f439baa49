package handlers

import (
	"net/http"

	"bizledger/internal/common"
	"bizledger/internal/models"
	"bizledger/internal/services"

	"github.com/labstack/echo/v4"
)

type EmployeeHandlers struct {
	employeeService services.EmployeeService
}

func NewEmployeeHandlers(employeeService services.EmployeeService) *EmployeeHandlers {
	return &EmployeeHandlers{employeeService: employeeService}
}

func (h *EmployeeHandlers) Register(g *echo.Group) {
	g.GET("/employees", h.ListEmployees)
	g.POST("/employees", h.CreateEmployee)
	g.GET("/employees/:id", h.GetEmployee)
	g.PUT("/employees/:id", h.UpdateEmployee)
	g.DELETE("/employees/:id", h.DeleteEmployee)
}

func (h *EmployeeHandlers) ListEmployees(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	filter := models.EmployeeFilter{
		Status: c.QueryParam("status"),
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("q"),
	}

	result, err := h.employeeService.List(c.Request().Context(), orgID, filter, page, limit)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, result, "Employees retrieved successfully")
}

func (h *EmployeeHandlers) CreateEmployee(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	var input services.EmployeeInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	employee, err := h.employeeService.Create(c.Request().Context(), orgID, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, employee, "Employee created successfully")
}

func (h *EmployeeHandlers) GetEmployee(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	employee, err := h.employeeService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, employee, "Employee retrieved successfully")
}

func (h *EmployeeHandlers) UpdateEmployee(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}
	var input services.EmployeeInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	employee, err := h.employeeService.Update(c.Request().Context(), orgID, id, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, employee, "Employee updated successfully")
}

func (h *EmployeeHandlers) DeleteEmployee(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	if err := h.employeeService.Delete(c.Request().Context(), orgID, id); err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, nil, "Employee deleted successfully")
}
