package handlers

import (
	"net/http"

	"bizledger/internal/common"
	"bizledger/internal/services"

	"github.com/labstack/echo/v4"
)

type CustomerHandlers struct {
	customerService services.CustomerService
}

func NewCustomerHandlers(customerService services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService}
}

func (h *CustomerHandlers) Register(g *echo.Group) {
	g.GET("/customers", h.ListCustomers)
	g.POST("/customers", h.CreateCustomer)
	g.GET("/customers/:id", h.GetCustomer)
	g.PUT("/customers/:id", h.UpdateCustomer)
	g.DELETE("/customers/:id", h.DeleteCustomer)
}

// ListCustomers godoc
// @Summary List customers
// @Tags customers
// @Param q query string false "Search by name, email, phone or GSTIN"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} common.Response
// @Router /customers [get]
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return common.SendServiceError(c, err)
	}

	result, err := h.customerService.List(c.Request().Context(), orgID, c.QueryParam("q"), page, limit)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, result, "Customers retrieved successfully")
}

// CreateCustomer godoc
// @Summary Create a customer
// @Tags customers
// @Param customer body services.CustomerInput true "Customer"
// @Success 201 {object} common.Response
// @Router /customers [post]
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	var input services.CustomerInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	customer, err := h.customerService.Create(c.Request().Context(), orgID, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, customer, "Customer created successfully")
}

func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	customer, err := h.customerService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, customer, "Customer retrieved successfully")
}

func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}
	var input services.CustomerInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	customer, err := h.customerService.Update(c.Request().Context(), orgID, id, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, customer, "Customer updated successfully")
}

func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	if err := h.customerService.Delete(c.Request().Context(), orgID, id); err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, nil, "Customer deleted successfully")
}
