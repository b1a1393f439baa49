package handlers

import (
	"net/http"

	"bizledger/internal/common"
	"bizledger/internal/services"

	"github.com/labstack/echo/v4"
)

type ItemHandlers struct {
	itemService services.ItemService
}

func NewItemHandlers(itemService services.ItemService) *ItemHandlers {
	return &ItemHandlers{itemService: itemService}
}

func (h *ItemHandlers) Register(g *echo.Group) {
	g.GET("/items", h.ListItems)
	g.POST("/items", h.CreateItem)
	g.GET("/items/:id", h.GetItem)
	g.PUT("/items/:id", h.UpdateItem)
	g.DELETE("/items/:id", h.DeleteItem)
	g.POST("/inventory/adjust", h.AdjustStock)
}

// ListItems godoc
// @Summary List catalogue items
// @Tags items
// @Param item_type query string false "product or service"
// @Param q query string false "Search by name or HSN/SAC code"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} common.Response
// @Router /items [get]
func (h *ItemHandlers) ListItems(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return common.SendServiceError(c, err)
	}

	result, err := h.itemService.List(c.Request().Context(), orgID, c.QueryParam("item_type"), c.QueryParam("q"), page, limit)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, result, "Items retrieved successfully")
}

func (h *ItemHandlers) CreateItem(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	var input services.ItemInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	item, err := h.itemService.Create(c.Request().Context(), orgID, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, item, "Item created successfully")
}

func (h *ItemHandlers) GetItem(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	item, err := h.itemService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, item, "Item retrieved successfully")
}

func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}
	var input services.ItemInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	item, err := h.itemService.Update(c.Request().Context(), orgID, id, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, item, "Item updated successfully")
}

func (h *ItemHandlers) DeleteItem(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	if err := h.itemService.Delete(c.Request().Context(), orgID, id); err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, nil, "Item deleted successfully")
}

// AdjustStock godoc
// @Summary Apply a manual stock correction to a product
// @Tags items
// @Param adjustment body services.StockAdjustmentInput true "Adjustment"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /inventory/adjust [post]
func (h *ItemHandlers) AdjustStock(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	var input services.StockAdjustmentInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	item, err := h.itemService.AdjustStock(c.Request().Context(), orgID, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, item, "Stock adjusted successfully")
}
