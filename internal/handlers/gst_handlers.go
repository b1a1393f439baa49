package handlers

import (
	"net/http"

	"bizledger/internal/common"
	"bizledger/internal/middleware"
	"bizledger/internal/models"
	"bizledger/internal/services"

	"github.com/labstack/echo/v4"
)

type GstHandlers struct {
	gstService services.GstService
}

func NewGstHandlers(gstService services.GstService) *GstHandlers {
	return &GstHandlers{gstService: gstService}
}

// Register mounts the GST routes. Static paths are registered before /gst/:id.
func (h *GstHandlers) Register(g *echo.Group) {
	filers := middleware.RequireRole(common.RoleOwner, common.RoleAdmin, common.RoleAccountant)

	g.GET("/gst", h.ListReturns)
	g.POST("/gst/generate", h.GenerateReturn, filers)
	g.GET("/gst/draft/preview", h.DraftPreview)
	g.GET("/gst/transactions", h.SearchTransactions)
	g.GET("/gst/:id", h.GetReturn)
	g.PATCH("/gst/:id", h.UpdateReturnStatus, filers)
}

func (h *GstHandlers) ListReturns(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return common.SendServiceError(c, err)
	}

	result, err := h.gstService.List(c.Request().Context(), orgID, page, limit)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, result, "GST returns retrieved successfully")
}

// GenerateReturn godoc
// @Summary Recompute and store the GST return for a period
// @Tags gst
// @Param request body services.GenerateGstInput true "Period and return type"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 403 {object} common.Response
// @Router /gst/generate [post]
func (h *GstHandlers) GenerateReturn(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	var input services.GenerateGstInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	gstReturn, err := h.gstService.Generate(c.Request().Context(), orgID, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, gstReturn, "GST summary prepared")
}

func (h *GstHandlers) GetReturn(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	gstReturn, err := h.gstService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, gstReturn, "GST return retrieved successfully")
}

func (h *GstHandlers) UpdateReturnStatus(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}
	var input services.GstStatusInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	gstReturn, err := h.gstService.UpdateStatus(c.Request().Context(), orgID, id, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, gstReturn, "GST return updated successfully")
}

// DraftPreview godoc
// @Summary Compute the GST draft for a period without storing it
// @Tags gst
// @Param period query string true "YYYY-MM"
// @Success 200 {object} common.Response
// @Router /gst/draft/preview [get]
func (h *GstHandlers) DraftPreview(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}

	draft, err := h.gstService.DraftPreview(c.Request().Context(), orgID, c.QueryParam("period"))
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, draft, "GST draft computed successfully")
}

func (h *GstHandlers) SearchTransactions(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return common.SendServiceError(c, err)
	}
	filter := models.TransactionFilter{
		Query:     c.QueryParam("q"),
		Treatment: c.QueryParam("treatment"),
		Status:    c.QueryParam("status"),
		Limit:     limit,
	}

	previews, err := h.gstService.SearchTransactions(c.Request().Context(), orgID, c.QueryParam("period"), filter)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, previews, "GST transactions retrieved successfully")
}
