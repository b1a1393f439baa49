package handlers

import (
	"net/http"

	"bizledger/internal/common"
	"bizledger/internal/middleware"
	"bizledger/internal/models"
	"bizledger/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers handles audit logs related HTTP requests
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
}

// NewAuditLogsHandlers creates a new audit logs handlers instance
func NewAuditLogsHandlers(auditLogsService services.AuditLogsService) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditLogsService: auditLogsService}
}

func (h *AuditLogsHandlers) Register(g *echo.Group) {
	g.GET("/audit-logs", h.ListAuditLogs, middleware.RequireRole(common.RoleOwner, common.RoleAdmin))
}

// ListAuditLogs retrieves audit logs with filtering and pagination
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}

	filters := &models.AuditLogFilters{}
	if entity := c.QueryParam("entity"); entity != "" {
		filters.Entity = &entity
	}
	if entityID := c.QueryParam("entity_id"); entityID != "" {
		filters.EntityID = &entityID
	}
	if action := c.QueryParam("action"); action != "" {
		filters.Action = &action
	}
	if filters.Limit, err = queryInt(c, "limit"); err != nil {
		return common.SendServiceError(c, err)
	}
	if filters.Offset, err = queryInt(c, "offset"); err != nil {
		return common.SendServiceError(c, err)
	}

	logs, err := h.auditLogsService.ListAuditLogs(c.Request().Context(), orgID, filters)
	if err != nil {
		return common.SendServiceError(c, err)
	}

	return common.SendSuccess(c, http.StatusOK, map[string]interface{}{
		"data":   logs,
		"total":  len(logs),
		"limit":  filters.Limit,
		"offset": filters.Offset,
	}, "Audit logs retrieved successfully")
}
