package middleware

import (
	"net/http"
	"strings"

	"bizledger/internal/common"
	applog "bizledger/internal/log"
	"bizledger/internal/models"
	"bizledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const auditEntityRequest = "http_request"

var sensitiveHeaders = []string{
	"authorization",
	"cookie",
	"x-api-key",
	"x-auth-token",
	"proxy-authorization",
}

// AuditMiddleware records mutating requests that were rejected or failed.
// Successful writes are audited by the services themselves.
type AuditMiddleware struct {
	auditService services.AuditLogsService
	logger       *applog.Logger
}

func NewAuditMiddleware(auditService services.AuditLogsService, logger *applog.Logger) *AuditMiddleware {
	if logger == nil {
		logger = applog.Discard()
	}
	return &AuditMiddleware{auditService: auditService, logger: logger.WithComponent(applog.ComponentAudit)}
}

// AuditRequest must run after JWTMiddleware so the organization is known.
func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqErr := next(c)

			if !isMutating(c.Request().Method) {
				return reqErr
			}
			status := responseStatus(c, reqErr)
			if status < http.StatusBadRequest {
				return reqErr
			}

			ctx := c.Request().Context()
			orgID, ok := common.GetOrganizationIDFromContext(ctx)
			if !ok {
				return reqErr
			}
			var userPtr *uuid.UUID
			if userID, ok := common.GetUserIDFromContext(ctx); ok && userID != uuid.Nil {
				userPtr = &userID
			}

			details := models.JSONB{
				"method":     c.Request().Method,
				"path":       c.Path(),
				"status":     status,
				"ip":         c.RealIP(),
				"user_agent": c.Request().UserAgent(),
				"headers":    sanitizeHeaders(c.Request().Header),
				"query":      c.QueryString(),
			}
			if reqErr != nil {
				_, msg := common.StatusFor(reqErr)
				if he, ok := reqErr.(*echo.HTTPError); ok {
					if s, ok := he.Message.(string); ok {
						msg = s
					}
				}
				details["error"] = msg
			} else if msg, ok := c.Get(common.ErrorMessageKey).(string); ok && msg != "" {
				details["error"] = msg
			}

			if err := m.auditService.LogActivity(ctx, orgID, userPtr, models.ActionRequest, auditEntityRequest, c.Path(), details); err != nil {
				m.logger.WarnContext(ctx, "failed to audit request",
					applog.FieldOrganizationID, orgID.String(),
					applog.FieldPath, c.Path(),
					applog.FieldError, err.Error())
			}
			return reqErr
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseStatus predicts the status of a request whose error has not yet
// been rendered by the error handler.
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	status, _ := common.StatusFor(err)
	return status
}

func sanitizeHeaders(headers http.Header) map[string]any {
	sanitized := make(map[string]any, len(headers))
	for key, values := range headers {
		if isSensitiveHeader(key) {
			sanitized[key] = "[REDACTED]"
			continue
		}
		sanitized[key] = values
	}
	return sanitized
}

func isSensitiveHeader(header string) bool {
	header = strings.ToLower(header)
	for _, sensitive := range sensitiveHeaders {
		if header == sensitive {
			return true
		}
	}
	return false
}
