package middleware

import (
	"net/http"
	"slices"

	"bizledger/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireRole lets a request through when the caller holds one of roles.
// Tokens without a role act as the organization owner.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetOrganizationIDFromContext(ctx); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			role := common.GetRoleFromContext(ctx)
			if role == "" {
				role = common.RoleOwner
			}
			if !slices.Contains(roles, role) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
