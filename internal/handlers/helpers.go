package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"bizledger/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// organizationID returns the caller's organization or a 401.
func organizationID(c echo.Context) (uuid.UUID, error) {
	orgID, ok := common.GetOrganizationIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Organization not found")
	}
	return orgID, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

// optionalUUID parses an optional uuid query parameter.
func optionalUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.Validationf("%s must be a number", name)
	}
	return n, nil
}

func pageParams(c echo.Context) (int, int, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

// bindAndValidate decodes the JSON body into dst and runs its validate tags.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return common.Validationf("invalid request body")
	}
	return c.Validate(dst)
}
