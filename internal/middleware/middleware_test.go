package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizledger/internal/common"
	"bizledger/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// identityEcho serves GET /whoami behind the JWT middleware and echoes the
// identity found in the request context.
func identityEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	g := e.Group("", JWTMiddleware(testSecret, nil))
	g.GET("/whoami", func(c echo.Context) error {
		ctx := c.Request().Context()
		orgID, _ := common.GetOrganizationIDFromContext(ctx)
		userID, _ := common.GetUserIDFromContext(ctx)
		return c.JSON(http.StatusOK, map[string]string{
			"org":  orgID.String(),
			"user": userID.String(),
			"role": common.GetRoleFromContext(ctx),
		})
	})
	g.POST("/gst", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		RequireRole(common.RoleOwner, common.RoleAdmin, common.RoleAccountant))
	return e
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware_PopulatesIdentity(t *testing.T) {
	orgID, userID := uuid.New(), uuid.New()
	token := signToken(t, Claims{
		OrganizationID:   orgID.String(),
		Role:             "Accountant",
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
	})

	rec := serve(identityEcho(), http.MethodGet, "/whoami", token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), orgID.String())
	assert.Contains(t, rec.Body.String(), userID.String())
	assert.Contains(t, rec.Body.String(), `"role":"accountant"`)
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	expired := Claims{
		OrganizationID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tests := []struct {
		name    string
		token   string
		message string
	}{
		{name: "missing token", token: "", message: "Invalid token"},
		{name: "garbage token", token: "not-a-jwt", message: "Invalid token"},
		{name: "expired token", token: signToken(t, expired), message: "Invalid token"},
		{
			name:    "missing organization",
			token:   signToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()}}),
			message: "Missing organization_id in token",
		},
		{
			name:    "bad subject",
			token:   signToken(t, Claims{OrganizationID: uuid.NewString(), RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}}),
			message: "Invalid user_id format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(identityEcho(), http.MethodGet, "/whoami", tt.token)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestJWTMiddleware_RejectsForeignSignature(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		OrganizationID:   uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	rec := serve(identityEcho(), http.MethodGet, "/whoami", token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{role: "", want: http.StatusNoContent},
		{role: "owner", want: http.StatusNoContent},
		{role: "accountant", want: http.StatusNoContent},
		{role: "staff", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			token := signToken(t, Claims{
				OrganizationID:   uuid.NewString(),
				Role:             tt.role,
				RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
			})

			rec := serve(identityEcho(), http.MethodPost, "/gst", token)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRole(common.RoleOwner))

	rec := serve(e, http.MethodGet, "/x", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVersionMiddleware(t *testing.T) {
	vm := NewVersionMiddleware()
	e := echo.New()
	e.Use(vm.APIVersionResolver())
	vm.VersionRoute(e, "v1").GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("api_version").(string))
	})

	rec := serve(e, http.MethodGet, "/v1/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Body.String())
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))

	rec = serve(e, http.MethodGet, "/v7/ping", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "supported: v1")
}

func TestVersionMiddleware_Deprecation(t *testing.T) {
	vm := NewVersionMiddleware()
	vm.Deprecate("v1", "use v2", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	e := echo.New()
	vm.VersionRoute(e, "v1").GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(e, http.MethodGet, "/v1/ping", "")

	assert.Equal(t, "true", rec.Header().Get("X-API-Deprecated"))
	assert.Equal(t, "2027-01-01T00:00:00Z", rec.Header().Get("X-API-Sunset"))
	assert.Equal(t, "use v2", rec.Header().Get("X-API-Message"))
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, "v1", extractVersion("/v1/customers"))
	assert.Equal(t, "v12", extractVersion("/v12"))
	assert.Equal(t, "", extractVersion("/health"))
	assert.Equal(t, "", extractVersion("/vendors"))
}

type mockAuditService struct {
	mock.Mock
}

func (m *mockAuditService) LogActivity(ctx context.Context, orgID uuid.UUID, userID *uuid.UUID, action, entity, entityID string, details models.JSONB) error {
	args := m.Called(ctx, orgID, userID, action, entity, entityID, details)
	return args.Error(0)
}

func (m *mockAuditService) ListAuditLogs(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, orgID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func auditedEcho(audit *mockAuditService, orgID uuid.UUID) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	identity := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := common.WithIdentity(c.Request().Context(), orgID, uuid.New(), common.RoleStaff)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
	g := e.Group("", identity, NewAuditMiddleware(audit, nil).AuditRequest())
	g.POST("/invoices", func(c echo.Context) error {
		return common.SendServiceError(c, common.Validationf("line_items are required"))
	})
	g.POST("/gst/generate", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	})
	g.POST("/customers", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })
	g.GET("/customers", func(c echo.Context) error { return common.SendError(c, http.StatusBadRequest, "bad") })
	return e
}

func TestAuditMiddleware_RecordsRejectedWrites(t *testing.T) {
	orgID := uuid.New()
	audit := &mockAuditService{}
	audit.On("LogActivity", mock.Anything, orgID, mock.AnythingOfType("*uuid.UUID"), models.ActionRequest, "http_request", "/invoices",
		mock.MatchedBy(func(d models.JSONB) bool {
			return d["status"] == http.StatusBadRequest && d["error"] == "line_items are required"
		})).Return(nil).Once()
	audit.On("LogActivity", mock.Anything, orgID, mock.Anything, models.ActionRequest, "http_request", "/gst/generate",
		mock.MatchedBy(func(d models.JSONB) bool {
			return d["status"] == http.StatusForbidden && d["error"] == "Insufficient permissions"
		})).Return(assert.AnError).Once()

	e := auditedEcho(audit, orgID)
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodPost, "/invoices", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodPost, "/gst/generate", "").Code)
	assert.Equal(t, http.StatusCreated, serve(e, http.MethodPost, "/customers", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodGet, "/customers", "").Code)

	audit.AssertExpectations(t)
	audit.AssertNumberOfCalls(t, "LogActivity", 2)
}

func TestSanitizeHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("Content-Type", "application/json")

	sanitized := sanitizeHeaders(h)

	assert.Equal(t, "[REDACTED]", sanitized["Authorization"])
	assert.Equal(t, []string{"application/json"}, sanitized["Content-Type"])
}
