package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"bizledger/internal/common"
	applog "bizledger/internal/log"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// tokenContextKey is where echo-jwt leaves the parsed token.
const tokenContextKey = "user"

// Claims is the bearer token payload. OrganizationID scopes every request;
// Role is optional and treated as owner when absent.
type Claims struct {
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWKS resolves signing keys from a remote key set and refreshes them in the
// background until Close is called.
type JWKS struct {
	jwks *keyfunc.JWKS
}

// NewJWKS fetches the key set at url.
func NewJWKS(url string, logger *applog.Logger) (*JWKS, error) {
	if logger == nil {
		logger = applog.Discard()
	}
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("jwks refresh failed", applog.FieldError, err.Error())
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load jwks: %w", err)
	}
	return &JWKS{jwks: jwks}, nil
}

// Keyfunc returns the key lookup used to verify tokens.
func (j *JWKS) Keyfunc() jwt.Keyfunc { return j.jwks.Keyfunc }

// Close stops the background refresh.
func (j *JWKS) Close() { j.jwks.EndBackground() }

// JWTConfig builds the echo-jwt configuration. keyFunc takes precedence over
// the shared HS256 secret when set.
func JWTConfig(secret string, keyFunc jwt.Keyfunc) echojwt.Config {
	cfg := echojwt.Config{
		ContextKey: tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token").SetInternal(err)
		},
	}
	if keyFunc != nil {
		cfg.KeyFunc = keyFunc
	} else {
		cfg.SigningKey = []byte(secret)
	}
	return cfg
}

// JWTMiddleware verifies the bearer token and stores the caller's
// organization, user and role in the request context.
func JWTMiddleware(secret string, keyFunc jwt.Keyfunc) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(JWTConfig(secret, keyFunc))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(withIdentity(next))
	}
}

func withIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
		}

		orgID, err := uuid.Parse(strings.TrimSpace(claims.OrganizationID))
		if err != nil || orgID == uuid.Nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing organization_id in token")
		}
		userID, err := uuid.Parse(strings.TrimSpace(claims.Subject))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user_id format")
		}

		ctx := common.WithIdentity(c.Request().Context(), orgID, userID, strings.ToLower(strings.TrimSpace(claims.Role)))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
