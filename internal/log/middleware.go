package log

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// ContextKey type for context keys
type ContextKey string

// LoggerContextKey is the context key for the request-scoped logger
const LoggerContextKey ContextKey = "logger"

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// RequestLogger returns echo middleware that writes one structured line per
// request and stores a request-scoped logger in the request context.
func RequestLogger(logger *Logger) echo.MiddlewareFunc {
	httpLogger := logger.WithComponent(ComponentHTTP)

	inject := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			scoped := httpLogger.With(FieldRequestID, reqID)
			ctx := context.WithValue(c.Request().Context(), LoggerContextKey, scoped)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}

	logValues := echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURIPath:   true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			attrs := []any{
				FieldRequestID, v.RequestID,
				FieldMethod, v.Method,
				FieldPath, v.URIPath,
				FieldStatusCode, v.Status,
				FieldDuration, v.Latency.Milliseconds(),
				FieldClientIP, v.RemoteIP,
				FieldUserAgent, v.UserAgent,
			}
			ctx := c.Request().Context()
			switch {
			case v.Error != nil || v.Status >= 500:
				if v.Error != nil {
					attrs = append(attrs, FieldError, v.Error.Error())
				}
				httpLogger.ErrorContext(ctx, "request failed", attrs...)
			case v.Status >= 400:
				httpLogger.WarnContext(ctx, "request rejected", attrs...)
			default:
				httpLogger.InfoContext(ctx, "request", attrs...)
			}
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return logValues(inject(next))
	}
}
