package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "bizledger/docs"
	"bizledger/internal/caching"
	"bizledger/internal/common"
	"bizledger/internal/config"
	"bizledger/internal/events"
	"bizledger/internal/handlers"
	"bizledger/internal/jobs/background"
	applog "bizledger/internal/log"
	"bizledger/internal/middleware"
	"bizledger/internal/repositories"
	"bizledger/internal/services"
	"bizledger/pkg/database"
)

// @title BizLedger API
// @version 1.0
// @description Small-business ledger: customers, items, invoicing, payments, attendance and GST returns.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		applog.New(applog.DefaultConfig()).Error("failed to load configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.Log.Level),
		Format:    cfg.Log.Format,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", applog.FieldError, err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *applog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.MigrateOnStart {
		if err := database.RunMigrations(cfg.Database.URL); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Optional backends
	cacheSvc := caching.NewNoopCacheService()
	var cachePinger handlers.Pinger
	if cfg.RedisEnabled() {
		cacheSvc = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		cachePinger = cacheSvc
	}

	var storage services.ObjectStorage
	var storagePinger handlers.Pinger
	if cfg.StorageEnabled() {
		minioSvc, err := services.NewMinioService(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL, cfg.Storage.Bucket)
		if err != nil {
			return err
		}
		if err := minioSvc.EnsureBucketExists(ctx); err != nil {
			logger.WithComponent(applog.ComponentStorage).Warn("failed to ensure bucket exists", applog.FieldError, err.Error())
		}
		storage, storagePinger = minioSvc, minioSvc
	}

	publisher := events.NewNoopPublisher()
	if cfg.AMQPEnabled() {
		if publisher, err = events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger); err != nil {
			return err
		}
	}
	defer publisher.Close()

	// Repositories
	customerRepo := repositories.NewCustomerRepo(pool)
	itemRepo := repositories.NewItemRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	employeeRepo := repositories.NewEmployeeRepo(pool)
	attendanceRepo := repositories.NewAttendanceRepo(pool)
	gstRepo := repositories.NewGstReturnRepo(pool)
	dashboardRepo := repositories.NewDashboardRepo(pool)
	orgRepo := repositories.NewOrganizationRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	auditSvc := services.NewAuditLogsService(auditLogsRepo)
	effects := services.NewEffects(auditSvc, publisher, cacheSvc, logger)
	customerSvc := services.NewCustomerService(customerRepo, effects)
	itemSvc := services.NewItemService(itemRepo, effects)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, customerRepo, itemRepo, orgRepo, storage, effects, logger)
	paymentSvc := services.NewPaymentService(paymentRepo, effects)
	billingSvc := services.NewBillingService(invoiceSvc, paymentSvc)
	employeeSvc := services.NewEmployeeService(employeeRepo, effects)
	attendanceSvc := services.NewAttendanceService(attendanceRepo, employeeRepo, effects, logger)
	gstSvc := services.NewGstService(gstRepo, invoiceRepo, paymentRepo, cacheSvc, effects, logger, cfg.Redis.DraftTTL)
	dashboardSvc := services.NewDashboardService(dashboardRepo, cacheSvc, logger)

	// Token verification: JWKS when configured, shared secret otherwise
	var keyFunc jwt.Keyfunc
	if cfg.Auth.JWKSURL != "" {
		jwks, err := middleware.NewJWKS(cfg.Auth.JWKSURL, logger)
		if err != nil {
			return err
		}
		defer jwks.Close()
		keyFunc = jwks.Keyfunc()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler

	versionMiddleware := middleware.NewVersionMiddleware()
	if sunset, ok := cfg.APISunsetDate(); ok {
		versionMiddleware.Deprecate("v1", cfg.Server.APISunsetMessage, sunset)
		logger.Warn("api version deprecated", "version", "v1", "sunset", cfg.Server.APISunset)
	}

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(applog.RequestLogger(logger))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(versionMiddleware.APIVersionResolver())

	// Public routes
	handlers.NewHealthHandlers(pool, cachePinger, storagePinger).Register(e)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Authenticated API
	v1 := versionMiddleware.VersionRoute(e, "v1")
	v1.Use(middleware.JWTMiddleware(cfg.Auth.JWTSecret, keyFunc))
	v1.Use(middleware.NewAuditMiddleware(auditSvc, logger).AuditRequest())

	handlers.NewCustomerHandlers(customerSvc).Register(v1)
	handlers.NewItemHandlers(itemSvc).Register(v1)
	handlers.NewInvoiceHandlers(invoiceSvc, paymentSvc, billingSvc).Register(v1)
	handlers.NewEmployeeHandlers(employeeSvc).Register(v1)
	handlers.NewAttendanceHandlers(attendanceSvc).Register(v1)
	handlers.NewGstHandlers(gstSvc).Register(v1)
	handlers.NewDashboardHandlers(dashboardSvc).Register(v1)
	handlers.NewAuditLogsHandlers(auditSvc).Register(v1)

	if cfg.Jobs.Enabled {
		scheduler, err := background.NewJobScheduler(cfg.Jobs, invoiceSvc, gstSvc, orgRepo, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Warn("job scheduler did not stop cleanly", applog.FieldError, err.Error())
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}
