package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	financeapp "github.com/cecagem/backoffice/internal/application/finance"
	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/infrastructure/auth"
	"github.com/cecagem/backoffice/internal/infrastructure/cache"
	"github.com/cecagem/backoffice/internal/infrastructure/config"
	"github.com/cecagem/backoffice/internal/infrastructure/event"
	"github.com/cecagem/backoffice/internal/infrastructure/logger"
	"github.com/cecagem/backoffice/internal/infrastructure/persistence"
	"github.com/cecagem/backoffice/internal/infrastructure/telemetry"
	"github.com/cecagem/backoffice/internal/interfaces/http/handler"
	"github.com/cecagem/backoffice/internal/interfaces/http/middleware"
	"github.com/cecagem/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

// maxRequestBody bounds JSON request bodies; payment submissions are small.
const maxRequestBody = 1 << 20

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file (default: ./config.toml)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting CECAGEM back-office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracing", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.SQLLevel))
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		return fmt.Errorf("database tracing: %w", err)
	}
	log.Info("Database connected")

	store, err := cache.NewStoreFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		return fmt.Errorf("statistics cache: %w", err)
	}
	defer func() { _ = store.Close() }()
	stats := cache.NewPortfolioCache(store, cfg.Cache.KeyPrefix, cfg.Cache.StatsTTL)

	loc := cfg.Reporting.Location()
	engine := finance.NewReconciliationEngine(finance.WithLocation(loc))

	contracts := persistence.NewGormContractRepository(db.DB, loc)
	installments := persistence.NewGormInstallmentRepository(db.DB)
	payments := persistence.NewGormPaymentRepository(db.DB)
	companies := persistence.NewGormCompanyRepository(db.DB)

	bus := event.NewInMemoryEventBus(log.Named("events"))
	bus.Subscribe(financeapp.NewInstallmentStatusHandler(installments, engine, stats, log))
	if err := bus.Start(context.Background()); err != nil {
		return fmt.Errorf("event bus: %w", err)
	}

	paymentSvc := financeapp.NewPaymentValidationService(payments, installments, bus, engine, log)
	querySvc := financeapp.NewReconciliationQueryService(contracts, companies, engine, stats, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        newEngine(cfg, log, db, paymentSvc, querySvc),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	if err := bus.Stop(ctx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	published, failed := bus.Stats()
	log.Info("Server exited gracefully",
		zap.Int64("events_published", published),
		zap.Int64("events_failed", failed),
	)
	return nil
}

func newEngine(
	cfg *config.Config,
	log *zap.Logger,
	db *persistence.Database,
	payments *financeapp.PaymentValidationService,
	queries *financeapp.ReconciliationQueryService,
) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		SkipPaths:   []string{"/health", "/api/v1/health"},
	})...)
	engine.Use(
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(maxRequestBody),
	)

	verifier := auth.NewVerifier(cfg.JWT)
	jwtCfg := middleware.DefaultJWTConfig(verifier)
	jwtCfg.Logger = log

	loc := cfg.Reporting.Location()
	r := router.NewRouter(engine).Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	r.Register(handler.ContractRoutes(handler.NewContractHandler(queries, loc))).
		Register(handler.CompanyRoutes(handler.NewCompanyHandler(queries))).
		Register(handler.DashboardRoutes(handler.NewDashboardHandler(queries))).
		Register(handler.PaymentRoutes(handler.NewPaymentHandler(payments), log)...).
		Register(handler.SystemRoutes(handler.NewSystemHandler(db, cfg.App.Name, version))...)
	r.Setup()

	return engine
}
