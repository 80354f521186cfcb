package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/presupuestos/budget-service/config"
	_ "github.com/presupuestos/budget-service/docs"
	"github.com/presupuestos/budget-service/internal/archive"
	"github.com/presupuestos/budget-service/internal/auth"
	"github.com/presupuestos/budget-service/internal/badges"
	"github.com/presupuestos/budget-service/internal/budgets"
	"github.com/presupuestos/budget-service/internal/database"
	"github.com/presupuestos/budget-service/internal/handlers"
	"github.com/presupuestos/budget-service/internal/importer"
	"github.com/presupuestos/budget-service/internal/middleware"
	"github.com/presupuestos/budget-service/internal/reports"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/sweepers"
	"github.com/presupuestos/budget-service/internal/telemetry"
	"github.com/presupuestos/budget-service/internal/types"
)

// @title Budget Service API
// @version 1.0
// @description Quote follow-up tracking: CSV import, classification, reconciliation, reports and badges.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Str("storage", cfg.Storage.Driver).Msg("Starting budget service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	archives, err := archive.NewLocalArchive(cfg.Storage.ArchivePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Storage.ArchivePath).Msg("Failed to open import archive")
	}

	var sweeper *sweepers.ArchiveSweeper
	if cfg.Storage.ArchiveRetention > 0 && cfg.Storage.ArchiveSweepInterval > 0 {
		sweeper = sweepers.NewArchiveSweeper(archives, logger, cfg.Storage.ArchiveSweepInterval, cfg.Storage.ArchiveRetention)
		go sweeper.Start(ctx)
	}

	badgeEngine := badges.NewEngine(store, *logger)
	authService := auth.NewService(store, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	if cfg.Auth.AdminPassword != "" {
		if _, err := authService.EnsureUser(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, types.RoleAdmin); err != nil {
			logger.Fatal().Err(err).Msg("Failed to create admin user")
		}
		logger.Info().Str("username", cfg.Auth.AdminUsername).Msg("Admin user ready")
	} else {
		logger.Warn().Msg("ADMIN_PASSWORD not set, no bootstrap user created")
	}

	h := &handlers.Handler{
		Importer: importer.NewService(store, *logger,
			importer.WithArchive(archives),
			importer.WithBadges(badgeEngine),
			importer.WithDemoFile(cfg.Import.DemoFile),
		),
		Budgets:        budgets.NewService(store, badgeEngine, *logger),
		Auth:           authService,
		Reports:        reports.NewGenerator(store, *logger),
		Badges:         badgeEngine,
		Store:          store,
		Logger:         *logger,
		MaxUploadBytes: cfg.Import.MaxUploadBytes,
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	} else if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger, cfg.CORS)

	loginLimiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})
	go loginLimiter.RunCleanup(ctx, 10*time.Minute)

	h.Register(router, loginLimiter)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var handler http.Handler = router
	if cfg.Telemetry.Enabled {
		handler = otelhttp.NewHandler(router, cfg.Telemetry.ServiceName)
	}

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if sweeper != nil {
		sweeper.Stop()
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush telemetry")
	}

	logger.Info().Msg("Server exited")
}

// openStore returns the configured quote store. The postgres store owns the shared pool.
func openStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		if err := database.Connect(ctx, cfg.Database, *logger); err != nil {
			return nil, err
		}
		logger.Info().Msg("Database connected")

		store := storage.NewPostgresStore(database.Pool())
		if err := store.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		return &pooledStore{PostgresStore: store}, nil
	default:
		return storage.NewMemoryStore(), nil
	}
}

// pooledStore closes the shared database pool together with the store
type pooledStore struct {
	*storage.PostgresStore
}

func (s *pooledStore) Close() {
	database.Close()
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "budget-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger, corsCfg config.CORSConfig) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsCfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Report-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
