package main

import (
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/openmc/treasury/internal/core/services"
	"github.com/openmc/treasury/internal/handlers"
	"github.com/openmc/treasury/internal/middleware"
	"github.com/openmc/treasury/internal/platform/config"
	"github.com/openmc/treasury/internal/repositories/memory"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories and services, then register routes
	repos := memory.NewRepositoryProvider(cfg)
	container := services.NewContainer(cfg, repos)
	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("provider", cfg.ProviderName),
		slog.Bool("multi_currency", cfg.MultiCurrencySupport),
		slog.Bool("multi_world", cfg.MultiWorldSupport),
		slog.Bool("shared_accounts", cfg.SharedAccountSupport))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
