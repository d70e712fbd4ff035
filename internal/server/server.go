package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/debt-payoff-planner/internal/advice"
	"example.com/debt-payoff-planner/internal/auth"
	"example.com/debt-payoff-planner/internal/config"
	"example.com/debt-payoff-planner/internal/handlers"
	"example.com/debt-payoff-planner/internal/notifications"
	"example.com/debt-payoff-planner/internal/repository"
)

// New assembles the Echo HTTP server with routes and dependencies.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	scenarioRepo := repository.NewScenarioRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	notificationHub := notifications.NewHub()

	var adviceService *advice.Service
	if cfg.Advice.APIKey != "" {
		var client advice.Client
		switch strings.ToLower(cfg.Advice.Provider) {
		case "gemini":
			client = advice.NewGeminiClient(cfg.Advice.APIKey, cfg.Advice.BaseURL, cfg.Advice.Model, cfg.Advice.Timeout, cfg.Advice.MaxOutputTokens)
		default:
			client = advice.NewGroqClient(cfg.Advice.APIKey, cfg.Advice.BaseURL, cfg.Advice.Model, cfg.Advice.Timeout, cfg.Advice.MaxOutputTokens)
		}
		adviceService = advice.NewService(client)
	}

	authHandler := handlers.NewAuthHandler(userRepo, tokenRepo, tokenManager)
	debtHandler := handlers.NewDebtHandler(debtRepo, notificationHub)
	scenarioHandler := handlers.NewScenarioHandler(scenarioRepo, debtRepo, notificationHub)
	simulationHandler := handlers.NewSimulationHandler(debtRepo, notificationHub)
	statsHandler := handlers.NewStatsHandler(statsRepo, debtRepo)
	adviceHandler := handlers.NewAdviceHandler(adviceService, debtRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationHub)
	adminHandler := handlers.NewAdminHandler(adminRepo)

	registerRoutes(
		e,
		authHandler,
		debtHandler,
		scenarioHandler,
		simulationHandler,
		statsHandler,
		adviceHandler,
		notificationHandler,
		adminHandler,
		auth.JWTMiddleware(tokenManager),
		handlers.AdminMiddleware(userRepo, cfg.Admin.Emails),
		authRateLimiter(cfg.Auth),
		adviceRateLimiter(cfg.Advice),
	)

	return e
}

// NewHTTPServer creates a net/http server with the configured timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func authRateLimiter(cfg config.AuthConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}

func adviceRateLimiter(cfg config.AdviceConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
