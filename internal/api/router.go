package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onless/driving-school-api/internal/api/handler"
	"github.com/onless/driving-school-api/internal/api/middleware"
	"github.com/onless/driving-school-api/internal/core/ports"
	"github.com/onless/driving-school-api/internal/core/service"
	"github.com/onless/driving-school-api/internal/infrastructure/config"
	mongodb "github.com/onless/driving-school-api/internal/infrastructure/db/mongo"
	redisdb "github.com/onless/driving-school-api/internal/infrastructure/db/redis"
	"github.com/onless/driving-school-api/internal/infrastructure/http/handlers"
	"github.com/onless/driving-school-api/internal/security"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, dispatcher ports.VerificationDispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Env)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("onless"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	codec := security.NewJWTCodec(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := service.NewAuthService(userRepo, hasher, codec, dispatcher)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Auth.LoginRatePerMinute)
	authHandler := handler.NewAuthHandler(authService, limiter)
	authenticate := middleware.Authenticate(authService)

	// --- Auth routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/refresh", authHandler.Refresh)
	v1.GET("/auth/me", authHandler.Me, authenticate)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
