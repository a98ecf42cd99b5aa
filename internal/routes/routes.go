// Package routes defines the API routing configuration.
// It wires services to handlers and mounts them with their middleware
// and permission requirements.
package routes

import (
	"time"

	"cardiorisk/internal/config"
	"cardiorisk/internal/handlers"
	"cardiorisk/internal/middleware"
	"cardiorisk/internal/models"
	"cardiorisk/internal/observability"
	"cardiorisk/internal/repositories"
	"cardiorisk/internal/repositories/cache"
	"cardiorisk/internal/services/auth"
	"cardiorisk/internal/services/prediction"
	"cardiorisk/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Dependencies are the shared resources the routes are built from.
type Dependencies struct {
	DB       *gorm.DB
	Cache    *cache.CacheService
	Tokens   *utils.TokenManager
	Registry *prometheus.Registry
}

// Handlers holds everything Mount attaches to the app.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Risk        *handlers.RiskHandler
	Prediction  *handlers.PredictionHandler
	Health      *handlers.HealthHandler
	Metrics     fiber.Handler
	RequireAuth fiber.Handler
}

// SetupRoutes builds the services and handlers and mounts them on app.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	userRepo := repositories.NewUserRepository(deps.DB, deps.Cache)
	predictionRepo := repositories.NewPredictionRepository(deps.DB)

	authService := auth.NewService(userRepo, deps.Tokens)

	// The prediction service treats a nil Cache interface as "no cache".
	var historyCache prediction.Cache
	if deps.Cache != nil {
		historyCache = deps.Cache
	}
	historyConfig := prediction.Config{
		DefaultLimit:    config.GetIntEnv("HISTORY_LIMIT", prediction.DefaultHistoryLimit),
		MaxLimit:        prediction.MaxHistoryLimit,
		HistoryCacheTTL: config.GetDurationEnv("HISTORY_CACHE_TTL", prediction.DefaultHistoryCacheTTL),
	}
	predictionService := prediction.NewService(
		predictionRepo,
		historyCache,
		historyConfig,
		prediction.NewPrometheusCollector(deps.Registry),
	)

	checks := map[string]handlers.HealthCheckFunc{
		"database": repositories.Ping,
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}

	Mount(app, Handlers{
		Auth:        handlers.NewAuthHandler(authService, deps.Tokens.AccessTTL(), deps.Tokens.RefreshTTL()),
		Risk:        handlers.NewRiskHandler(predictionService),
		Prediction:  handlers.NewPredictionHandler(predictionService, historyConfig),
		Health:      handlers.NewHealthHandler(checks),
		Metrics:     observability.MetricsHandler(deps.Registry),
		RequireAuth: middleware.NewAuthMiddleware(authService).Handler,
	})
}

// Mount attaches the routes to app.
func Mount(app *fiber.App, h Handlers) {
	app.Get("/health", h.Health.Check)
	if h.Metrics != nil {
		app.Get("/metrics", h.Metrics)
	}

	api := app.Group("/api")

	// Public routes
	api.Post("/register", authLimiter(), h.Auth.Register)
	api.Post("/login", authLimiter(), h.Auth.Login)
	api.Post("/refresh", h.Auth.RefreshToken)
	api.Post("/risk/score", h.Risk.Score)
	api.Post("/bmi", h.Risk.BMI)
	api.Get("/reference/chest-pain", h.Risk.ChestPainTypes)

	// Authenticated routes
	api.Get("/me", h.RequireAuth, h.Auth.Me)
	api.Post("/logout", h.RequireAuth, h.Auth.Logout)
	api.Post("/change-password", h.RequireAuth,
		middleware.HasPermission(models.PermissionChangePassword), h.Auth.ChangePassword)

	predictions := api.Group("/predictions", h.RequireAuth)
	predictions.Post("/", middleware.HasPermission(models.PermissionPredictionWrite), h.Prediction.Create)
	predictions.Get("/", middleware.HasPermission(models.PermissionPredictionRead), h.Prediction.List)
	predictions.Get("/:id", middleware.HasPermission(models.PermissionPredictionRead), h.Prediction.Get)
	predictions.Delete("/:id", middleware.HasPermission(models.PermissionPredictionWrite), h.Prediction.Delete)

	// Admin routes
	admin := api.Group("/admin", h.RequireAuth, middleware.AdminOnly)
	admin.Get("/predictions", middleware.HasPermission(models.PermissionReadAdmin), h.Prediction.ListAll)
}

// authLimiter caps register and login attempts at 5 per minute per IP.
func authLimiter() fiber.Handler {
	return middleware.RateLimit(5, time.Minute)
}
