package main

import (
	"net/http"
	"os"
	"time"

	"brightnest-properties/internal/handlers"
	"brightnest-properties/internal/middleware"
	"brightnest-properties/internal/repositories"
	"brightnest-properties/internal/scheduler"
	"brightnest-properties/internal/services"
	"brightnest-properties/internal/validators"
	"brightnest-properties/pkg/cache"
	"brightnest-properties/pkg/config"
	"brightnest-properties/pkg/database"
	"brightnest-properties/pkg/logger"
	"brightnest-properties/pkg/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// App holds the wired application: infrastructure, services, handlers
// and the HTTP server.
type App struct {
	Config          *config.Config
	Router          *gin.Engine
	PropertyHandler *handlers.PropertyHandler
	PhotoHandler    *handlers.PhotoHandler
	UserHandler     *handlers.UserHandler
	RateLimiter     *middleware.RateLimiter
	Scheduler       *scheduler.Scheduler
	Server          *http.Server
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	app := &App{Config: cfg}

	// Initialize infrastructure
	app.initializeDatabase()
	app.initializeCache()
	app.initializeMetrics()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// initialize the database connection
func (a *App) initializeDatabase() {
	if err := database.InitDB(a.Config); err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
}

// initialize the Redis connection for the ownership cache
func (a *App) initializeCache() {
	if err := cache.InitRedis(a.Config); err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(rate.Limit(100/60.0), 10)
	a.RateLimiter.Cleanup(10 * time.Minute)
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	// repositories
	propertyRepo := repositories.NewPropertyRepository()
	photoRepo := repositories.NewPhotoRepository()
	userRepo := repositories.NewUserRepository()
	ownershipCache := repositories.NewOwnershipCache()

	// the in-process read cache for property details and listings
	propertyCache := cache.NewTTLCache()

	// validators
	propertyValidator := validators.NewPropertyValidator()
	photoValidator := validators.NewPhotoValidator()
	userValidator := validators.NewUserValidator()

	// services
	propertyService := services.NewPropertyService(
		propertyRepo, photoRepo, propertyCache, ownershipCache, propertyValidator,
		a.Config.Cache.DetailTTL, a.Config.Cache.ListingTTL,
	)
	photoService := services.NewPhotoService(photoRepo, photoValidator)
	reconciler := services.NewPhotoReconciler(photoRepo, propertyRepo, a.Config.Reconciler.BatchSize)
	userService := services.NewUserService(userRepo, userValidator, a.Config.JWT.Secret)

	// handlers
	a.PropertyHandler = handlers.NewPropertyHandler(propertyService)
	a.PhotoHandler = handlers.NewPhotoHandler(photoService, reconciler)
	a.UserHandler = handlers.NewUserHandler(userService)

	// background sweep
	a.Scheduler = scheduler.NewScheduler(reconciler, a.Config)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	a.Scheduler.Stop()
	database.CloseDB()
	cache.CloseRedis()
}
