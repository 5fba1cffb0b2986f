package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"brightnest-properties/internal/middleware"
	"brightnest-properties/pkg/cache"
	"brightnest-properties/pkg/database"
	"brightnest-properties/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "net/http/pprof"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.setupOperationalRoutes()
	a.setupHealthCheck()
	a.setupAPIRoutes()
}

// setupOperationalRoutes exposes metrics and profiling endpoints
func (a *App) setupOperationalRoutes() {
	// Expose pprof profiling endpoints (disable in production)
	if os.Getenv("ENV") != "production" {
		a.Router.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	// Expose Prometheus metrics endpoint
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupHealthCheck configures health check endpoint
func (a *App) setupHealthCheck() {
	a.Router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := database.MongoClient.Ping(ctx, nil); err != nil {
			logger.GlobalLogger.Printf("MongoDB ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "MongoDB unavailable"})
			return
		}

		if _, err := cache.RedisClient.Ping(ctx).Result(); err != nil {
			logger.GlobalLogger.Printf("Redis ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Redis unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	auth := middleware.AuthMiddleware(a.Config.JWT.Secret)

	api := a.Router.Group("/api")
	{
		// Public routes
		api.POST("/register", a.UserHandler.Register)
		api.POST("/login", a.UserHandler.Login)

		// Protected property routes
		properties := api.Group("/properties")
		properties.Use(auth)
		{
			properties.GET("", a.PropertyHandler.GetProperties)
			properties.GET("/:id", a.PropertyHandler.GetPropertyByID)
			properties.GET("/:id/photos", a.PhotoHandler.ListPropertyPhotos)
			properties.POST("", a.PropertyHandler.CreateProperty)
			properties.PUT("/:id", a.PropertyHandler.UpdateProperty)
			properties.DELETE("/:id", a.PropertyHandler.DeleteProperty)
		}

		// Protected photo routes
		photos := api.Group("/photos")
		photos.Use(auth)
		{
			photos.POST("", a.PhotoHandler.RegisterPhoto)
		}

		// Administrative routes
		admin := api.Group("/admin")
		admin.Use(auth)
		{
			admin.POST("/photos/reconcile", a.PhotoHandler.ReconcilePhotos)
		}
	}
}
