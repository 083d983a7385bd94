package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/marketrent/rentroll-server/src/config"
	"github.com/marketrent/rentroll-server/src/database"
	"github.com/marketrent/rentroll-server/src/handlers"
	"github.com/marketrent/rentroll-server/src/logging"
	"github.com/marketrent/rentroll-server/src/metrics"
	"github.com/marketrent/rentroll-server/src/middleware"
	"github.com/marketrent/rentroll-server/src/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	// Initialize structured logging
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Info().
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Msg("starting server")

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Msg("database connected")

	// Initialize JWT secret in middleware
	if err := middleware.SetJWTSecret(cfg.JWTSecret); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize JWT secret")
	}

	// Initialize services
	adminService := services.NewAdminService(db.GetPool())
	shopService := services.NewShopService(db.GetPool())

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	setupRoutes(router, db, adminService, shopService)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shut down successfully")
}

func setupRoutes(router *gin.Engine, db *database.Database, adminService *services.AdminService, shopService *services.ShopService) {
	healthHandler := handlers.NewHealthHandler(db)
	adminHandler := handlers.NewAdminHandler(adminService)
	shopHandler := handlers.NewShopHandler(shopService)

	// Health check endpoints
	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/ready", healthHandler.HandleReady)
	router.GET("/info", healthHandler.HandleInfo)

	// Prometheus exposition
	router.GET("/metrics", metrics.Handler())

	// Admin authentication endpoints, rate limited per client IP
	adminGroup := router.Group("/admin")
	adminGroup.Use(middleware.AuthRateLimitMiddleware())
	{
		adminGroup.POST("/register", adminHandler.HandleRegister)
		adminGroup.POST("/login", adminHandler.HandleLogin)
	}

	// Shop endpoints (all require a valid bearer token)
	shopGroup := router.Group("/shops")
	shopGroup.Use(middleware.AdminAuthMiddleware())
	{
		shopGroup.GET("", shopHandler.HandleListShops)
		shopGroup.POST("", shopHandler.HandleCreateShop)
		shopGroup.PUT("/:id", shopHandler.HandleUpdateShop)
		shopGroup.DELETE("/:id", shopHandler.HandleDeleteShop)
	}
}

// corsConfig allows the configured origins, or any origin when none are set
func corsConfig(allowedOrigins string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	if allowedOrigins == "" {
		c.AllowAllOrigins = true
		return c
	}

	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			c.AllowOrigins = append(c.AllowOrigins, origin)
		}
	}
	c.AllowCredentials = true
	return c
}
