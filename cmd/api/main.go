package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/opsdeck/admin-api/internal/cache"
	"github.com/opsdeck/admin-api/internal/config"
	"github.com/opsdeck/admin-api/internal/database"
	"github.com/opsdeck/admin-api/internal/handler"
	"github.com/opsdeck/admin-api/internal/middleware"
	"github.com/opsdeck/admin-api/internal/repository"
	"github.com/opsdeck/admin-api/internal/service"
	"github.com/opsdeck/admin-api/internal/utils"
)

// main is the application entrypoint for the admin API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting admin api")

	// 3. Configure JWT signing
	utils.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	// 4. Connect MongoDB
	db, err := database.Connect(&cfg.Mongo)
	if err != nil {
		log.Error().Err(err).Msg("mongodb connection failed")
		fmt.Fprintf(os.Stderr, "mongodb connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Disconnect(db); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := database.EnsureIndexes(db); err != nil {
		log.Error().Err(err).Msg("index bootstrap failed")
		fmt.Fprintf(os.Stderr, "index bootstrap failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("mongodb connected, indexes ensured")

	// 5. Connect Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	tokenCache := cache.NewTokenCache(redisClient)

	// 6. Initialize repositories
	adminRepo := repository.NewAdminRepository(db)

	// 7. Initialize services
	adminSvc := service.NewAdminService(adminRepo)
	authSvc := service.NewAuthService(adminRepo, tokenCache)

	// 8. Initialize handlers
	handlers := &Handlers{
		Health: handler.NewHealthHandler(db, redisClient),
		Admin:  handler.NewAdminHandler(adminSvc),
		Auth:   handler.NewAuthHandler(authSvc),
	}

	// 9. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(adminRepo, authSvc)

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health *handler.HealthHandler
	Admin  *handler.AdminHandler
	Auth   *handler.AuthHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/api/health", handlers.Health.GetHealth)

	// Auth routes
	auth := router.Group("/api/auth")
	auth.POST("/login", handlers.Auth.Login)
	auth.POST("/logout", jwtMiddleware.Handle(), handlers.Auth.Logout)

	// Admin management (protected with JWT)
	admins := router.Group("/api/admins")
	admins.Use(jwtMiddleware.Handle())
	{
		admins.GET("", handlers.Admin.ListAdmins)
		admins.GET("/search", handlers.Admin.SearchAdmins)
		admins.GET("/me", handlers.Admin.GetProfile)
		admins.GET("/:id", handlers.Admin.GetAdmin)
		admins.POST("", handlers.Admin.CreateAdmin)
		admins.PUT("/:id", handlers.Admin.UpdateAdmin)
		admins.PUT("/:id/password", handlers.Admin.UpdatePassword)
		admins.DELETE("/:id", handlers.Admin.DeleteAdmin)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
