// File: app/app.go
package app

import (
	"context"
	"go-crop-api/config"
	"go-crop-api/db"
	"go-crop-api/handler"
	"go-crop-api/logger"
	"go-crop-api/repository"
	"go-crop-api/router"
	"go-crop-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	cropRepo := repository.NewCropRepository(database)
	caseRepo := repository.NewCaseRepository(database)

	authService := service.NewAuthService(userRepo, tokenRepo)
	userService := service.NewUserService(userRepo)
	cropService := service.NewCropService(cropRepo)
	caseService := service.NewCaseService(caseRepo, cropRepo, redisClient)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	cropHandler := handler.NewCropHandler(cropService)
	caseHandler := handler.NewCaseHandler(caseService)

	r := router.NewRouter(authHandler, userHandler, cropHandler, caseHandler)

	// --- Expired Refresh Token Sweep ---
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepExpiredTokens(sweepCtx, authService)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// sweepExpiredTokens periodically deletes expired refresh tokens so the
// session store does not grow without bound.
func sweepExpiredTokens(ctx context.Context, authService *service.AuthService) {
	interval := time.Duration(config.AppConfig.Auth.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := authService.SweepExpired(ctx)
			if err != nil {
				logger.Log.WithError(err).Error("Expired token sweep failed")
				continue
			}
			if swept > 0 {
				logger.Log.WithField("count", swept).Info("Swept expired refresh tokens")
			}
		}
	}
}
