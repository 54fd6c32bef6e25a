package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authhttp "inkq/internal/auth/adapter/http"
	"inkq/internal/auth/config"
	"inkq/internal/di"
	apperrors "inkq/internal/shared/errors"
	"inkq/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()

	authConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}

	container := di.NewContainer()
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.Initialize(ctx, authConfig); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	appLogger.Infof("Connected to MongoDB, session backend: %s", authConfig.SessionBackend)

	app := fiber.New(fiber.Config{
		AppName:      "inkq v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				appLogger.Errorf("HTTP error [%s]: %v", appErr.Type, err)
				return c.Status(appErr.HTTPCode).JSON(appErr)
			}
			appLogger.Errorf("HTTP error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(authhttp.RequestID())
	app.Use(authhttp.SecurityHeaders())
	app.Use(authhttp.CORS())

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authModule := container.GetAuthModule()
	authModule.RegisterRoutes(app.Group("/auth"))

	// The gate runs after the bypassed surfaces above are registered, so
	// every page request flows through it.
	app.Use(authModule.Gate())
	appLogger.Info("Auth routes and request gate registered")

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}

		appLogger.Info("HTTP server stopped")
	}
}
