// Package main is the entry point for the risk assessment API.
// It loads configuration, connects to PostgreSQL and Redis, mounts the
// routes and serves until interrupted.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cardiorisk/internal/config"
	"cardiorisk/internal/observability"
	"cardiorisk/internal/repositories"
	"cardiorisk/internal/routes"
	"cardiorisk/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	config.LoadEnv()

	observability.InitLogger(observability.LogConfig{
		Level:  config.GetEnv("LOG_LEVEL", "info"),
		Format: config.GetEnv("LOG_FORMAT", "text"),
	})

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	tokens, err := utils.NewTokenManager(
		config.GetEnv("JWT_SECRET", ""),
		config.GetDurationEnv("JWT_ACCESS_TTL", utils.DefaultAccessTTL),
		config.GetDurationEnv("JWT_REFRESH_TTL", utils.DefaultRefreshTTL),
	)
	if err != nil {
		return err
	}

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(); err != nil {
		return err
	}
	defer repositories.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repositories.StartPoolMonitor(ctx, time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      "cardiorisk",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(corsConfig()))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		DB:       repositories.DB,
		Cache:    repositories.CacheService,
		Tokens:   tokens,
		Registry: observability.NewRegistry(),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + config.GetEnv("PORT", "3000")
		slog.Info("listening", "addr", addr, "env", config.GetEnv("ENV", "development"))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

// corsConfig allows the origins listed in CORS_ORIGINS. Credentials are
// allowed, so the list must be explicit.
func corsConfig() cors.Config {
	origins := config.GetListEnv("CORS_ORIGINS", []string{"http://localhost:5173"})
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}
}
