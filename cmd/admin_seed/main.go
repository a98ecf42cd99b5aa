package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"cardiorisk/internal/config"
	"cardiorisk/internal/models"
	"cardiorisk/internal/observability"
	"cardiorisk/internal/repositories"
	"cardiorisk/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()
	observability.InitLogger(observability.LogConfig{Level: config.GetEnv("LOG_LEVEL", "info")})

	if err := seed(context.Background()); err != nil {
		slog.Error("admin seed failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(config.GetEnv("ADMIN_EMAIL", "")))
	password := config.GetEnv("ADMIN_PASSWORD", "")

	v := validation.New()
	v.Email("ADMIN_EMAIL", email)
	v.Password("ADMIN_PASSWORD", password)
	if err := v.Err(); err != nil {
		return err
	}

	if err := repositories.InitDB(); err != nil {
		return err
	}
	defer repositories.Close()

	users := repositories.NewUserRepository(repositories.DB, repositories.CacheService)

	if _, err := users.GetByEmail(ctx, email); err == nil {
		slog.Info("admin user already exists", "email", email)
		return nil
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		Password:     string(hashed),
		Name:         "Administrator",
		Role:         models.RoleAdmin,
		Status:       "active",
		TokenVersion: 1,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	slog.Info("admin account created", "user_id", admin.ID)
	return nil
}
