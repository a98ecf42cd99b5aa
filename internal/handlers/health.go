package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheckFunc reports whether a dependency is reachable.
type HealthCheckFunc func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheckFunc
	timeout time.Duration
}

func NewHealthHandler(checks map[string]HealthCheckFunc) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Check pings every dependency and answers 503 if any is down
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	status := fiber.StatusOK
	services := fiber.Map{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", "service", name, "error", err)
			services[name] = "unavailable"
			status = fiber.StatusServiceUnavailable
			continue
		}
		services[name] = "connected"
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   overall,
		"services": services,
	})
}
