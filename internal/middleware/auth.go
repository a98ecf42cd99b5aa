// Package middleware provides HTTP middleware components for the application.
// It includes authentication and authorization middleware for the fiber web
// framework.
package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"cardiorisk/internal/models"
	"cardiorisk/internal/services/auth"

	"github.com/gofiber/fiber/v2"
)

// Cookie names used for browser sessions
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// AuthMiddleware handles JWT token validation and user authentication.
// It reads the access token from the Authorization header, falling back
// to the access token cookie, and adds the user claims to the request
// context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler rejects requests without a valid, unrevoked access token.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	tokenString, err := bearerToken(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	claims, err := m.authService.Authenticate(c.UserContext(), tokenString)
	if err != nil {
		slog.DebugContext(c.UserContext(), "authentication failed", "path", c.Path(), "error", err)
		msg := "invalid token"
		if errors.Is(err, auth.ErrSessionExpired) {
			msg = "session expired"
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
	}

	c.Locals("claims", claims)

	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
			return cookie, nil
		}
		return "", errors.New("missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("invalid authorization format")
	}
	return strings.TrimPrefix(authHeader, "Bearer "), nil
}

// AdminOnly verifies that the request has valid admin claims.
func AdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if claims.Role != models.RoleAdmin {
		slog.InfoContext(c.UserContext(), "admin access denied", "user_id", claims.UserID, "role", claims.Role)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		// Admins hold every permission
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}
