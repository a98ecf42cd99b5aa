package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"cardiorisk/internal/config"
	"cardiorisk/internal/middleware"
	"cardiorisk/internal/models"
	"cardiorisk/internal/services/auth"
	"cardiorisk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthHandler(authService auth.Service, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

// Register creates a user account
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	user, err := h.authService.Register(c.UserContext(), input.Email, input.Password, input.Name)
	if err != nil {
		if handled, resp := fieldErrors(c, err); handled {
			return resp
		}
		if errors.Is(err, auth.ErrEmailTaken) {
			return utils.Conflict(c, "Email already registered")
		}
		slog.ErrorContext(c.UserContext(), "registration failed", "error", err)
		return utils.InternalError(c, "Registration failed")
	}

	return utils.Created(c, fiber.Map{"user": userView(user)})
}

// Login handles user authentication and returns JWT tokens
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		RememberMe bool   `json:"remember_me"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.UserContext(), input.Email, input.Password, input.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return utils.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, auth.ErrAccountDisabled):
			return utils.Forbidden(c, "Account disabled")
		}
		slog.ErrorContext(c.UserContext(), "login failed", "error", err)
		return utils.InternalError(c, "Authentication failed")
	}

	h.setAuthCookies(c, accessToken, refreshToken, input.RememberMe)

	return utils.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          userView(user),
	})
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies(middleware.RefreshTokenCookie)
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err != nil {
			return utils.Unauthorized(c, "Refresh token not provided")
		}
		refreshToken = input.RefreshToken
	}
	if refreshToken == "" {
		return utils.Unauthorized(c, "Refresh token not provided")
	}

	newAccessToken, newRefreshToken, remember, err := h.authService.RefreshTokens(c.UserContext(), refreshToken)
	if err != nil {
		slog.InfoContext(c.UserContext(), "token refresh failed", "error", err)
		if errors.Is(err, auth.ErrSessionExpired) {
			return utils.Unauthorized(c, "Session expired")
		}
		return utils.Unauthorized(c, "Invalid refresh token")
	}

	h.setAuthCookies(c, newAccessToken, newRefreshToken, remember)

	return utils.Success(c, fiber.Map{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// Logout revokes every outstanding token for the caller
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.authService.Logout(c.UserContext(), claims.UserID); err != nil {
		slog.ErrorContext(c.UserContext(), "logout failed", "user_id", claims.UserID, "error", err)
		return utils.InternalError(c, "Failed to logout")
	}

	h.clearAuthCookies(c)
	return utils.Success(c, fiber.Map{"message": "Successfully logged out"})
}

// Me returns the caller's account
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	user, err := h.authService.GetUserByID(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}
	return utils.Success(c, fiber.Map{"user": userView(user)})
}

// ChangePassword handles password change requests
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.authService.ChangePassword(c.UserContext(), claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		if handled, resp := fieldErrors(c, err); handled {
			return resp
		}
		if errors.Is(err, auth.ErrInvalidOldPassword) {
			return utils.BadRequest(c, "Invalid old password")
		}
		slog.ErrorContext(c.UserContext(), "password change failed", "user_id", claims.UserID, "error", err)
		return utils.InternalError(c, "Failed to change password")
	}

	h.clearAuthCookies(c)
	return utils.Success(c, fiber.Map{"message": "Password changed successfully"})
}

// Without remember me the cookies last for the browser session only.
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, remember bool) {
	access := authCookie(middleware.AccessTokenCookie, accessToken)
	refresh := authCookie(middleware.RefreshTokenCookie, refreshToken)
	if remember {
		access.MaxAge = int(h.accessTTL.Seconds())
		refresh.MaxAge = int(h.refreshTTL.Seconds())
	} else {
		access.SessionOnly = true
		refresh.SessionOnly = true
	}
	c.Cookie(access)
	c.Cookie(refresh)
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		cookie := authCookie(name, "")
		cookie.Expires = time.Now().Add(-time.Hour)
		c.Cookie(cookie)
	}
}

func authCookie(name, value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

func userView(user *models.User) fiber.Map {
	return fiber.Map{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"role":          user.Role,
		"permissions":   models.GetDefaultPermissions(user.Role),
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	}
}
