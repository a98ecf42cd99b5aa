// Package auth registers accounts and issues, refreshes and revokes the
// JWTs that guard prediction history.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cardiorisk/internal/models"
	"cardiorisk/internal/repositories"
	"cardiorisk/internal/utils"
	"cardiorisk/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const statusActive = "active"

type Service interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	// Login checks credentials and issues tokens. remember is carried in
	// the refresh token so later refreshes keep the same cookie lifetime.
	Login(ctx context.Context, email, password string, remember bool) (*models.User, string, string, error)

	// RefreshTokens rotates both tokens and reports whether the session
	// was started with remember me.
	RefreshTokens(ctx context.Context, refreshToken string) (access, refresh string, remember bool, err error)

	Logout(ctx context.Context, userID uint) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)

	// Authenticate validates an access token and checks it has not been
	// revoked by a logout or password change.
	Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error)
}

type service struct {
	userRepo repositories.UserRepository
	tokens   *utils.TokenManager
	cost     int
	now      func() time.Time
}

func NewService(userRepo repositories.UserRepository, tokens *utils.TokenManager) Service {
	if userRepo == nil {
		panic("user repository is required")
	}
	if tokens == nil {
		panic("token manager is required")
	}
	return &service{
		userRepo: userRepo,
		tokens:   tokens,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (s *service) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	v := validation.New()
	v.Email("email", email)
	v.Password("password", password)
	v.MaxLength("name", name, validation.MaxNameLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Password:     string(hashed),
		Name:         name,
		Role:         models.RoleUser,
		Status:       statusActive,
		TokenVersion: 1,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string, remember bool) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		slog.InfoContext(ctx, "login failed: incorrect password", "user_id", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	if user.Status != statusActive {
		return nil, "", "", ErrAccountDisabled
	}

	claims := claimsFor(user)
	claims.Remember = remember
	accessToken, refreshToken, err := s.tokens.GenerateTokens(claims)
	if err != nil {
		return nil, "", "", fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.userRepo.RecordLogin(ctx, user.ID, s.now()); err != nil {
		slog.WarnContext(ctx, "failed to record login", "user_id", user.ID, "error", err)
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, bool, error) {
	claims, err := s.tokens.ParseToken(refreshToken, models.TokenTypeRefresh)
	if err != nil {
		return "", "", false, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByIDUncached(ctx, claims.UserID)
	if err != nil {
		return "", "", false, ErrInvalidRefreshToken
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", false, ErrSessionExpired
	}
	if user.Status != statusActive {
		return "", "", false, ErrAccountDisabled
	}

	next := claimsFor(user)
	next.Remember = claims.Remember
	access, refresh, err := s.tokens.GenerateTokens(next)
	if err != nil {
		return "", "", false, fmt.Errorf("error generating tokens: %w", err)
	}
	return access, refresh, claims.Remember, nil
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.userRepo.IncrementTokenVersion(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByIDUncached(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidOldPassword
	}

	v := validation.New()
	v.Password("new_password", newPassword)
	if err := v.Err(); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Bumps the token version too, invalidating existing tokens
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *service) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *service) Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error) {
	claims, err := s.tokens.ParseToken(accessToken, models.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByIDUncached(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("token user: %w", err)
	}

	if claims.TokenVersion != user.TokenVersion {
		slog.DebugContext(ctx, "token version mismatch",
			"user_id", user.ID, "token", claims.TokenVersion, "current", user.TokenVersion)
		return nil, ErrSessionExpired
	}
	if user.Status != statusActive {
		return nil, ErrAccountDisabled
	}

	return claims, nil
}

func claimsFor(user *models.User) *models.UserClaims {
	return &models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	}
}
