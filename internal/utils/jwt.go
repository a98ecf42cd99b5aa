package utils

import (
	"errors"
	"strconv"
	"time"

	"cardiorisk/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "cardiorisk-api"

// Default token lifetimes
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	ErrMissingSecret     = errors.New("jwt secret not configured")
	ErrInvalidToken      = errors.New("invalid token")
	ErrWrongTokenType    = errors.New("wrong token type")
	errUnexpectedSigning = errors.New("unexpected signing method")
)

// TokenManager issues and verifies HS256 tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager creates a TokenManager. Zero TTLs use the defaults.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// AccessTTL returns the lifetime of access tokens.
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL returns the lifetime of refresh tokens.
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// GenerateTokens generates an access token and a refresh token for the given user claims.
func (m *TokenManager) GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	now := m.now()

	accessClaims := *claims
	accessClaims.TokenType = models.TokenTypeAccess
	accessClaims.RegisteredClaims = m.registered(claims.UserID, now, m.accessTTL)
	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(m.secret)
	if err != nil {
		return "", "", err
	}

	// Refresh tokens carry no permissions; they are re-derived on refresh.
	refreshClaims := models.UserClaims{
		RegisteredClaims: m.registered(claims.UserID, now, m.refreshTTL),
		UserID:           claims.UserID,
		Email:            claims.Email,
		Role:             claims.Role,
		TokenVersion:     claims.TokenVersion,
		TokenType:        models.TokenTypeRefresh,
		Remember:         claims.Remember,
	}
	refreshToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(m.secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ParseToken parses and validates a JWT token string of the wanted type.
func (m *TokenManager) ParseToken(tokenStr, tokenType string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigning
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

func (m *TokenManager) registered(userID uint, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
	}
}
