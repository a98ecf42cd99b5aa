package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSessionExpired      = errors.New("session expired")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrInvalidOldPassword  = errors.New("invalid old password")
)
