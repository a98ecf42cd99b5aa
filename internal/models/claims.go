package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionPredictionRead  = "prediction:read"
	PermissionPredictionWrite = "prediction:write"
	PermissionChangePassword  = "user:change-password"
	PermissionReadAdmin       = "admin:read"
)

// Token kinds
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
	TokenType    string   `json:"token_type"`

	// Remember marks a session that should outlive the browser.
	Remember bool `json:"remember,omitempty"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionPredictionRead,
			PermissionPredictionWrite,
			PermissionChangePassword,
			PermissionReadAdmin,
		}
	case RoleUser:
		return []string{
			PermissionPredictionRead,
			PermissionPredictionWrite,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
