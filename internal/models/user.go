package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string
	Role         string `gorm:"default:'user'"`
	Status       string `gorm:"default:'active'"`
	LastLoginAt  *time.Time
	TokenVersion int `gorm:"default:1"`
}
