package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the closed set of roles known to the system.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleLandlord UserRole = "landlord"
	RoleTenant   UserRole = "tenant"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleLandlord, RoleTenant:
		return true
	}
	return false
}

// User represents an account in the marketplace.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Email         string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PhoneNumber   string     `gorm:"size:30" json:"phone_number"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	Role          UserRole   `gorm:"size:20;not null" json:"role"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
