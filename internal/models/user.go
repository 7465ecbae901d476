// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"
)

// Role represents an admin user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// User represents an admin account with authentication and login bookkeeping.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never serialize the hash
	Role         Role         `json:"role"`
	Permissions  []string     `json:"permissions"`
	TOTPSecret   *string      `json:"-"` // Nullable; set during 2FA enrollment
	TOTPEnabled  bool         `json:"totp_enabled"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	LastLoginIP  *string      `json:"last_login_ip,omitempty"`
	LoginCount   int          `json:"login_count"`
	Status       RecordStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
