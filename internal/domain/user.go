package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a user account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User represents an account. PasswordHash is write-only: repositories
// omit it from default reads and only a dedicated credential lookup
// includes it.
type User struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	Role            Role       `json:"role" db:"role"`
	Phone           string     `json:"phone" db:"phone"`
	Address         string     `json:"address" db:"address"`
	Avatar          *Image     `json:"avatar" db:"avatar"`
	DateOfBirth     *time.Time `json:"dateOfBirth" db:"date_of_birth"`
	Gender          string     `json:"gender" db:"gender"`
	IsActive        bool       `json:"isActive" db:"is_active"`
	IsEmailVerified bool       `json:"isEmailVerified" db:"is_email_verified"`
	LastLogin       *time.Time `json:"lastLogin" db:"last_login"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// NormalizeEmail lowercases and trims an email so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Identity is the caller resolved from a bearer token for the duration of
// one request. A nil *Identity means the request is anonymous.
type Identity struct {
	ID              uuid.UUID
	Email           string
	Name            string
	Role            Role
	IsActive        bool
	IsEmailVerified bool
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
