package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a system-wide role
type Role string

const (
	// RoleUser is the ordinary role assigned at signup and at
	// invitation-acceptance time
	RoleUser Role = "user"
	// RoleSystemAdmin grants every capability in pkg/rbac
	RoleSystemAdmin Role = "admin"
)

// User represents a user account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose the hash
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsSystemAdmin reports whether the user carries the system-admin role.
// A nil user is never an admin.
func (u *User) IsSystemAdmin() bool {
	return u != nil && u.Role == RoleSystemAdmin
}

// TokenPair is the session credential minted at login: a short-lived access
// token and a longer-lived refresh token
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
