package domain

import "github.com/google/uuid"

// Roles assignable to a user. Movie creation is restricted to admins.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. PasswordHash is a bcrypt hash and
// must never leave the service layer.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	Audit
}

// IsAdmin reports whether the user may perform admin-only operations.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
