package models

import "time"

// Role is the closed set of roles a user can hold. Authorization decisions
// switch exhaustively on this type so an unknown role never grants access.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleExpert  Role = "expert"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleExpert:
		return true
	}
	return false
}

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        *string    `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Superuser    bool       `json:"-"`
	DateJoined   time.Time  `json:"date_joined"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Capabilities is the privilege view of an identity, resolved once at
// authentication time rather than re-derived per check. An operational
// superuser account satisfies the admin capability regardless of role.
type Capabilities struct {
	IsAdmin   bool `json:"is_admin"`
	IsManager bool `json:"is_manager"`
}

// Principal is an authenticated caller: the stored user plus its resolved
// capabilities. Every service operation takes the principal explicitly.
type Principal struct {
	User User         `json:"user"`
	Caps Capabilities `json:"capabilities"`
}

// ResolveCapabilities derives the capability flags for a user. Admin implies
// every manager capability; manager does not imply admin.
func ResolveCapabilities(u User) Capabilities {
	isAdmin := u.Role == RoleAdmin || u.Superuser
	return Capabilities{
		IsAdmin:   isAdmin,
		IsManager: isAdmin || u.Role == RoleManager,
	}
}
