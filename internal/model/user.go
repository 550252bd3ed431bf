package model

import (
	"slices"
	"time"
)

// RoleAdmin grants elevated read, approve and manage capability across all entities.
const RoleAdmin = "admin"

// Profile is a user account.
type Profile struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	PasswordHash    string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UserWithRoles is a profile together with its role labels.
type UserWithRoles struct {
	Profile
	Roles []string `json:"roles"`
}

// Actor is the authenticated caller of an operation. TokenID identifies the
// session token so it can be revoked on sign-out.
type Actor struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Roles     []string  `json:"roles"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return slices.Contains(a.Roles, RoleAdmin)
}

// Owns reports whether ownerID belongs to the actor.
func (a Actor) Owns(ownerID string) bool {
	return a.UserID != "" && a.UserID == ownerID
}

// CanManage reports whether the actor may mutate a row owned by ownerID.
func (a Actor) CanManage(ownerID string) bool {
	return a.Owns(ownerID) || a.IsAdmin()
}
