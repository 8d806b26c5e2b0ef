package model

import "time"

// Role is the access role attached to every user.
type Role string

const (
	RoleOps    Role = "ops"
	RoleClient Role = "client"
)

// RoleFromFlag maps the persisted is_ops_user flag to a Role.
func RoleFromFlag(isOps bool) Role {
	if isOps {
		return RoleOps
	}
	return RoleClient
}

// User is an account identified by its email address.
// Ops users are active immediately; client users become active after e-mail verification.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	IsActive     bool       `json:"-"`
	Role         Role       `json:"-"`
	LastLogin    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"-"`
}
