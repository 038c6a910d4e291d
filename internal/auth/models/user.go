package models

import (
	"time"

	"github.com/google/uuid"
)

// Role enumerates the authorization roles a user can hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the authentication principal. It exists independently of the
// insurance domain entities; an Owner is not a User.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Email        string
	Role         Role
	CreatedAt    time.Time
}
