package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User models a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// DefaultRoles is assigned to every newly registered user.
func DefaultRoles() []string {
	return []string{RoleUser}
}
