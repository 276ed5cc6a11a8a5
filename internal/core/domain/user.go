package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account types in the marketplace.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

var ErrInvalidRole = errors.New("invalid role")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("email or password is wrong")
var ErrInvalidPassword = errors.New("invalid password")

// ParseRole validates a raw role string against the closed enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBuyer, RoleSeller:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// User models a registered buyer or seller account. The password hash is
// never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
