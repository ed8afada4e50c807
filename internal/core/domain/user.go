package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput reports client input the service cannot act on even
	// though it passed request validation (e.g. a password bcrypt cannot hash).
	ErrInvalidInput = errors.New("invalid input")
)

// User is the sole account entity. Email is deliberately not unique.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
