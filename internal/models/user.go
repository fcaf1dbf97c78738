package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Every bill, note and learned word is scoped
// to its owning user's ID.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser creates a user with a fresh id and creation timestamp.
func NewUser(email, passwordHash string) *User {
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
