// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account. Records are immutable once created.
// PasswordHash holds a hex SHA-256 digest or a PHC-encoded Argon2id hash,
// never the plaintext password.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
