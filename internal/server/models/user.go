package models

import "time"

// User is a registered account. PasswordHash is the bcrypt digest, never
// the raw password.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
