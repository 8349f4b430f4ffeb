package domain

import "time"

type User struct {
	ID           string
	Email        string // unique, stored lower-case
	Name         string
	PasswordHash string // argon2 encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
