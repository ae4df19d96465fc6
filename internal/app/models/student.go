package models

import "time"

// Student is an account holder of the tutoring center
type Student struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Name         string    `json:"name" db:"name" example:"Ada Lovelace"`
	Email        string    `json:"email" db:"email" example:"ada@example.com"`
	PasswordHash string    `json:"-" db:"password_hash"`
	PhotoURL     *string   `json:"photoUrl,omitempty" db:"photo_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
