package models

import "time"

// Roles accepted in the `role` column and in JWT claims.
const (
	RoleAdmin   = "Admin"
	RoleDoctor  = "Doctor"
	RolePatient = "Patient"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username     string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;not null" json:"role"`

	// Blacklisted accounts cannot log in and are hidden from every
	// patient-facing browsing and booking path.
	IsBlacklisted bool `gorm:"default:false" json:"is_blacklisted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
