package model

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// DefaultUserRate is the personal hourly rate assigned at signup when none is given.
const DefaultUserRate = 50.0

type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	HourlyRate   float64   `db:"hourly_rate" json:"hourly_rate"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}
