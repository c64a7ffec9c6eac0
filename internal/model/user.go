package model

import "time"

type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
	RoleOwner      UserRole = "owner"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleInstructor, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// Privileged reports whether the role carries school-wide admin rights.
func (r UserRole) Privileged() bool {
	return r == RoleAdmin || r == RoleOwner
}

type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Phone              string    `json:"phone,omitempty"`
	Role               UserRole  `json:"role"`
	LanguagePreference string    `json:"language_preference"` // en, de, dk
	IsActive           bool      `json:"is_active"`
	PasswordHash       string    `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}
