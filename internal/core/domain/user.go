package domain

import (
	"strings"
	"time"
)

// Role is the closed set of permission classes a user may hold.
// There is no hierarchy: admin is only allowed where explicitly listed.
type Role string

const (
	RoleStudent       Role = "student"
	RoleTeacher       Role = "teacher"
	RoleInstructor    Role = "instructor"
	RoleBusinessOwner Role = "business_owner"
	RoleMentor        Role = "mentor"
	RoleAdmin         Role = "admin"
)

// Valid reports whether r is a member of the role enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleInstructor, RoleBusinessOwner, RoleMentor, RoleAdmin:
		return true
	}
	return false
}

// NormalizeEmail canonicalizes an email address for storage, lookup, and
// throttling. Every component keying on an email must go through this so a
// case or whitespace variant cannot address a different bucket.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User models an account on the driving-school platform.
// The password hash never serializes outward.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone,omitempty"`
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	IsVerified     bool      `json:"is_verified"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
