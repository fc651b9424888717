// Package model defines the data structures used throughout the application.
// These are the storage-side shapes: the handler package owns the separate
// view types that are serialized to clients.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Role decides which operations a user may perform.
type Role string

const (
	// RoleApplicant may submit applications and track their own.
	RoleApplicant Role = "applicant"
	// RoleCompany may post jobs and review applications to its own jobs.
	RoleCompany Role = "company"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleApplicant || r == RoleCompany
}

// User represents a registered account.
//
// WHY uuid.UUID AND NOT A STRING?
// IDs arrive from clients as text (JSON bodies, multipart fields, URL params).
// Parsing them into uuid.UUID at the edge means a malformed ID fails early
// with a validation error instead of silently matching nothing in the DB.
//
// PasswordHash is the bcrypt output. It is tagged json:"-" so that even an
// accidental json.Marshal of a User never leaks it.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
