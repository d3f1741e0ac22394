// Package models defines server-side data models persisted in the database.
package models

import "time"

// AccountStatus is the lifecycle state of an account. Transitions are
// one-directional: pending -> active (email verification) and
// active -> disabled (administrative).
type AccountStatus string

const (
	AccountPending  AccountStatus = "pending"
	AccountActive   AccountStatus = "active"
	AccountDisabled AccountStatus = "disabled"
)

// Departments is the fixed set of faculty departments accepted at
// registration.
var Departments = []string{
	"Civil Engineering",
	"Mechanical Engineering",
	"Electrical/Electronics Engineering",
	"Chemical Engineering",
	"Computer Engineering",
	"Metallurgical and Materials Engineering",
	"Petroleum and Gas Engineering",
	"Surveying and Geoinformatics",
	"Systems Engineering",
	"Biomedical Engineering",
}

// ValidDepartment reports whether dep is one of the accepted departments.
func ValidDepartment(dep string) bool {
	for _, d := range Departments {
		if d == dep {
			return true
		}
	}
	return false
}

// Account represents one registrant. The password is stored only as an
// argon2id digest; the verification and reset token pairs are present only
// while the corresponding flow is outstanding.
type Account struct {
	ID                string
	Name              string
	Email             string
	MatricOrFacultyID string
	Department        string
	PasswordHash      string
	Role              string

	IsActive   bool
	IsVerified bool
	Status     AccountStatus

	VerificationToken        *string
	VerificationTokenExpiry  *time.Time
	PasswordResetToken       *string
	PasswordResetTokenExpiry *time.Time

	// FirstLogin is set once on the first successful login and immutable
	// thereafter; LastLogin is updated on every successful login.
	FirstLogin *time.Time
	LastLogin  *time.Time

	// TokenVersion is embedded in session JWTs; bumping it on password
	// reset invalidates every outstanding session credential.
	TokenVersion int

	CreatedAt time.Time
	UpdatedAt time.Time
}
