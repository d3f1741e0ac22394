// Package common defines shared constants and sentinel errors used across
// the Researchub backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Account lifecycle errors. ErrInvalidCredentials is deliberately
	// generic: it covers unknown identifier, wrong password, unverified
	// accounts, and disabled accounts alike, so a caller cannot tell
	// which case occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	// Token lifecycle errors. ErrTokenExpired is distinguished from
	// ErrInvalidToken so callers can offer "resend" instead of "retry".
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Session credential errors (malformed, revoked, or stale JWTs).
	ErrSessionInvalid = errors.New("invalid session token")
)
