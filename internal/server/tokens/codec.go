// Package tokens implements the purpose-bound token codec used by the email
// verification and password reset flows. A token is 32 random bytes, hex
// encoded, stored on exactly one account row in the column pair matching its
// purpose. Validation never consumes a token: consumption is a conditional
// database update performed by the caller atomically with the state change
// the token authorizes.
package tokens

import (
	"crypto/subtle"
	"time"

	"github.com/Dr-Stone27/Researchub/internal/common"
)

// Purpose names the single operation a token is valid for. Tokens are never
// interchangeable between purposes because each purpose is stored in its own
// column pair.
type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

const tokenBytes = 32

// Codec issues and validates time-limited single-purpose tokens. Lifetimes
// are fixed per purpose and supplied by configuration.
type Codec struct {
	verificationTTL time.Duration
	resetTTL        time.Duration

	// now is a seam for tests.
	now func() time.Time
}

// NewCodec constructs a Codec with the given per-purpose lifetimes.
func NewCodec(verificationTTL, resetTTL time.Duration) *Codec {
	return &Codec{
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
		now:             time.Now,
	}
}

// Issue generates a fresh token for the given purpose and returns it with
// its expiry timestamp.
func (c *Codec) Issue(purpose Purpose) (string, time.Time, error) {
	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, c.now().Add(c.ttl(purpose)), nil
}

// Check validates a presented token against the stored token and expiry of
// an account row. It returns common.ErrInvalidToken when no token is
// outstanding or the values do not match, and common.ErrTokenExpired when
// the token matches but its expiry has passed. The comparison is
// constant-time.
func (c *Codec) Check(stored *string, expiry *time.Time, presented string) error {
	if stored == nil || presented == "" {
		return common.ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) != 1 {
		return common.ErrInvalidToken
	}
	if expiry == nil || c.now().After(*expiry) {
		return common.ErrTokenExpired
	}
	return nil
}

func (c *Codec) ttl(purpose Purpose) time.Duration {
	if purpose == PurposePasswordReset {
		return c.resetTTL
	}
	return c.verificationTTL
}
