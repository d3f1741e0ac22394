// Package auth mints and parses the session credential: an HS256 JWT bound
// to one account. The embedded token version lets a password reset revoke
// every outstanding session at once, without server-side session state.
package auth

import (
	"errors"
	"time"

	"github.com/Dr-Stone27/Researchub/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the account identity, role, and
// token version the credential was minted for.
type Claims struct {
	jwt.RegisteredClaims
	AccountID    string `json:"account_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// GenerateToken mints a session credential for the account.
func GenerateToken(accountID, role string, tokenVersion int, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		AccountID:    accountID,
		Role:         role,
		TokenVersion: tokenVersion,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and expiry of a session credential and
// returns its claims. Expired tokens yield common.ErrTokenExpired; anything
// else malformed yields common.ErrSessionInvalid.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrSessionInvalid
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, common.ErrSessionInvalid
	}

	return claims, nil
}
