// Package auth verifies bearer credentials against a shared signing secret.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"todo-api/internal/apperr"
)

// Verifier checks HS256-signed tokens against a process-wide secret and
// extracts the subject identifier. It holds no other state.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a Verifier for the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Subject verifies the token's signature and expiry and returns the user
// identifier from the "sub" claim, falling back to "user_id". Any failure is
// an authentication error.
func (v *Verifier) Subject(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", apperr.Authentication("Invalid authentication credentials")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.Authentication("Invalid authentication credentials")
	}
	sub := stringClaim(claims, "sub")
	if sub == "" {
		sub = stringClaim(claims, "user_id")
	}
	if sub == "" {
		return "", apperr.Authentication("Invalid token: no user_id found")
	}
	return sub, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	if v, ok := claims[name].(string); ok {
		return v
	}
	return ""
}
