package sdk

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the client-side session record: the opaque backend
// token together with the identity it was issued for. Both fields live
// in a single document so a reader never observes one without the
// other.
type Credentials struct {
	Token    string    `json:"token"`
	Identity Identity  `json:"identity"`
	SavedAt  time.Time `json:"saved_at"`
}

// IsExpired peeks at the token's exp claim without verifying the
// signature (verification is the backend's job; this is a local
// shortcut that avoids a round trip for a token that cannot be
// accepted anymore). Tokens without a parseable exp claim are never
// treated as expired.
func (c *Credentials) IsExpired(now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}

// CredentialStore persists and restores the session record on the
// client device. Save must be atomic with respect to the whole record;
// Load must return (nil, nil) for an absent, corrupted, or partially
// written record rather than failing.
type CredentialStore interface {
	Save(creds *Credentials) error
	Load() (*Credentials, error)
	Clear() error
}
