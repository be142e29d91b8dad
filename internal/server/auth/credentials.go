// Package auth holds the credential primitives of the server: password
// hashing, session token signing and the request-context user id.
package auth

import (
	"sync"
	"time"
)

// Credentials pairs the password hasher with the token manager.
type Credentials struct {
	hasher Hasher
	tokens *TokenManager

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentials(hasher Hasher, tokens *TokenManager) *Credentials {
	return &Credentials{hasher: hasher, tokens: tokens}
}

func (c *Credentials) HashPassword(password string) (string, error) {
	return c.hasher.Hash(password)
}

// CheckPassword returns ErrMismatch when password does not match hash. An
// empty hash still costs one hash comparison, so unknown accounts take
// roughly as long to reject as known ones.
func (c *Credentials) CheckPassword(hash, password string) error {
	if hash == "" {
		c.dummyOnce.Do(func() {
			c.dummyHash, _ = c.hasher.Hash("notekeeper-dummy-password")
		})
		_ = CompareAny(c.dummyHash, password)
		return ErrMismatch
	}
	return CompareAny(hash, password)
}

func (c *Credentials) IssueToken(userID string) (string, time.Time, error) {
	return c.tokens.Issue(userID)
}

func (c *Credentials) VerifyToken(token string) (string, error) {
	return c.tokens.Verify(token)
}
