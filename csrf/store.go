// Package csrf holds the single-use replay tokens bound to a session.
//
// A session has at most one live token. Consume destroys the live token on
// every call, match or not, so a rejected attempt cannot be retried with the
// same token.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrNoSession is returned by Issue when the request carries no session.
var ErrNoSession = errors.New("csrf: no session")

// Store issues and consumes replay tokens keyed by session ID.
type Store interface {
	// Issue mints a token for sessionID, replacing any live one.
	Issue(ctx context.Context, sessionID string) (string, error)
	// Consume reports whether presented equals the live token of sessionID
	// and destroys that token regardless of the outcome.
	Consume(ctx context.Context, sessionID, presented string) bool
}

const tokenBytes = 32

// generateToken returns a random url-safe token
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// matches compares in constant time; an empty value never matches.
func matches(live, presented string) bool {
	if live == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(live), []byte(presented)) == 1
}
