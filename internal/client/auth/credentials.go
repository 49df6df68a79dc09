// Package auth holds the bearer credential attached to outgoing remote calls.
package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is safe for concurrent use. The zero value holds no token.
type Credentials struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

func NewCredentials(token string) *Credentials {
	return &Credentials{token: strings.TrimSpace(token), now: time.Now}
}

// Token returns the bearer token if one is set and not known to be expired.
// Tokens that are not JWTs, or carry no exp claim, are returned as is; the
// remote stays the authority on validity.
func (c *Credentials) Token() (string, bool) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token == "" {
		return "", false
	}

	exp, ok := expiry(token)
	if ok && !c.clock()().Before(exp) {
		return "", false
	}
	return token, true
}

func (c *Credentials) Set(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Credentials) Clear() {
	c.Set("")
}

func (c *Credentials) clock() func() time.Time {
	if c.now == nil {
		return time.Now
	}
	return c.now
}

// expiry reads the exp claim without verifying the signature.
func expiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
