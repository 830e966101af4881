package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the subset of access token claims the client cares about.
// The signature is never checked here: the API server is the only party
// that can verify the token, the client only reads it.
type Claims struct {
	Subject   string
	Issuer    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time // Zero when the token carries no exp claim
}

// Expired reports whether the token is past its exp claim. Tokens without
// an exp claim never expire from the client's point of view.
func (c Claims) Expired() bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !NowTimeFunc().Before(c.ExpiresAt)
}

// ExpiresIn is the time left before expiry, zero once expired or when unknown.
func (c Claims) ExpiresIn() time.Duration {
	if c.ExpiresAt.IsZero() {
		return 0
	}
	left := c.ExpiresAt.Sub(NowTimeFunc())
	if left < 0 {
		return 0
	}
	return left
}

// Inspect decodes an access token without verifying its signature.
func Inspect(rawToken string) (Claims, error) {
	rawToken = strings.TrimSpace(strings.TrimPrefix(rawToken, "Bearer "))
	if rawToken == "" {
		return Claims{}, errors.ErrInvalidToken
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	mc, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, errors.ErrInvalidToken
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	c.Issuer, _ = mc.GetIssuer()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	// The LMS backend puts the user id under "id" or "userId" rather than "sub"
	if c.Subject == "" {
		c.Subject = stringClaim(mc, "userId", "id", "uid")
	}
	c.Role = stringClaim(mc, "role")
	return c, nil
}

func stringClaim(mc jwtlib.MapClaims, names ...string) string {
	for _, name := range names {
		if v, ok := mc[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
