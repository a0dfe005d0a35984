package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a portal session stays valid after login.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims are the session-token claims. Role and Email are informational:
// the server re-reads both from the user record on every request.
type Claims struct {
	jwt.RegisteredClaims

	// Role held at the moment the token was minted.
	Role string `json:"role,omitempty"`

	Email string `json:"email,omitempty"`

	// Authentication Methods Reference ["pwd"] or ["pwd","otp"].
	AMR []string `json:"amr,omitempty"`
}

// SessionParams describes a session token to mint.
type SessionParams struct {
	Subject  string
	Role     string
	Email    string
	AMR      []string
	Issuer   string
	Audience []string
	TTL      time.Duration // DefaultSessionTTL when zero
	Now      time.Time
}

// NewSessionClaims builds the claims for a freshly authenticated session.
func NewSessionClaims(p SessionParams) Claims {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings(p.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role:  p.Role,
		Email: p.Email,
		AMR:   p.AMR,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer. An empty expectation accepts any.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience passes when any expected audience is present, or when
// nothing is expected.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry checks exp and nbf against now, allowing leeway of clock
// skew either side.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
