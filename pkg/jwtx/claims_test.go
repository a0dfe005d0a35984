package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/hoaportal/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewSessionClaims(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("PHT", 8*3600))

	c := jwtx.NewSessionClaims(jwtx.SessionParams{
		Subject:  "01HQ7T0000000000000000000A",
		Role:     "homeowner",
		Email:    "maria@example.com",
		AMR:      []string{"pwd"},
		Issuer:   "https://hoa.example.com",
		Audience: []string{"hoaportal"},
		Now:      now,
	})

	require.Equal(t, "01HQ7T0000000000000000000A", c.Subject)
	require.Equal(t, "homeowner", c.Role)
	require.Equal(t, []string{"pwd"}, c.AMR)
	require.Equal(t, jwt.ClaimStrings{"hoaportal"}, c.Audience)
	require.Equal(t, time.UTC, c.IssuedAt.Location())
	require.True(t, c.IssuedAt.Equal(now))
	require.True(t, c.ExpiresAt.Equal(now.Add(jwtx.DefaultSessionTTL)))
	require.NotEmpty(t, c.ID)

	other := jwtx.NewSessionClaims(jwtx.SessionParams{Subject: "x", Now: now, TTL: time.Hour})
	require.NotEqual(t, c.ID, other.ID)
	require.True(t, other.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestClaimsValidateIssuer(t *testing.T) {
	c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "https://hoa.example.com"}}

	require.NoError(t, c.ValidateIssuer(""))
	require.NoError(t, c.ValidateIssuer("https://hoa.example.com"))
	require.ErrorIs(t, c.ValidateIssuer("https://other.example.com"), jwtx.ErrIssuer)
}

func TestClaimsValidateAudience(t *testing.T) {
	c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Audience: jwt.ClaimStrings{"hoaportal", "mobile"}}}

	require.NoError(t, c.ValidateAudience(nil))
	require.NoError(t, c.ValidateAudience([]string{"mobile"}))
	require.NoError(t, c.ValidateAudience([]string{"nope", "hoaportal"}))
	require.ErrorIs(t, c.ValidateAudience([]string{"nope"}), jwtx.ErrAudience)
}

func TestClaimsValidateExpiry(t *testing.T) {
	now := time.Now()
	c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}}

	tests := []struct {
		name    string
		at      time.Time
		leeway  time.Duration
		wantErr error
	}{
		{"inside window", now.Add(30 * time.Minute), 0, nil},
		{"after expiry", now.Add(2 * time.Hour), 0, jwtx.ErrExpired},
		{"after expiry within leeway", now.Add(time.Hour + 20*time.Second), time.Minute, nil},
		{"before nbf", now.Add(-time.Hour), 0, jwtx.ErrNotYetValid},
		{"before nbf within leeway", now.Add(-20 * time.Second), time.Minute, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.ValidateExpiry(tt.at, tt.leeway)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
