package portalsdk

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionExpired is returned before any request is sent once the session
// token has passed its expiry. Log in again to continue.
var ErrSessionExpired = errors.New("portalsdk: session expired")

// Session is a signed-in member. The server re-reads the member's role on
// every request, so a Session never caches permissions.
type Session struct {
	client *Client

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time // zero when unknown
	user        UserResponse
}

// newSession creates a session from a register or login response.
func newSession(client *Client, resp *SessionResponse) *Session {
	return &Session{
		client:      client,
		accessToken: resp.AccessToken,
		expiresAt:   resp.ExpiresAt,
		user:        resp.User,
	}
}

// validToken returns the access token unless it is known to have expired.
func (s *Session) validToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.expiresAt.IsZero() && !time.Now().Before(s.expiresAt) {
		return "", ErrSessionExpired
	}
	return s.accessToken, nil
}

// do sends an authenticated request.
func (s *Session) do(ctx context.Context, method, path string, payload any, target any, expectedStatus int) error {
	token, err := s.validToken()
	if err != nil {
		return err
	}

	resp, err := s.client.doRequest(ctx, method, path, token, payload)
	if err != nil {
		return err
	}

	if target == nil {
		return checkStatusNoContent(resp)
	}
	return decodeJSON(resp, target, expectedStatus)
}

// AccessToken returns the bearer token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// ExpiresAt returns when the token stops being accepted.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// User returns the account snapshot taken at login, refreshed by Me.
func (s *Session) User() UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) setUser(u UserResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}
