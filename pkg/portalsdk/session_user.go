package portalsdk

import (
	"context"
	"net/http"
)

// Me returns the caller's current account.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodGet, "/v1/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	s.setUser(out)
	return &out, nil
}

// UpdateProfile edits the caller's own profile.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserResponse, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodPut, "/v1/me", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	s.setUser(out)
	return &out, nil
}

// EnrollTOTP starts TOTP enrollment and returns the shared secret.
func (s *Session) EnrollTOTP(ctx context.Context) (*TOTPEnrollResponse, error) {
	var out TOTPEnrollResponse
	if err := s.do(ctx, http.MethodPost, "/v1/me/mfa/totp/enroll", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTOTP confirms enrollment with a code from the authenticator.
func (s *Session) VerifyTOTP(ctx context.Context, code string) error {
	return s.do(ctx, http.MethodPost, "/v1/me/mfa/totp/verify", TOTPCodeRequest{Code: code}, nil, http.StatusNoContent)
}

// DisableTOTP turns TOTP off. A current code is required.
func (s *Session) DisableTOTP(ctx context.Context, code string) error {
	return s.do(ctx, http.MethodDelete, "/v1/me/mfa/totp", TOTPCodeRequest{Code: code}, nil, http.StatusNoContent)
}
