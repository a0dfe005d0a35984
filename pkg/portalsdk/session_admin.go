package portalsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListUsers returns every account.
// Requires: admin role
func (s *Session) ListUsers(ctx context.Context) ([]UserResponse, error) {
	var out []UserResponse
	if err := s.do(ctx, http.MethodGet, "/v1/admin/users", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser adds an account with any role.
// Requires: admin role
func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (*CreateUserResponse, error) {
	var out CreateUserResponse
	if err := s.do(ctx, http.MethodPost, "/v1/admin/users", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser edits any account, including its role.
// Requires: admin role
func (s *Session) UpdateUser(ctx context.Context, id string, req AdminUpdateUserRequest) (*UserResponse, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodPut, "/v1/admin/users/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account. Accounts with payments cannot be removed.
// Requires: admin role
func (s *Session) DeleteUser(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/v1/admin/users/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}
