package portalsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListAnnouncements returns announcements, newest first.
func (s *Session) ListAnnouncements(ctx context.Context) ([]AnnouncementResponse, error) {
	var out []AnnouncementResponse
	if err := s.do(ctx, http.MethodGet, "/v1/announcements", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAnnouncement publishes an announcement.
// Requires: admin role
func (s *Session) CreateAnnouncement(ctx context.Context, req AnnouncementRequest) (*AnnouncementResponse, error) {
	var out AnnouncementResponse
	if err := s.do(ctx, http.MethodPost, "/v1/announcements", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAnnouncement edits an announcement.
// Requires: admin role
func (s *Session) UpdateAnnouncement(ctx context.Context, id string, req AnnouncementRequest) (*AnnouncementResponse, error) {
	var out AnnouncementResponse
	if err := s.do(ctx, http.MethodPut, "/v1/announcements/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAnnouncement removes an announcement.
// Requires: admin role
func (s *Session) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/v1/announcements/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}
