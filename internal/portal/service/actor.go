package service

import (
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/authz"
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
)

// Actor is the authenticated caller of a service method. It is resolved from
// the store for every request, so Role is the currently stored role.
type Actor struct {
	UserID string
	Role   domain.Role
}

// Can reports whether the actor's role allows action.
func (a Actor) Can(action authz.Action) bool {
	return a.UserID != "" && authz.Allowed(a.Role, action)
}

// Authorize returns an error wrapping ErrForbidden unless the actor's role
// allows action. An empty actor is unauthenticated.
func (a Actor) Authorize(action authz.Action) error {
	if a.UserID == "" {
		return ErrUnauthenticated
	}
	return authz.Authorize(a.Role, action)
}

func clockOrNow(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}
