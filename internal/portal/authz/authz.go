// Package authz decides which roles may perform which portal actions.
//
// The policy is a pure function of (role, action). It never looks at a
// resource; ownership checks such as "a member may read their own payment"
// live in the services, after the action itself has been allowed.
package authz

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
)

// ErrForbidden is returned whenever the policy denies an action.
var ErrForbidden = errors.New("forbidden")

// Action is a closed set of operations the policy knows about.
type Action string

const (
	SubmitPayment           Action = "payment:submit"
	ViewOwnPayments         Action = "payment:read-own"
	ViewAllPayments         Action = "payment:read-all"
	TransitionPaymentStatus Action = "payment:transition"
	ManageUsers             Action = "users:manage"
	ManageAnnouncements     Action = "announcements:manage"
	ReadAnnouncements       Action = "announcements:read"
	ManageOwnProfile        Action = "profile:manage"
)

// Actions lists every action the policy evaluates.
func Actions() []Action {
	return []Action{
		SubmitPayment,
		ViewOwnPayments,
		ViewAllPayments,
		TransitionPaymentStatus,
		ManageUsers,
		ManageAnnouncements,
		ReadAnnouncements,
		ManageOwnProfile,
	}
}

// memberActions are open to every authenticated member, officers included.
var memberActions = map[Action]bool{
	SubmitPayment:     true,
	ViewOwnPayments:   true,
	ReadAnnouncements: true,
	ManageOwnProfile:  true,
}

// adminActions are reserved for the admin role.
var adminActions = map[Action]bool{
	ViewAllPayments:         true,
	TransitionPaymentStatus: true,
	ManageUsers:             true,
	ManageAnnouncements:     true,
}

// Allowed reports whether role may perform action. Unknown roles and unknown
// actions are denied.
func Allowed(role domain.Role, action Action) bool {
	switch role {
	case domain.RoleAdmin:
		return memberActions[action] || adminActions[action]
	case domain.RoleHomeowner,
		domain.RolePresident,
		domain.RoleVicePres,
		domain.RoleSecretary,
		domain.RoleTreasurer,
		domain.RoleBoard:
		return memberActions[action]
	default:
		return false
	}
}

// Authorize returns nil when role may perform action and an error wrapping
// ErrForbidden otherwise.
func Authorize(role domain.Role, action Action) error {
	if Allowed(role, action) {
		return nil
	}
	return fmt.Errorf("%w: role %q may not %s", ErrForbidden, role, action)
}
