package store

import (
	"fmt"
	"strings"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
)

// ApplyUserUpdate returns u with the non-nil fields of upd applied. Drivers
// share it so that every backend merges partial updates the same way.
func ApplyUserUpdate(u domain.User, upd UserUpdate) domain.User {
	if upd.FirstName != nil {
		u.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		u.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Phone != nil {
		u.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		u.Address = strings.TrimSpace(*upd.Address)
	}
	if upd.UnitNumber != nil {
		u.UnitNumber = strings.TrimSpace(*upd.UnitNumber)
	}
	if upd.PropertyType != nil {
		u.PropertyType = *upd.PropertyType
	}
	if upd.Email != nil {
		u.Email = domain.NormalizeEmail(*upd.Email)
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Verified != nil {
		u.Verified = *upd.Verified
	}
	return u
}

// ApplyAnnouncementUpdate returns a with the non-nil fields of upd applied.
func ApplyAnnouncementUpdate(a domain.Announcement, upd AnnouncementUpdate) domain.Announcement {
	if upd.Title != nil {
		a.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Content != nil {
		a.Content = *upd.Content
	}
	if upd.Priority != nil {
		a.Priority = *upd.Priority
	}
	return a
}

// ValidateNewPayment checks a payment about to be inserted. Payments always
// enter the system pending.
func ValidateNewPayment(p domain.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Status != domain.StatusPending {
		return domain.FieldError("status", "a new payment must be pending")
	}
	return nil
}

// ValidateTransition rejects edges outside the payment state machine before
// any row is touched, and enforces that only a failure carries a reason.
func ValidateTransition(p TransitionParams) error {
	if !domain.CanTransition(p.From, p.To) {
		return fmt.Errorf("%w: %s -> %s", ErrConflict, p.From, p.To)
	}
	if p.RejectionReason != nil && p.To != domain.StatusFailed {
		return domain.FieldError("rejection_reason", "only a failed payment carries a rejection reason")
	}
	return nil
}
