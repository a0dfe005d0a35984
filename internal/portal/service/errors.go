package service

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aussiebroadwan/hoaportal/internal/portal/authz"
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
)

// The error taxonomy every service method reports through. Callers at the
// HTTP boundary map with errors.Is against these five, never by message.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = authz.ErrForbidden
	ErrValidation      = domain.ErrValidation
	ErrNotFound        = store.ErrNotFound
	ErrConflict        = store.ErrConflict
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	ErrMFARequired        = fmt.Errorf("%w: one-time code required", ErrUnauthenticated)
	ErrInvalidTOTPCode    = fmt.Errorf("%w: invalid one-time code", ErrValidation)

	ErrEmailTaken       = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUserHasPayments  = fmt.Errorf("%w: member has payment history", ErrConflict)
	ErrCannotDeleteSelf = fmt.Errorf("%w: an administrator cannot delete their own account", ErrConflict)

	ErrMFANotEnrolled    = fmt.Errorf("%w: no authenticator enrolment in progress", ErrConflict)
	ErrMFANotEnabled     = fmt.Errorf("%w: MFA not enabled", ErrConflict)
	ErrMFAAlreadyEnabled = fmt.Errorf("%w: MFA already enabled", ErrConflict)
)

// mergeValidation copies the field failures of err into v. Fields in skip
// are ignored. Errors that are not validation errors are returned as is.
func mergeValidation(v *domain.ValidationError, err error, skip ...string) error {
	if err == nil {
		return nil
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for field, msg := range ve.Fields {
		if !slices.Contains(skip, field) {
			v.Add(field, msg)
		}
	}
	return nil
}
