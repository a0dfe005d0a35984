package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/hoaportal/internal/portal/authz"
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

type MFAService struct {
	Store  store.Store
	Issuer string // shown in authenticator apps, e.g. "HOA Portal"
}

// EnrollTOTP generates a TOTP secret for the member. MFA is not enabled
// until VerifyTOTP accepts a first code; enrolling again replaces a pending
// secret.
func (s *MFAService) EnrollTOTP(ctx context.Context, actor Actor) (domain.TOTPEnrollment, error) {
	if err := actor.Authorize(authz.ManageOwnProfile); err != nil {
		return domain.TOTPEnrollment{}, err
	}
	u, err := s.Store.Users().GetUserByID(ctx, actor.UserID)
	if err != nil {
		return domain.TOTPEnrollment{}, err
	}
	if u.MFAEnabled != nil {
		return domain.TOTPEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: u.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("generate TOTP key: %w", err)
	}
	if err := s.Store.Users().UpdateMFASecret(ctx, u.ID, key.Secret()); err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("store MFA secret: %w", err)
	}

	return domain.TOTPEnrollment{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  s.Issuer,
		Account: u.Email,
	}, nil
}

// VerifyTOTP checks a first code against the pending secret and enables MFA.
func (s *MFAService) VerifyTOTP(ctx context.Context, actor Actor, code string) error {
	if err := actor.Authorize(authz.ManageOwnProfile); err != nil {
		return err
	}
	u, err := s.Store.Users().GetUserByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if u.MFAEnabled != nil {
		return ErrMFAAlreadyEnabled
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(strings.TrimSpace(code), *u.MFASecret) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().EnableMFA(ctx, u.ID); err != nil {
		return fmt.Errorf("enable MFA: %w", err)
	}
	slogx.FromContext(ctx).Info("MFA enabled", slog.String("user_id", u.ID))
	return nil
}

// DisableTOTP removes the factor after checking a current code.
func (s *MFAService) DisableTOTP(ctx context.Context, actor Actor, code string) error {
	if err := actor.Authorize(authz.ManageOwnProfile); err != nil {
		return err
	}
	u, err := s.Store.Users().GetUserByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !u.HasMFA() {
		return ErrMFANotEnabled
	}
	if !totp.Validate(strings.TrimSpace(code), *u.MFASecret) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().DisableMFA(ctx, u.ID); err != nil {
		return fmt.Errorf("disable MFA: %w", err)
	}
	slogx.FromContext(ctx).Info("MFA disabled", slog.String("user_id", u.ID))
	return nil
}
