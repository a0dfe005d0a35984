package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/pkg/cryptox"
	"github.com/aussiebroadwan/hoaportal/pkg/idx"
	"github.com/aussiebroadwan/hoaportal/pkg/jwtx"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

// Authentication method references carried in the amr claim.
const (
	AMRPassword = "pwd"
	AMROTP      = "otp"
)

// dummyHash is verified against when the email is unknown so that a miss
// costs the same argon2 work as a wrong password.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$c29tZXNhbHRzb21lc2FsdA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// TokenSigner mints session tokens. *jwtx.KeyManager satisfies it.
type TokenSigner interface {
	Sign(jwtx.Claims) (string, error)
}

// Session is a signed bearer token handed to a member after login.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// IdentityService registers members, checks credentials and resolves bearer
// tokens back to a current Actor.
type IdentityService struct {
	Store      store.Store
	Signer     TokenSigner
	Verifier   jwtx.Verifier
	Issuer     string
	Audience   []string
	SessionTTL time.Duration
	Clock      func() time.Time
}

// RegisterInput is the self-service sign-up form.
type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Phone        string
	Address      string
	UnitNumber   string
	PropertyType string
}

// Register creates a homeowner account and logs it in.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (domain.User, Session, error) {
	l := slogx.FromContext(ctx)

	u, err := newUser(in, domain.DefaultRole, false, clockOrNow(s.Clock))
	if err != nil {
		return domain.User{}, Session{}, err
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, Session{}, ErrEmailTaken
		}
		return domain.User{}, Session{}, err
	}
	u, err = s.Store.Users().GetUserByID(ctx, u.ID)
	if err != nil {
		return domain.User{}, Session{}, err
	}

	sess, err := s.issue(u, []string{AMRPassword})
	if err != nil {
		return domain.User{}, Session{}, err
	}
	l.Info("member registered", slog.String("user_id", u.ID))
	return u, sess, nil
}

// Login checks an email and password, plus a one-time code when the member
// has MFA enabled. Unknown emails and wrong passwords are indistinguishable.
func (s *IdentityService) Login(ctx context.Context, email, password, otpCode string) (domain.User, Session, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		_ = cryptox.VerifyPassword(password, dummyHash)
		return domain.User{}, Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, Session{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login failed", slog.String("user_id", u.ID), slog.Any("error", err))
		return domain.User{}, Session{}, ErrInvalidCredentials
	}

	amr := []string{AMRPassword}
	if u.HasMFA() {
		otpCode = strings.TrimSpace(otpCode)
		if otpCode == "" {
			return domain.User{}, Session{}, ErrMFARequired
		}
		if !totp.Validate(otpCode, *u.MFASecret) {
			l.Info("login one-time code rejected", slog.String("user_id", u.ID))
			return domain.User{}, Session{}, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrInvalidTOTPCode)
		}
		amr = append(amr, AMROTP)
	}

	if cryptox.NeedsRehash(u.PasswordHash, cryptox.DefaultArgon2Params) {
		if hash, err := cryptox.HashPassword(password); err == nil {
			if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
				l.Warn("password rehash failed", slog.String("user_id", u.ID), slog.Any("error", err))
			}
		}
	}

	sess, err := s.issue(u, amr)
	if err != nil {
		return domain.User{}, Session{}, err
	}
	l.Info("member logged in", slog.String("user_id", u.ID), slog.Any("amr", amr))
	return u, sess, nil
}

// Authenticate verifies a session token and loads its subject. The role in
// the token is ignored; the stored role is authoritative, so a demotion or a
// deletion takes effect on the very next request.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (Actor, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return Actor{}, fmt.Errorf("%w: subject no longer exists", ErrUnauthenticated)
	}
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: u.ID, Role: u.Role}, nil
}

func (s *IdentityService) issue(u domain.User, amr []string) (Session, error) {
	claims := jwtx.NewSessionClaims(jwtx.SessionParams{
		Subject:  u.ID,
		Role:     string(u.Role),
		Email:    u.Email,
		AMR:      amr,
		Issuer:   s.Issuer,
		Audience: s.Audience,
		TTL:      s.SessionTTL,
		Now:      clockOrNow(s.Clock),
	})
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	return Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// newUser validates a sign-up form and hashes its password. Validation runs
// first so that a rejected form never pays for argon2.
func newUser(in RegisterInput, role domain.Role, verified bool, now time.Time) (domain.User, error) {
	v := domain.NewValidationError()
	domain.ValidatePassword(v, "password", in.Password)

	pt, ok := domain.ParsePropertyType(in.PropertyType)
	if !ok {
		v.Add("property_type", "must be one of condo, house, townhouse, villa")
	}

	u := domain.User{
		ID:           idx.NewAt(now).String(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        domain.NormalizeEmail(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		UnitNumber:   strings.TrimSpace(in.UnitNumber),
		PropertyType: pt,
		Role:         role,
		Verified:     verified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := mergeValidation(v, u.Validate(), "password", "property_type"); err != nil {
		return domain.User{}, err
	}
	if err := v.OrNil(); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return u, nil
}
