package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/authz"
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/pkg/cryptox"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
)

// generatedPasswordLength is used when an administrator creates an account
// without choosing a password.
const generatedPasswordLength = 16

type UserService struct {
	Store store.Store
	Clock func() time.Time
}

// Me returns the caller's own record.
func (s *UserService) Me(ctx context.Context, actor Actor) (domain.User, error) {
	if err := actor.Authorize(authz.ManageOwnProfile); err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserByID(ctx, actor.UserID)
}

// ProfileUpdate holds the fields a member may change on their own account.
// Nil fields are left alone. A new password requires the current one.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	Address      *string
	UnitNumber   *string
	PropertyType *string

	CurrentPassword string
	NewPassword     string
}

// UpdateProfile applies a self-service profile edit.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, in ProfileUpdate) (domain.User, error) {
	if err := actor.Authorize(authz.ManageOwnProfile); err != nil {
		return domain.User{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, actor.UserID)
	if err != nil {
		return domain.User{}, err
	}

	v := domain.NewValidationError()
	upd := store.UserUpdate{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		Address:    in.Address,
		UnitNumber: in.UnitNumber,
	}
	upd.PropertyType = parsePropertyTypePtr(v, in.PropertyType)
	if err := mergeValidation(v, store.ApplyUserUpdate(u, upd).Validate()); err != nil {
		return domain.User{}, err
	}

	var newHash string
	if in.NewPassword != "" {
		domain.ValidatePassword(v, "new_password", in.NewPassword)
		switch {
		case in.CurrentPassword == "":
			v.Add("current_password", "required to change the password")
		case cryptox.VerifyPassword(in.CurrentPassword, u.PasswordHash) != nil:
			v.Add("current_password", "does not match")
		}
		if v.Empty() {
			if newHash, err = cryptox.HashPassword(in.NewPassword); err != nil {
				return domain.User{}, fmt.Errorf("hash password: %w", err)
			}
		}
	}
	if err := v.OrNil(); err != nil {
		return domain.User{}, err
	}

	if err := s.save(ctx, actor.UserID, upd, newHash); err != nil {
		return domain.User{}, err
	}
	if newHash != "" {
		slogx.FromContext(ctx).Info("member changed password", slog.String("user_id", actor.UserID))
	}
	return s.Store.Users().GetUserByID(ctx, actor.UserID)
}

// List returns every member, newest first.
func (s *UserService) List(ctx context.Context, actor Actor) ([]domain.User, error) {
	if err := actor.Authorize(authz.ManageUsers); err != nil {
		return nil, err
	}
	return s.Store.Users().ListUsers(ctx)
}

// CreateUserInput is the administrator's account form. An empty Password
// makes the service generate one, returned once in CreatedUser.
type CreateUserInput struct {
	RegisterInput
	Role     string
	Verified bool
}

// CreatedUser is the outcome of an administrative account creation.
type CreatedUser struct {
	User              domain.User
	GeneratedPassword string
}

// Create adds a member account with any role.
func (s *UserService) Create(ctx context.Context, actor Actor, in CreateUserInput) (CreatedUser, error) {
	if err := actor.Authorize(authz.ManageUsers); err != nil {
		return CreatedUser{}, err
	}

	role := domain.DefaultRole
	if strings.TrimSpace(in.Role) != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return CreatedUser{}, domain.FieldError("role", "unknown role")
		}
		role = r
	}

	var generated string
	if in.Password == "" {
		pw, err := cryptox.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return CreatedUser{}, err
		}
		in.Password, generated = pw, pw
	}

	u, err := newUser(in.RegisterInput, role, in.Verified, clockOrNow(s.Clock))
	if err != nil {
		return CreatedUser{}, err
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return CreatedUser{}, ErrEmailTaken
		}
		return CreatedUser{}, err
	}

	u, err = s.Store.Users().GetUserByID(ctx, u.ID)
	if err != nil {
		return CreatedUser{}, err
	}
	slogx.FromContext(ctx).Info("member created by administrator",
		slog.String("user_id", u.ID),
		slog.String("role", string(u.Role)),
	)
	return CreatedUser{User: u, GeneratedPassword: generated}, nil
}

// AdminUserUpdate holds every field an administrator may change. Nil fields
// are left alone.
type AdminUserUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	Address      *string
	UnitNumber   *string
	PropertyType *string
	Role         *string
	Verified     *bool
	Password     *string
}

// Update edits another member's account, including role and verification.
func (s *UserService) Update(ctx context.Context, actor Actor, id string, in AdminUserUpdate) (domain.User, error) {
	if err := actor.Authorize(authz.ManageUsers); err != nil {
		return domain.User{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	v := domain.NewValidationError()
	upd := store.UserUpdate{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		UnitNumber: in.UnitNumber,
		Verified:   in.Verified,
	}
	upd.PropertyType = parsePropertyTypePtr(v, in.PropertyType)
	if in.Role != nil {
		r, ok := domain.ParseRole(*in.Role)
		if !ok {
			v.Add("role", "unknown role")
		} else {
			upd.Role = &r
		}
	}
	if err := mergeValidation(v, store.ApplyUserUpdate(u, upd).Validate()); err != nil {
		return domain.User{}, err
	}

	var newHash string
	if in.Password != nil {
		domain.ValidatePassword(v, "password", *in.Password)
		if v.Empty() {
			if newHash, err = cryptox.HashPassword(*in.Password); err != nil {
				return domain.User{}, fmt.Errorf("hash password: %w", err)
			}
		}
	}
	if err := v.OrNil(); err != nil {
		return domain.User{}, err
	}

	if err := s.save(ctx, id, upd, newHash); err != nil {
		return domain.User{}, err
	}

	updated, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if updated.Role != u.Role {
		slogx.FromContext(ctx).Info("member role changed",
			slog.String("user_id", id),
			slog.String("from", string(u.Role)),
			slog.String("to", string(updated.Role)),
		)
	}
	return updated, nil
}

// Delete removes a member. Accounts with payment history are kept, and an
// administrator may not remove their own account.
func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.Authorize(authz.ManageUsers); err != nil {
		return err
	}
	if id == actor.UserID {
		return ErrCannotDeleteSelf
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, id); err != nil {
			return err
		}
		n, err := tx.Payments().CountPaymentsByOwner(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrUserHasPayments
		}
		return tx.Users().DeleteUser(ctx, id)
	})
	switch {
	case errors.Is(err, ErrUserHasPayments):
		return err
	case errors.Is(err, store.ErrConflict):
		// a payment landed between the count and the delete
		return ErrUserHasPayments
	case err != nil:
		return err
	}

	slogx.FromContext(ctx).Info("member deleted", slog.String("user_id", id))
	return nil
}

func (s *UserService) save(ctx context.Context, id string, upd store.UserUpdate, newHash string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateUser(ctx, id, upd); err != nil {
			return err
		}
		if newHash != "" {
			return tx.Users().UpdatePasswordHash(ctx, id, newHash)
		}
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrEmailTaken
	}
	return err
}

func parsePropertyTypePtr(v *domain.ValidationError, s *string) *domain.PropertyType {
	if s == nil {
		return nil
	}
	pt, ok := domain.ParsePropertyType(*s)
	if !ok {
		v.Add("property_type", "must be one of condo, house, townhouse, villa")
		return nil
	}
	return &pt
}
