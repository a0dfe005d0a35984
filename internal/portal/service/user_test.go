package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	st := newStore(t)
	users := &service.UserService{Store: st}
	member := seedMember(t, st, "maria@hoa.test", domain.RoleHomeowner)
	ctx := context.Background()

	u, err := users.UpdateProfile(ctx, member, service.ProfileUpdate{
		Phone:        ptr(" 0917 555 0100 "),
		UnitNumber:   ptr("B-12"),
		PropertyType: ptr("Townhouse"),
	})
	require.NoError(t, err)
	require.Equal(t, "0917 555 0100", u.Phone)
	require.Equal(t, "B-12", u.UnitNumber)
	require.Equal(t, domain.PropertyTownhouse, u.PropertyType)
	require.Equal(t, "Test", u.FirstName, "untouched fields keep their value")

	_, err = users.UpdateProfile(ctx, member, service.ProfileUpdate{FirstName: ptr("  ")})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = users.UpdateProfile(ctx, member, service.ProfileUpdate{PropertyType: ptr("castle")})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestChangePassword(t *testing.T) {
	st := newStore(t)
	users := &service.UserService{Store: st}
	member := seedMember(t, st, "maria@hoa.test", domain.RoleHomeowner)
	ctx := context.Background()

	for name, in := range map[string]service.ProfileUpdate{
		"missing current": {NewPassword: "new secret"},
		"wrong current":   {NewPassword: "new secret", CurrentPassword: "nope"},
		"too short":       {NewPassword: "abc", CurrentPassword: testPassword},
	} {
		_, err := users.UpdateProfile(ctx, member, in)
		require.ErrorIs(t, err, service.ErrValidation, name)
	}

	u, err := users.UpdateProfile(ctx, member, service.ProfileUpdate{
		CurrentPassword: testPassword,
		NewPassword:     "new secret",
	})
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("new secret", u.PasswordHash))
	require.Error(t, cryptox.VerifyPassword(testPassword, u.PasswordHash))
}

func TestAdminUserManagement(t *testing.T) {
	st := newStore(t)
	users := &service.UserService{Store: st}
	admin := seedMember(t, st, "admin@hoa.test", domain.RoleAdmin)
	member := seedMember(t, st, "maria@hoa.test", domain.RoleHomeowner)
	ctx := context.Background()

	created, err := users.Create(ctx, admin, service.CreateUserInput{
		RegisterInput: service.RegisterInput{
			FirstName: "Jose",
			LastName:  "Rizal",
			Email:     "Jose@HOA.test",
			Address:   "3 Narra Street",
		},
		Role:     "treasurer",
		Verified: true,
	})
	require.NoError(t, err)
	require.Len(t, created.GeneratedPassword, 16)
	require.Equal(t, domain.RoleTreasurer, created.User.Role)
	require.True(t, created.User.Verified)
	require.NoError(t, cryptox.VerifyPassword(created.GeneratedPassword, created.User.PasswordHash))

	_, err = users.Create(ctx, admin, service.CreateUserInput{
		RegisterInput: service.RegisterInput{FirstName: "A", LastName: "B", Email: "jose@hoa.test", Address: "x", Password: testPassword},
	})
	require.ErrorIs(t, err, service.ErrEmailTaken)

	_, err = users.Create(ctx, admin, service.CreateUserInput{
		RegisterInput: service.RegisterInput{FirstName: "A", LastName: "B", Email: "c@hoa.test", Address: "x", Password: testPassword},
		Role:          "superuser",
	})
	require.ErrorIs(t, err, service.ErrValidation)

	list, err := users.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list, 3)

	updated, err := users.Update(ctx, admin, created.User.ID, service.AdminUserUpdate{
		Email:    ptr("rizal@hoa.test"),
		Role:     ptr("bod"),
		Verified: ptr(false),
		Password: ptr("board secret"),
	})
	require.NoError(t, err)
	require.Equal(t, "rizal@hoa.test", updated.Email)
	require.Equal(t, domain.RoleBoard, updated.Role)
	require.False(t, updated.Verified)
	require.NoError(t, cryptox.VerifyPassword("board secret", updated.PasswordHash))

	_, err = users.Update(ctx, admin, created.User.ID, service.AdminUserUpdate{Email: ptr("maria@hoa.test")})
	require.ErrorIs(t, err, service.ErrEmailTaken)

	_, err = users.Update(ctx, admin, created.User.ID, service.AdminUserUpdate{Role: ptr("root")})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = users.Update(ctx, admin, "missing", service.AdminUserUpdate{Role: ptr("admin")})
	require.ErrorIs(t, err, service.ErrNotFound)

	// officers and homeowners cannot manage accounts
	for _, actor := range []service.Actor{member, {UserID: created.User.ID, Role: domain.RoleBoard}} {
		_, err = users.List(ctx, actor)
		require.ErrorIs(t, err, service.ErrForbidden)
		_, err = users.Update(ctx, actor, member.UserID, service.AdminUserUpdate{Role: ptr("admin")})
		require.ErrorIs(t, err, service.ErrForbidden)
		require.ErrorIs(t, users.Delete(ctx, actor, admin.UserID), service.ErrForbidden)
	}

	require.NoError(t, users.Delete(ctx, admin, created.User.ID))
	_, err = st.Users().GetUserByID(ctx, created.User.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
	require.ErrorIs(t, users.Delete(ctx, admin, created.User.ID), service.ErrNotFound)
}

func TestDeleteUserPolicy(t *testing.T) {
	st := newStore(t)
	users := &service.UserService{Store: st}
	payments := &service.PaymentService{Store: st}
	admin := seedMember(t, st, "admin@hoa.test", domain.RoleAdmin)
	member := seedMember(t, st, "maria@hoa.test", domain.RoleHomeowner)
	ctx := context.Background()

	require.ErrorIs(t, users.Delete(ctx, admin, admin.UserID), service.ErrCannotDeleteSelf)

	p, err := payments.Submit(ctx, member, monthlyDues())
	require.NoError(t, err)

	err = users.Delete(ctx, admin, member.UserID)
	require.ErrorIs(t, err, service.ErrUserHasPayments)
	require.ErrorIs(t, err, service.ErrConflict)

	// the history is intact
	got, err := payments.Get(ctx, admin, p.ID)
	require.NoError(t, err)
	require.Equal(t, member.UserID, got.UserID)
}

func TestMe(t *testing.T) {
	st := newStore(t)
	users := &service.UserService{Store: st}
	member := seedMember(t, st, "maria@hoa.test", domain.RolePresident)

	u, err := users.Me(context.Background(), member)
	require.NoError(t, err)
	require.Equal(t, "maria@hoa.test", u.Email)
	require.Equal(t, domain.RolePresident, u.Role)

	_, err = users.Me(context.Background(), service.Actor{})
	require.ErrorIs(t, err, service.ErrUnauthenticated)
}
