package portal_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

// TestRegisterLoginAndProfile covers sign-up, sign-in and self-service
// profile edits including a password change.
func TestRegisterLoginAndProfile(t *testing.T) {
	client := setupPortal(t)
	ctx := t.Context()

	owner := registerOwner(t, client, "owner@example.com")
	require.Equal(t, "homeowner", owner.User().Role)
	require.False(t, owner.User().Verified)

	_, err := client.Register(ctx, portalsdk.RegisterRequest{
		FirstName: "Pat", LastName: "Again", Email: "OWNER@example.com",
		Password: ownerPassword, Address: "8 Mango Street",
	})
	requireAPIError(t, err, http.StatusConflict, portalsdk.ErrorCodeConflict)

	_, err = client.Login(ctx, "owner@example.com", "wrong-password", "")
	requireAPIError(t, err, http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)

	me, err := owner.UpdateProfile(ctx, portalsdk.UpdateProfileRequest{
		Phone:           ptr("+63 912 345 6789"),
		CurrentPassword: ownerPassword,
		NewPassword:     "Brand-New-Password-1",
	})
	require.NoError(t, err)
	require.Equal(t, "+63 912 345 6789", me.Phone)

	_, err = client.Login(ctx, "owner@example.com", ownerPassword, "")
	requireAPIError(t, err, http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)

	again, err := client.Login(ctx, "owner@example.com", "Brand-New-Password-1", "")
	require.NoError(t, err)
	require.Equal(t, owner.User().ID, again.User().ID)

	// a forged token is rejected outright
	forged := client.NewSessionFromToken(again.AccessToken() + "x")
	_, err = forged.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)
}

// TestTOTPSignIn enrols an authenticator and signs in with it.
func TestTOTPSignIn(t *testing.T) {
	client := setupPortal(t)
	ctx := t.Context()

	owner := registerOwner(t, client, "owner@example.com")

	enroll, err := owner.EnrollTOTP(ctx)
	require.NoError(t, err)
	require.Contains(t, enroll.URL, "otpauth://totp/")

	code, err := totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, owner.VerifyTOTP(ctx, code))

	me, err := owner.Me(ctx)
	require.NoError(t, err)
	require.True(t, me.MFAEnabled)

	_, err = client.Login(ctx, "owner@example.com", ownerPassword, "")
	requireAPIError(t, err, http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)

	code, err = totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	session, err := client.Login(ctx, "owner@example.com", ownerPassword, code)
	require.NoError(t, err)

	code, err = totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, session.DisableTOTP(ctx, code))

	_, err = client.Login(ctx, "owner@example.com", ownerPassword, "")
	require.NoError(t, err, "password alone works again once TOTP is removed")
}

// TestAdminManagesMembers covers account creation, role changes and removal
// by an administrator.
func TestAdminManagesMembers(t *testing.T) {
	client := setupPortal(t)
	ctx := t.Context()

	admin := loginAdmin(t, client)
	owner := registerOwner(t, client, "owner@example.com")

	_, err := owner.ListUsers(ctx)
	requireAPIError(t, err, http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	created, err := admin.CreateUser(ctx, portalsdk.CreateUserRequest{
		RegisterRequest: portalsdk.RegisterRequest{
			FirstName: "Terry",
			LastName:  "Treasurer",
			Email:     "treasurer@example.com",
			Address:   "1 Hall Road",
		},
		Role:     "treasurer",
		Verified: true,
	})
	require.NoError(t, err)
	require.Equal(t, "treasurer", created.User.Role)
	require.True(t, created.User.Verified)
	require.NotEmpty(t, created.GeneratedPassword)

	treasurer, err := client.Login(ctx, "treasurer@example.com", created.GeneratedPassword, "")
	require.NoError(t, err)

	users, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	// promotion takes effect on the member's existing token
	_, err = owner.ListAllPayments(ctx)
	requireAPIError(t, err, http.StatusForbidden, portalsdk.ErrorCodeForbidden)
	promoted, err := admin.UpdateUser(ctx, owner.User().ID, portalsdk.AdminUpdateUserRequest{Role: ptr("admin")})
	require.NoError(t, err)
	require.Equal(t, "admin", promoted.Role)
	_, err = owner.ListAllPayments(ctx)
	require.NoError(t, err)

	require.NoError(t, admin.DeleteUser(ctx, created.User.ID))
	_, err = treasurer.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)

	err = admin.DeleteUser(ctx, admin.User().ID)
	requireAPIError(t, err, http.StatusConflict, portalsdk.ErrorCodeConflict)

	err = admin.DeleteUser(ctx, "ghost")
	requireAPIError(t, err, http.StatusNotFound, portalsdk.ErrorCodeNotFound)
}

// TestAnnouncementBoard checks that only administrators publish and everyone
// reads.
func TestAnnouncementBoard(t *testing.T) {
	client := setupPortal(t)
	ctx := t.Context()

	admin := loginAdmin(t, client)
	owner := registerOwner(t, client, "owner@example.com")

	_, err := owner.CreateAnnouncement(ctx, portalsdk.AnnouncementRequest{Title: "Pool", Content: "Closed"})
	requireAPIError(t, err, http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	a, err := admin.CreateAnnouncement(ctx, portalsdk.AnnouncementRequest{
		Title:    "Water interruption",
		Content:  "Maintenance on Saturday 8am to noon",
		Priority: "high",
	})
	require.NoError(t, err)
	require.Equal(t, "high", a.Priority)

	list, err := owner.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].ID)

	updated, err := admin.UpdateAnnouncement(ctx, a.ID, portalsdk.AnnouncementRequest{Priority: "low"})
	require.NoError(t, err)
	require.Equal(t, "low", updated.Priority)
	require.Equal(t, "Water interruption", updated.Title)

	require.NoError(t, admin.DeleteAnnouncement(ctx, a.ID))
	err = admin.DeleteAnnouncement(ctx, a.ID)
	requireAPIError(t, err, http.StatusNotFound, portalsdk.ErrorCodeNotFound)
}

// TestLoginRateLimit verifies the strict profile on /v1/auth/login with
// production limits.
func TestLoginRateLimit(t *testing.T) {
	client := setupPortalWithDefaultRateLimits(t)
	ctx := t.Context()

	for i := range 5 {
		_, err := client.Login(ctx, "victim@example.com", "guess", "")
		requireAPIError(t, err, http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)
		t.Logf("attempt %d rejected as unauthenticated", i+1)
	}

	_, err := client.Login(ctx, "victim@example.com", "guess", "")
	requireAPIError(t, err, http.StatusTooManyRequests, portalsdk.ErrorCodeRateLimitExceeded)
	require.ErrorIs(t, err, portalsdk.ErrRateLimited)

	// the bucket is per account, so the administrator still gets in
	_, err = client.Login(ctx, adminEmail, adminPassword, "")
	require.NoError(t, err)
}
