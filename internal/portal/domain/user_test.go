package domain_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range domain.Roles() {
		got, ok := domain.ParseRole(string(r))
		require.True(t, ok)
		require.Equal(t, r, got)
		require.NotEqual(t, "Unknown", got.Label())
	}

	got, ok := domain.ParseRole(" ADMIN ")
	require.True(t, ok)
	require.Equal(t, domain.RoleAdmin, got)

	_, ok = domain.ParseRole("superuser")
	require.False(t, ok)

	require.True(t, domain.RoleTreasurer.IsOfficer())
	require.False(t, domain.RoleAdmin.IsOfficer())
}

func TestUserValidate(t *testing.T) {
	u := domain.User{
		ID:           "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
		FirstName:    "Maria",
		LastName:     "Santos",
		Email:        "maria@example.com",
		PasswordHash: "$argon2id$...",
		Address:      "12 Acacia Lane",
		PropertyType: domain.PropertyHouse,
		Role:         domain.RoleHomeowner,
	}
	require.NoError(t, u.Validate())

	bad := u
	bad.Email = "not-an-email"
	bad.Address = ""
	bad.Role = "root"

	err := bad.Validate()
	require.ErrorIs(t, err, domain.ErrValidation)
	verr := err.(*domain.ValidationError)
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "address")
	require.Contains(t, verr.Fields, "role")
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "bob@example.com", domain.NormalizeEmail("  Bob@Example.COM "))
}

func TestParsePropertyType(t *testing.T) {
	p, ok := domain.ParsePropertyType("")
	require.True(t, ok)
	require.Equal(t, domain.PropertyCondo, p)

	_, ok = domain.ParsePropertyType("castle")
	require.False(t, ok)
}

func TestAnnouncementValidate(t *testing.T) {
	a := domain.Announcement{
		ID:       "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
		Title:    "Pool closed",
		Content:  "Maintenance this weekend.",
		Priority: domain.PriorityHigh,
	}
	require.NoError(t, a.Validate())

	long := a
	long.Title = strings.Repeat("x", domain.AnnouncementTitleMax+1)
	require.ErrorIs(t, long.Validate(), domain.ErrValidation)

	noPriority := a
	noPriority.Priority = ""
	require.ErrorIs(t, noPriority.Validate(), domain.ErrValidation)
}
