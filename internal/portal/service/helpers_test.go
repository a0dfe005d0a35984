package service_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/hoaportal/pkg/cryptox"
	"github.com/aussiebroadwan/hoaportal/pkg/idx"
	"github.com/aussiebroadwan/hoaportal/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse"

func TestMain(m *testing.M) {
	cryptox.SetPepper("service-test-pepper")
	os.Exit(m.Run())
}

func newStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

// seedMember inserts a member directly, bypassing the services.
func seedMember(t *testing.T, st store.Store, email string, role domain.Role) service.Actor {
	t.Helper()

	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		FirstName:    "Test",
		LastName:     string(role),
		Email:        email,
		PasswordHash: hash,
		Address:      "12 Acacia Lane",
		PropertyType: domain.PropertyHouse,
		Role:         role,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return service.Actor{UserID: u.ID, Role: role}
}

func newIdentity(t *testing.T, st store.Store) *service.IdentityService {
	t.Helper()

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: "https://hoa.test", NumKeys: 1})
	require.NoError(t, err)
	return &service.IdentityService{
		Store:    st,
		Signer:   km,
		Verifier: km.Verifier(),
		Issuer:   "https://hoa.test",
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// steppingClock advances one second per reading so that records created in
// sequence sort deterministically.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Second)
		return now
	}
}

func ptr[T any](v T) *T { return &v }
