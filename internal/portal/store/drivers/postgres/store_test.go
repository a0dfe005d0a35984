package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewStoreFromDB(db), mock
}

var (
	userCols    = []string{"id", "first_name", "last_name", "email", "password_hash", "phone", "address", "unit_number", "property_type", "role", "verified", "mfa_enabled", "mfa_secret", "created_at", "updated_at"}
	paymentCols = []string{"id", "user_id", "amount_cents", "method", "category", "due_date", "status", "rejection_reason", "late_fee_cents", "penalty_cents", "created_at", "updated_at"}
)

func testUser() domain.User {
	return domain.User{
		ID:           "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
		FirstName:    "Maria",
		LastName:     "Santos",
		Email:        "maria@example.com",
		PasswordHash: "$argon2id$...",
		Address:      "12 Acacia Lane",
		PropertyType: domain.PropertyHouse,
		Role:         domain.RoleHomeowner,
	}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, mock := newMockStore(t)
		u := testUser()
		u.Email = " Maria@Example.com "

		mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
			WithArgs(u.ID, "Maria", "Santos", "maria@example.com", u.PasswordHash, "", u.Address,
				"", "house", "homeowner", false, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Users().CreateUser(ctx, u))
	})

	t.Run("duplicate email", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`INSERT\s+INTO\s+users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_unique"})

		err := s.Users().CreateUser(ctx, testUser())
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("validation happens before the query", func(t *testing.T) {
		s, _ := newMockStore(t)
		u := testUser()
		u.Email = "nope"
		require.ErrorIs(t, s.Users().CreateUser(ctx, u), domain.ErrValidation)
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStore(t)
		at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(
				"u-1", "Maria", "Santos", "maria@example.com", "hash", "", "12 Acacia Lane",
				"3B", "condo", "admin", true, nil, nil, at, at))

		u, err := s.Users().GetUserByID(ctx, "u-1")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, u.Role)
		require.Equal(t, "3B", u.UnitNumber)
		require.Nil(t, u.MFAEnabled)
		require.False(t, u.HasMFA())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

		_, err := s.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`FROM\s+users`).WillReturnError(errors.New("db down"))

		_, err := s.Users().GetUserByID(ctx, "u-1")
		require.ErrorContains(t, err, "db error: db down")
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("restricted by payments", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`DELETE\s+FROM\s+users`).WithArgs("u-1").
			WillReturnError(&pgconn.PgError{Code: "23503"})
		require.ErrorIs(t, s.Users().DeleteUser(ctx, "u-1"), store.ErrConflict)
	})

	t.Run("nothing deleted", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`DELETE\s+FROM\s+users`).WithArgs("u-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		require.ErrorIs(t, s.Users().DeleteUser(ctx, "u-1"), store.ErrNotFound)
	})
}

func TestTransitionPayment(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	params := store.TransitionParams{ID: "p-1", From: domain.StatusPending, To: domain.StatusCompleted, At: at}

	t.Run("winner", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`(?s)^UPDATE\s+payments\s+p\s+SET\s+status\s*=\s*\$1.*WHERE\s+p\.id\s*=\s*\$4\s+AND\s+p\.status\s*=\s*\$5`).
			WithArgs("completed", sql.NullString{}, at, "p-1", "pending").
			WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(
				"p-1", "u-1", int64(50000), "bank-transfer", "monthly_dues",
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "completed", nil, int64(0), int64(0), at, at))

		p, err := s.Payments().TransitionPayment(ctx, params)
		require.NoError(t, err)
		require.Equal(t, domain.StatusCompleted, p.Status)
		require.Equal(t, domain.Units(500), p.Amount)
		require.Equal(t, domain.NewDate(2024, 1, 1), p.DueDate)
	})

	t.Run("loser sees conflict", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`UPDATE\s+payments`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT\s+EXISTS`).WithArgs("p-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := s.Payments().TransitionPayment(ctx, params)
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("missing payment", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`UPDATE\s+payments`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT\s+EXISTS`).WithArgs("p-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := s.Payments().TransitionPayment(ctx, params)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("terminal source never queries", func(t *testing.T) {
		s, _ := newMockStore(t)
		_, err := s.Payments().TransitionPayment(ctx, store.TransitionParams{
			ID: "p-1", From: domain.StatusFailed, To: domain.StatusCompleted,
		})
		require.ErrorIs(t, err, store.ErrConflict)
	})
}

func TestListAllPaymentsCarriesOwner(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cols := append(append([]string{}, paymentCols...), "first_name", "last_name", "email")
	mock.ExpectQuery(`(?s)FROM\s+payments\s+p\s+JOIN\s+users\s+u.*ORDER\s+BY\s+p\.created_at\s+DESC,\s*p\.id\s+DESC`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p-2", "u-1", int64(10000), "mobile-wallet", "sticker", due, "failed", "duplicate submission", int64(0), int64(0), at, at, "Maria", "Santos", "maria@example.com").
			AddRow("p-1", "u-2", int64(50000), "bank-transfer", "monthly_dues", due, "pending", nil, int64(0), int64(0), at, at, "Jose", "Cruz", "jose@example.com"))

	got, err := s.Payments().ListAllPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "duplicate submission", *got[0].RejectionReason)
	require.Equal(t, "maria@example.com", got[0].Owner.Email)
	require.Nil(t, got[1].RejectionReason)
	require.Equal(t, "Jose", got[1].Owner.FirstName)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE\s+FROM\s+announcements`).WithArgs("a-1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Announcements().DeleteAnnouncement(ctx, "a-1")
		})
		require.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE\s+FROM\s+announcements`).WithArgs("a-1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Announcements().DeleteAnnouncement(ctx, "a-1")
		})
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
