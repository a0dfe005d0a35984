package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store/drivers/sqlite/gen"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every connection of an in-memory database is its own database, so the
	// pool is pinned to one connection.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users                 { return &usersRepo{q: s.q} }
func (s *Store) Payments() store.Payments           { return &paymentsRepo{q: s.q} }
func (s *Store) Announcements() store.Announcements { return &announcementsRepo{q: s.q} }

// now is the write clock. Timestamps are stored in UTC so that their text
// form sorts chronologically.
var now = func() time.Time { return time.Now().UTC() }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapWriteErr translates constraint violations reported by the driver into
// store sentinels. Other errors pass through unchanged.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_TRIGGER:
		// ON DELETE RESTRICT is reported as a trigger constraint.
		return fmt.Errorf("%w: %v", store.ErrConflict, err)
	default:
		return err
	}
}

// requireRow turns a zero RowsAffected into ErrNotFound.
func requireRow(n int64, err error) error {
	if err != nil {
		return mapWriteErr(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func stampOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return now()
	}
	return t.UTC()
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:           row.ID,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Phone:        row.Phone,
		Address:      row.Address,
		UnitNumber:   row.UnitNumber,
		PropertyType: domain.PropertyType(row.PropertyType),
		Role:         domain.Role(row.Role),
		Verified:     row.Verified,
		MFAEnabled:   mapNullTimePtr(row.MfaEnabled),
		MFASecret:    mapNullStringPtr(row.MfaSecret),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func mapPayment(row gen.Payment) (domain.Payment, error) {
	due, err := domain.ParseDate(row.DueDate)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payment %s: due_date %q: %w", row.ID, row.DueDate, err)
	}
	return domain.Payment{
		ID:              row.ID,
		UserID:          row.UserID,
		Amount:          domain.Cents(row.AmountCents),
		Method:          domain.PaymentMethod(row.Method),
		Category:        domain.PaymentCategory(row.Category),
		DueDate:         due,
		Status:          domain.PaymentStatus(row.Status),
		RejectionReason: mapNullStringPtr(row.RejectionReason),
		LateFee:         domain.Cents(row.LateFeeCents),
		Penalty:         domain.Cents(row.PenaltyCents),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

func mapPaymentWithOwner(row gen.Payment, first, last, email string) (domain.Payment, error) {
	p, err := mapPayment(row)
	if err != nil {
		return p, err
	}
	p.Owner = &domain.PaymentOwner{FirstName: first, LastName: last, Email: email}
	return p, nil
}

func mapAnnouncement(row gen.Announcement) domain.Announcement {
	return domain.Announcement{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		Priority:  domain.Priority(row.Priority),
		CreatedBy: mapNullStringPtr(row.CreatedBy),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
