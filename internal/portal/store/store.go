package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a write that lost against the current state of the
	// row: an illegal status edge, a payment already adjudicated, or a delete
	// blocked by referencing rows.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are reached through methods so a Tx-scoped
// Store can hand out the same repositories bound to the transaction.
type Store interface {
	Users() Users
	Payments() Payments
	Announcements() Announcements

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// UserUpdate carries the mutable profile fields of a user. Nil fields are
// left untouched.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	Address      *string
	UnitNumber   *string
	PropertyType *domain.PropertyType
	Email        *string
	Role         *domain.Role
	Verified     *bool
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by normalised email, used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns every user, newest first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser applies the non-nil fields of upd and bumps updated_at.
	UpdateUser(ctx context.Context, userID string, upd UserUpdate) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// DeleteUser removes a user. Payments reference users with RESTRICT, so a
	// member with payment history yields ErrConflict.
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)

	// UpdateMFASecret sets the pending TOTP secret for a user.
	UpdateMFASecret(ctx context.Context, userID string, secret string) error

	// EnableMFA marks MFA as enabled for a user (sets mfa_enabled timestamp).
	EnableMFA(ctx context.Context, userID string) error

	// DisableMFA clears mfa_enabled and mfa_secret.
	DisableMFA(ctx context.Context, userID string) error
}

// TransitionParams describes a compare-and-swap on a payment's status.
type TransitionParams struct {
	ID              string
	From            domain.PaymentStatus
	To              domain.PaymentStatus
	RejectionReason *string
	At              time.Time
}

type Payments interface {
	// CreatePayment validates p and inserts it. Only pending payments may be
	// created.
	CreatePayment(ctx context.Context, p domain.Payment) error

	// GetPaymentByID returns a single payment with its owner summary.
	GetPaymentByID(ctx context.Context, id string) (domain.Payment, error)

	// ListPaymentsByOwner returns a member's payments, newest first.
	ListPaymentsByOwner(ctx context.Context, userID string) ([]domain.Payment, error)

	// ListAllPayments returns every payment with owner summaries, newest first.
	ListAllPayments(ctx context.Context) ([]domain.Payment, error)

	// TransitionPayment moves a payment from p.From to p.To only if its stored
	// status still equals p.From. A missing payment yields ErrNotFound and a
	// payment in any other state yields ErrConflict.
	TransitionPayment(ctx context.Context, p TransitionParams) (domain.Payment, error)

	// CountPaymentsByOwner counts a member's payments of any status.
	CountPaymentsByOwner(ctx context.Context, userID string) (int64, error)
}

// AnnouncementUpdate carries the editable fields; nil keeps the old value.
type AnnouncementUpdate struct {
	Title    *string
	Content  *string
	Priority *domain.Priority
}

type Announcements interface {
	CreateAnnouncement(ctx context.Context, a domain.Announcement) error
	GetAnnouncementByID(ctx context.Context, id string) (domain.Announcement, error)

	// ListAnnouncements returns every announcement, newest first.
	ListAnnouncements(ctx context.Context) ([]domain.Announcement, error)

	UpdateAnnouncement(ctx context.Context, id string, upd AnnouncementUpdate) (domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
}
