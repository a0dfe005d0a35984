package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
)

const paymentColumns = `p.id, p.user_id, p.amount_cents, p.method, p.category, p.due_date, p.status,
       p.rejection_reason, p.late_fee_cents, p.penalty_cents, p.created_at, p.updated_at`

type paymentsRepo struct {
	db DBTX
}

func scanPayment(row rowScanner, withOwner bool) (domain.Payment, error) {
	var (
		p        domain.Payment
		amount   int64
		method   string
		category string
		due      time.Time
		status   string
		reason   sql.NullString
		lateFee  int64
		penalty  int64
		owner    domain.PaymentOwner
	)
	dest := []any{
		&p.ID, &p.UserID, &amount, &method, &category, &due, &status,
		&reason, &lateFee, &penalty, &p.CreatedAt, &p.UpdatedAt,
	}
	if withOwner {
		dest = append(dest, &owner.FirstName, &owner.LastName, &owner.Email)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Payment{}, err
	}

	p.Amount = domain.Cents(amount)
	p.Method = domain.PaymentMethod(method)
	p.Category = domain.PaymentCategory(category)
	p.DueDate = domain.DateOf(due.UTC())
	p.Status = domain.PaymentStatus(status)
	p.RejectionReason = stringPtr(reason)
	p.LateFee = domain.Cents(lateFee)
	p.Penalty = domain.Cents(penalty)
	if withOwner {
		p.Owner = &owner
	}
	return p, nil
}

func (r *paymentsRepo) CreatePayment(ctx context.Context, p domain.Payment) error {
	if err := store.ValidateNewPayment(p); err != nil {
		return err
	}

	query := `INSERT INTO payments (
        id, user_id, amount_cents, method, category, due_date, status,
        rejection_reason, late_fee_cents, penalty_cents, created_at, updated_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Amount.Cents(), string(p.Method), string(p.Category), p.DueDate.Time(),
		string(p.Status), nullString(p.RejectionReason), p.LateFee.Cents(), p.Penalty.Cents(),
		stampOrNow(p.CreatedAt),
	)
	return mapErr(err)
}

func (r *paymentsRepo) GetPaymentByID(ctx context.Context, id string) (domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `, u.first_name, u.last_name, u.email
    FROM payments p
    JOIN users u ON u.id = p.user_id
    WHERE p.id = $1`

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id), true)
	if err != nil {
		return domain.Payment{}, mapErr(err)
	}
	return p, nil
}

func (r *paymentsRepo) list(ctx context.Context, query string, withOwner bool, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows, withOwner)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *paymentsRepo) ListPaymentsByOwner(ctx context.Context, userID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
    FROM payments p
    WHERE p.user_id = $1
    ORDER BY p.created_at DESC, p.id DESC`
	return r.list(ctx, query, false, userID)
}

func (r *paymentsRepo) ListAllPayments(ctx context.Context) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `, u.first_name, u.last_name, u.email
    FROM payments p
    JOIN users u ON u.id = p.user_id
    ORDER BY p.created_at DESC, p.id DESC`
	return r.list(ctx, query, true)
}

// TransitionPayment relies on the row lock the UPDATE takes: a concurrent
// transition blocks, re-evaluates the status predicate, and matches nothing.
func (r *paymentsRepo) TransitionPayment(ctx context.Context, t store.TransitionParams) (domain.Payment, error) {
	if err := store.ValidateTransition(t); err != nil {
		return domain.Payment{}, err
	}

	query := `UPDATE payments p
    SET status = $1, rejection_reason = $2, updated_at = $3
    WHERE p.id = $4 AND p.status = $5
    RETURNING ` + paymentColumns

	p, err := scanPayment(r.db.QueryRowContext(ctx, query,
		string(t.To), nullString(t.RejectionReason), stampOrNow(t.At), t.ID, string(t.From),
	), false)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, t.ID).Scan(&exists); err != nil {
			return domain.Payment{}, mapErr(err)
		}
		if !exists {
			return domain.Payment{}, store.ErrNotFound
		}
		return domain.Payment{}, store.ErrConflict
	}
	if err != nil {
		return domain.Payment{}, mapErr(err)
	}
	return p, nil
}

func (r *paymentsRepo) CountPaymentsByOwner(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, mapErr(err)
	}
	return count, nil
}
