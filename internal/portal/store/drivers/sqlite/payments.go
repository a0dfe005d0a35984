package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store/drivers/sqlite/gen"
)

type paymentsRepo struct {
	q *gen.Queries
}

func (r *paymentsRepo) CreatePayment(ctx context.Context, p domain.Payment) error {
	if err := store.ValidateNewPayment(p); err != nil {
		return err
	}

	created := stampOrNow(p.CreatedAt)
	return mapWriteErr(r.q.CreatePayment(ctx, gen.CreatePaymentParams{
		ID:              p.ID,
		UserID:          p.UserID,
		AmountCents:     p.Amount.Cents(),
		Method:          string(p.Method),
		Category:        string(p.Category),
		DueDate:         p.DueDate.String(),
		Status:          string(p.Status),
		RejectionReason: mapOptionalString(p.RejectionReason),
		LateFeeCents:    p.LateFee.Cents(),
		PenaltyCents:    p.Penalty.Cents(),
		CreatedAt:       created,
		UpdatedAt:       created,
	}))
}

func (r *paymentsRepo) GetPaymentByID(ctx context.Context, id string) (domain.Payment, error) {
	row, err := r.q.GetPaymentByID(ctx, id)
	if err != nil {
		return domain.Payment{}, mapNotFound(err)
	}
	return mapPaymentWithOwner(row.Payment, row.FirstName, row.LastName, row.Email)
}

func (r *paymentsRepo) ListPaymentsByOwner(ctx context.Context, userID string) ([]domain.Payment, error) {
	rows, err := r.q.ListPaymentsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := mapPayment(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *paymentsRepo) ListAllPayments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := r.q.ListAllPayments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := mapPaymentWithOwner(row.Payment, row.FirstName, row.LastName, row.Email)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// TransitionPayment is a single conditional UPDATE, so of two racing
// transitions out of the same status exactly one matches a row.
func (r *paymentsRepo) TransitionPayment(ctx context.Context, p store.TransitionParams) (domain.Payment, error) {
	if err := store.ValidateTransition(p); err != nil {
		return domain.Payment{}, err
	}

	row, err := r.q.TransitionPayment(ctx, gen.TransitionPaymentParams{
		Status:          string(p.To),
		RejectionReason: mapOptionalString(p.RejectionReason),
		UpdatedAt:       stampOrNow(p.At),
		ID:              p.ID,
		Status_2:        string(p.From),
	})
	if errors.Is(err, sql.ErrNoRows) {
		n, cerr := r.q.PaymentExists(ctx, p.ID)
		if cerr != nil {
			return domain.Payment{}, cerr
		}
		if n == 0 {
			return domain.Payment{}, store.ErrNotFound
		}
		return domain.Payment{}, store.ErrConflict
	}
	if err != nil {
		return domain.Payment{}, err
	}
	return mapPayment(row)
}

func (r *paymentsRepo) CountPaymentsByOwner(ctx context.Context, userID string) (int64, error) {
	return r.q.CountPaymentsByOwner(ctx, userID)
}
