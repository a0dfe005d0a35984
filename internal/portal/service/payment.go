package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/hoaportal/internal/portal/authz"
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/pkg/idx"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
)

// RejectionReasonMax bounds the free-text reason attached to a rejection.
const RejectionReasonMax = 500

// PaymentService owns the payment lifecycle: members submit claims, and
// administrators move each pending claim to completed or failed exactly once.
type PaymentService struct {
	Store    store.Store
	Clock    func() time.Time
	LateFees domain.LateFeePolicy
	Metrics  *Metrics
}

// SubmitPaymentInput is a member's payment claim. Method and Category are
// raw client strings; aliases are normalised by Submit.
type SubmitPaymentInput struct {
	Amount   domain.Money
	Method   string
	Category string
	DueDate  domain.Date
}

// Submit records a pending claim owned by the actor. The amount is taken as
// given; category suggestions never replace it.
func (s *PaymentService) Submit(ctx context.Context, actor Actor, in SubmitPaymentInput) (domain.Payment, error) {
	if err := actor.Authorize(authz.SubmitPayment); err != nil {
		return domain.Payment{}, err
	}

	v := domain.NewValidationError()
	method, ok := domain.ParsePaymentMethod(in.Method)
	if !ok {
		v.Add("method", "must be one of mobile-wallet, external-wallet, credit-card, debit-card, bank-transfer")
	}
	category, ok := domain.ParsePaymentCategory(in.Category)
	if !ok {
		v.Add("category", "must be one of monthly_dues, sticker, one_time_fee, other")
	}

	now := clockOrNow(s.Clock)
	p := domain.Payment{
		ID:        idx.NewAt(now).String(),
		UserID:    actor.UserID,
		Amount:    in.Amount,
		Method:    method,
		Category:  category,
		DueDate:   in.DueDate,
		Status:    domain.StatusPending,
		LateFee:   s.LateFees.Assess(in.DueDate, now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := mergeValidation(v, p.Validate()); err != nil {
		return domain.Payment{}, err
	}
	if err := v.OrNil(); err != nil {
		return domain.Payment{}, err
	}

	if err := s.Store.Payments().CreatePayment(ctx, p); err != nil {
		return domain.Payment{}, err
	}
	s.Metrics.paymentSubmitted(p.Category)

	slogx.FromContext(ctx).Info("payment submitted",
		slog.String("payment_id", p.ID),
		slog.String("amount", p.Amount.String()),
		slog.String("category", string(p.Category)),
	)
	return p, nil
}

// Approve confirms a pending claim.
func (s *PaymentService) Approve(ctx context.Context, actor Actor, id string) (domain.Payment, error) {
	return s.Transition(ctx, actor, id, domain.StatusCompleted, nil)
}

// Reject fails a pending claim. A nil or blank reason is stored as absent.
func (s *PaymentService) Reject(ctx context.Context, actor Actor, id string, reason *string) (domain.Payment, error) {
	return s.Transition(ctx, actor, id, domain.StatusFailed, reason)
}

// Transition adjudicates a pending claim. Only completed and failed are
// valid targets, and only a failure may carry a reason. Of two racing
// adjudications of the same claim one wins and the other gets ErrConflict;
// a claim that is already terminal always yields ErrConflict.
func (s *PaymentService) Transition(ctx context.Context, actor Actor, id string, to domain.PaymentStatus, reason *string) (domain.Payment, error) {
	if err := actor.Authorize(authz.TransitionPaymentStatus); err != nil {
		return domain.Payment{}, err
	}
	l := slogx.FromContext(ctx)

	v := domain.NewValidationError()
	if to != domain.StatusCompleted && to != domain.StatusFailed {
		v.Add("status", "must be completed or failed")
	}
	if reason != nil && strings.TrimSpace(*reason) == "" {
		reason = nil
	}
	if reason != nil {
		switch {
		case to != domain.StatusFailed:
			v.Add("rejection_reason", "only a rejection carries a reason")
		case utf8.RuneCountInString(*reason) > RejectionReasonMax:
			v.Add("rejection_reason", "too long (max 500)")
		}
	}
	if err := v.OrNil(); err != nil {
		return domain.Payment{}, err
	}

	p, err := s.Store.Payments().TransitionPayment(ctx, store.TransitionParams{
		ID:              id,
		From:            domain.StatusPending,
		To:              to,
		RejectionReason: reason,
		At:              clockOrNow(s.Clock),
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		s.Metrics.paymentTransitioned(to, "conflict")
		l.Info("payment transition lost",
			slog.String("payment_id", id),
			slog.String("to", string(to)),
		)
		return domain.Payment{}, err
	case err != nil:
		return domain.Payment{}, err
	}

	s.Metrics.paymentTransitioned(to, "ok")
	l.Info("payment adjudicated",
		slog.String("payment_id", p.ID),
		slog.String("status", string(p.Status)),
		slog.String("by", actor.UserID),
	)
	return p, nil
}

// ListOwn returns the actor's own claims, newest first.
func (s *PaymentService) ListOwn(ctx context.Context, actor Actor) ([]domain.Payment, error) {
	if err := actor.Authorize(authz.ViewOwnPayments); err != nil {
		return nil, err
	}
	return s.Store.Payments().ListPaymentsByOwner(ctx, actor.UserID)
}

// ListAll returns every claim with its owner summary, newest first.
func (s *PaymentService) ListAll(ctx context.Context, actor Actor) ([]domain.Payment, error) {
	if err := actor.Authorize(authz.ViewAllPayments); err != nil {
		return nil, err
	}
	return s.Store.Payments().ListAllPayments(ctx)
}

// Get returns one claim to its owner or to an administrator. Members get the
// same ErrForbidden for another member's claim and for an ID that does not
// exist, so they cannot tell which IDs are in use.
func (s *PaymentService) Get(ctx context.Context, actor Actor, id string) (domain.Payment, error) {
	if err := actor.Authorize(authz.ViewOwnPayments); err != nil {
		return domain.Payment{}, err
	}
	seeAll := actor.Can(authz.ViewAllPayments)

	p, err := s.Store.Payments().GetPaymentByID(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound) && !seeAll:
		return domain.Payment{}, authz.Authorize(actor.Role, authz.ViewAllPayments)
	case err != nil:
		return domain.Payment{}, err
	case p.UserID != actor.UserID && !seeAll:
		return domain.Payment{}, authz.Authorize(actor.Role, authz.ViewAllPayments)
	}
	return p, nil
}

// Categories returns the category catalogue with suggested amounts.
func (s *PaymentService) Categories() []domain.CategoryInfo {
	return domain.PaymentCategories()
}
