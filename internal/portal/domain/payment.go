package domain

import (
	"strings"
	"time"
)

// PaymentStatus is the adjudication state of a payment claim.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
)

// ParsePaymentStatus accepts the stored string form of a status.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch st := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusCompleted, StatusFailed:
		return st, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition is the whole payment state machine: pending moves to
// completed or failed, and nothing moves out of a terminal state.
func CanTransition(from, to PaymentStatus) bool {
	return from == StatusPending && (to == StatusCompleted || to == StatusFailed)
}

// PaymentMethod is how the member says they paid.
type PaymentMethod string

const (
	MethodMobileWallet   PaymentMethod = "mobile-wallet"
	MethodExternalWallet PaymentMethod = "external-wallet"
	MethodCreditCard     PaymentMethod = "credit-card"
	MethodDebitCard      PaymentMethod = "debit-card"
	MethodBankTransfer   PaymentMethod = "bank-transfer"
)

var methodAliases = map[string]PaymentMethod{
	"gcash":  MethodMobileWallet,
	"paypal": MethodExternalWallet,
}

// ParsePaymentMethod normalises a submitted method. Underscore spellings and
// the provider names used by older clients map onto the canonical set.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if m, ok := methodAliases[key]; ok {
		return m, true
	}
	m := PaymentMethod(strings.ReplaceAll(key, "_", "-"))
	if m.Valid() {
		return m, true
	}
	return "", false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodMobileWallet, MethodExternalWallet, MethodCreditCard,
		MethodDebitCard, MethodBankTransfer:
		return true
	default:
		return false
	}
}

// PaymentCategory is what the payment is for.
type PaymentCategory string

const (
	CategoryMonthlyDues PaymentCategory = "monthly_dues"
	CategorySticker     PaymentCategory = "sticker"
	CategoryOneTimeFee  PaymentCategory = "one_time_fee"
	CategoryOther       PaymentCategory = "other"
)

// ParsePaymentCategory normalises a submitted category; dashes are accepted
// in place of underscores.
func ParsePaymentCategory(s string) (PaymentCategory, bool) {
	c := PaymentCategory(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if c.Valid() {
		return c, true
	}
	return "", false
}

func (c PaymentCategory) Valid() bool {
	switch c {
	case CategoryMonthlyDues, CategorySticker, CategoryOneTimeFee, CategoryOther:
		return true
	default:
		return false
	}
}

// CategoryInfo describes a category for clients. SuggestedAmount pre-fills a
// form; it is never applied to a submission.
type CategoryInfo struct {
	Category        PaymentCategory
	Label           string
	SuggestedAmount Money // zero when there is no suggestion
}

// PaymentCategories returns the category catalogue.
func PaymentCategories() []CategoryInfo {
	return []CategoryInfo{
		{Category: CategoryMonthlyDues, Label: "Monthly Dues", SuggestedAmount: Units(500)},
		{Category: CategorySticker, Label: "Vehicle Sticker", SuggestedAmount: Units(100)},
		{Category: CategoryOneTimeFee, Label: "One-time Fee"},
		{Category: CategoryOther, Label: "Other"},
	}
}

// PaymentOwner is the member summary attached to listings.
type PaymentOwner struct {
	FirstName string
	LastName  string
	Email     string
}

// Payment is a member's claim that they paid an amount by some method.
type Payment struct {
	ID              string
	UserID          string
	Amount          Money
	Method          PaymentMethod
	Category        PaymentCategory
	DueDate         Date
	Status          PaymentStatus
	RejectionReason *string
	LateFee         Money
	Penalty         Money
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Owner is populated by listing queries only.
	Owner *PaymentOwner
}

// Validate enforces the field invariants of a stored payment.
func (p Payment) Validate() error {
	v := NewValidationError()
	if p.ID == "" {
		v.Add("id", "required")
	}
	if p.UserID == "" {
		v.Add("user_id", "required")
	}
	if !p.Amount.IsPositive() {
		v.Add("amount", "must be greater than zero")
	}
	if !p.Method.Valid() {
		v.Add("method", "must be one of mobile-wallet, external-wallet, credit-card, debit-card, bank-transfer")
	}
	if !p.Category.Valid() {
		v.Add("category", "must be one of monthly_dues, sticker, one_time_fee, other")
	}
	if p.DueDate.IsZero() {
		v.Add("due_date", "required")
	}
	if _, ok := ParsePaymentStatus(string(p.Status)); !ok {
		v.Add("status", "must be one of pending, completed, failed")
	}
	if p.LateFee < 0 {
		v.Add("late_fee", "must not be negative")
	}
	if p.Penalty < 0 {
		v.Add("penalty", "must not be negative")
	}
	if p.RejectionReason != nil && p.Status != StatusFailed {
		v.Add("rejection_reason", "only a failed payment carries a rejection reason")
	}
	return v.OrNil()
}

// LateFeePolicy assesses a flat surcharge on claims submitted past their due
// date plus a grace period. The zero value charges nothing.
type LateFeePolicy struct {
	Flat      Money
	GraceDays int
}

// Assess returns the late fee for a claim due on due and submitted at
// submitted.
func (p LateFeePolicy) Assess(due Date, submitted time.Time) Money {
	if p.Flat <= 0 || due.IsZero() {
		return 0
	}
	if due.DaysUntil(DateOf(submitted.UTC())) > p.GraceDays {
		return p.Flat
	}
	return 0
}
