package portal_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
	"github.com/stretchr/testify/require"
)

// TestPaymentLifecycle walks a claim from submission to adjudication.
func TestPaymentLifecycle(t *testing.T) {
	client := setupPortal(t)
	runPaymentLifecycle(t, client)
}

// TestPaymentLifecycleOnPostgres runs the same flow against the Postgres
// driver.
func TestPaymentLifecycleOnPostgres(t *testing.T) {
	client := setupPortalOnPostgres(t)
	runPaymentLifecycle(t, client)
}

func runPaymentLifecycle(t *testing.T, client *portalsdk.Client) {
	t.Helper()
	ctx := t.Context()

	owner := registerOwner(t, client, "owner@example.com")
	admin := loginAdmin(t, client)

	categories, err := owner.PaymentCategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	dues, err := owner.SubmitPayment(ctx, monthlyDues())
	require.NoError(t, err)
	require.Equal(t, "pending", dues.Status)
	require.Equal(t, "500.00", dues.Amount)
	require.Equal(t, owner.User().ID, dues.UserID)

	// members cannot adjudicate their own claims
	_, err = owner.ApprovePayment(ctx, dues.ID)
	requireAPIError(t, err, http.StatusForbidden, portalsdk.ErrorCodeForbidden)
	require.ErrorIs(t, err, portalsdk.ErrForbidden)

	approved, err := admin.ApprovePayment(ctx, dues.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", approved.Status)

	// terminal states do not move
	_, err = admin.RejectPayment(ctx, dues.ID, "too late")
	requireAPIError(t, err, http.StatusConflict, portalsdk.ErrorCodeConflict)

	sticker, err := owner.SubmitPayment(ctx, portalsdk.SubmitPaymentRequest{
		Amount:        "100",
		PaymentMethod: "gcash",
		PaymentPlan:   "sticker",
		DueDate:       "2024-02-01",
	})
	require.NoError(t, err)
	require.Equal(t, "mobile-wallet", sticker.Method)

	rejected, err := admin.RejectPayment(ctx, sticker.ID, "duplicate submission")
	require.NoError(t, err)
	require.Equal(t, "failed", rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	require.Equal(t, "duplicate submission", *rejected.RejectionReason)

	own, err := owner.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, own, 2)

	_, err = owner.ListAllPayments(ctx)
	requireAPIError(t, err, http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	all, err := admin.ListAllPayments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, p := range all {
		require.NotNil(t, p.Owner)
		require.Equal(t, "owner@example.com", p.Owner.Email)
	}

	// another member cannot see the owner's payment
	neighbour := registerOwner(t, client, "neighbour@example.com")
	_, err = neighbour.GetPayment(ctx, dues.ID)
	requireAPIError(t, err, http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	got, err := admin.GetPayment(ctx, dues.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", got.Status)
}

// TestConcurrentAdjudicationSingleWinner races approve against reject on one
// pending payment; exactly one must succeed.
func TestConcurrentAdjudicationSingleWinner(t *testing.T) {
	client := setupPortal(t)
	ctx := t.Context()

	owner := registerOwner(t, client, "owner@example.com")
	admin := loginAdmin(t, client)

	p, err := owner.SubmitPayment(ctx, monthlyDues())
	require.NoError(t, err)

	const racers = 8
	var (
		wg       sync.WaitGroup
		statuses [racers]string
		errs     [racers]error
	)
	for i := range racers {
		wg.Go(func() {
			var res *portalsdk.PaymentResponse
			if i%2 == 0 {
				res, errs[i] = admin.ApprovePayment(ctx, p.ID)
			} else {
				res, errs[i] = admin.RejectPayment(ctx, p.ID, "")
			}
			if res != nil {
				statuses[i] = res.Status
			}
		})
	}
	wg.Wait()

	var wins []string
	for i := range racers {
		if errs[i] != nil {
			require.ErrorIs(t, errs[i], portalsdk.ErrConflict)
			continue
		}
		wins = append(wins, statuses[i])
	}
	require.Len(t, wins, 1)
	final, err := admin.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, wins[0], final.Status)
}

// TestSubmitRejectsBadInput checks that validation errors come back with
// field details.
func TestSubmitRejectsBadInput(t *testing.T) {
	client := setupPortal(t)
	owner := registerOwner(t, client, "owner@example.com")

	_, err := owner.SubmitPayment(t.Context(), portalsdk.SubmitPaymentRequest{
		Amount:   "-5",
		Method:   "cheque-by-pigeon",
		Category: "monthly_dues",
		DueDate:  "2024-01-01",
	})
	apiErr := requireAPIError(t, err, http.StatusBadRequest, portalsdk.ErrorCodeValidation)
	require.Contains(t, apiErr.Details, "amount")
}
