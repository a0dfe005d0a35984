package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/pkg/httpx"
	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
)

// PaymentsHandler serves payment claims and their adjudication.
type PaymentsHandler struct {
	PaymentService *service.PaymentService
}

// HandleSubmit handles POST /v1/payments
//
//	@Summary		Submit a payment claim
//	@Description	Files a claim that starts pending. amount may be a number or a decimal string. payment_method and payment_plan are accepted in place of method and category.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.SubmitPaymentRequest	true	"Payment claim"
//	@Success		201		{object}	portalsdk.PaymentResponse
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/payments [post].
func (h *PaymentsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.SubmitPaymentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in, err := submitInput(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.PaymentService.Submit(r.Context(), actorFrom(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPaymentResponse(p))
}

// submitInput parses the wire form. Missing fields are left zero for the
// service to report alongside its own checks.
func submitInput(req portalsdk.SubmitPaymentRequest) (service.SubmitPaymentInput, error) {
	in := service.SubmitPaymentInput{
		Method:   firstNonEmpty(req.Method, req.PaymentMethod),
		Category: firstNonEmpty(req.Category, req.PaymentPlan),
	}

	v := domain.NewValidationError()
	if s := strings.TrimSpace(string(req.Amount)); s != "" {
		m, err := domain.ParseMoney(s)
		if err != nil {
			v.Add("amount", "must be a decimal amount with at most two fractional digits")
		}
		in.Amount = m
	}
	if s := strings.TrimSpace(req.DueDate); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			v.Add("due_date", "must be a date (YYYY-MM-DD)")
		}
		in.DueDate = d
	}
	return in, v.OrNil()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// HandleListOwn handles GET /v1/payments
//
//	@Summary		List own payments
//	@Description	Returns the caller's own claims, newest first. Never includes other members' payments.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		portalsdk.PaymentResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/payments [get].
func (h *PaymentsHandler) HandleListOwn(w http.ResponseWriter, r *http.Request) {
	ps, err := h.PaymentService.ListOwn(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPaymentResponses(ps))
}

// HandleListAll handles GET /v1/payments/all
//
//	@Summary		List all payments
//	@Description	Returns every member's claims with owner details, newest first. Administrators only.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		portalsdk.PaymentResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Not an administrator"
//	@Router			/v1/payments/all [get].
func (h *PaymentsHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	ps, err := h.PaymentService.ListAll(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPaymentResponses(ps))
}

// HandleCategories handles GET /v1/payments/categories
//
//	@Summary		Payment categories
//	@Description	Returns the category catalogue. Suggested amounts are hints and never override a submitted amount.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		portalsdk.CategoryResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/payments/categories [get].
func (h *PaymentsHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, toCategoryResponses(h.PaymentService.Categories()))
}

// HandleGet handles GET /v1/payments/{id}
//
//	@Summary		Get a payment
//	@Description	Returns one claim to its owner or to an administrator.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Payment ID"
//	@Success		200	{object}	portalsdk.PaymentResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Not the owner"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Payment not found"
//	@Router			/v1/payments/{id} [get].
func (h *PaymentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.PaymentService.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPaymentResponse(p))
}

// HandleTransition handles PUT /v1/payments/{id}/status
//
//	@Summary		Adjudicate a payment
//	@Description	Moves a pending claim to completed or failed. A rejection_reason is only accepted with failed. Of two racing adjudications exactly one succeeds; the other, and any attempt on a completed or failed claim, gets 409.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Payment ID"
//	@Param			request	body		portalsdk.TransitionPaymentRequest	true	"Target status"
//	@Success		200		{object}	portalsdk.PaymentResponse
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		403		{object}	portalsdk.ErrorResponse	"Not an administrator"
//	@Failure		404		{object}	portalsdk.ErrorResponse	"Payment not found"
//	@Failure		409		{object}	portalsdk.ErrorResponse	"Payment is not pending"
//	@Router			/v1/payments/{id}/status [put].
func (h *PaymentsHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req portalsdk.TransitionPaymentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	// An unknown status parses to "" and is reported by the service.
	to, _ := domain.ParsePaymentStatus(req.Status)

	p, err := h.PaymentService.Transition(ctx, actorFrom(r), id, to, req.RejectionReason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPaymentResponse(p))
}
