package portalsdk

import (
	"context"
	"net/http"
	"net/url"
)

// SubmitPayment files a payment claim. It starts pending.
func (s *Session) SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*PaymentResponse, error) {
	var out PaymentResponse
	if err := s.do(ctx, http.MethodPost, "/v1/payments", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPayments returns the caller's own payments, newest first.
func (s *Session) ListPayments(ctx context.Context) ([]PaymentResponse, error) {
	var out []PaymentResponse
	if err := s.do(ctx, http.MethodGet, "/v1/payments", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllPayments returns every member's payments with owner details.
// Requires: admin role
func (s *Session) ListAllPayments(ctx context.Context) ([]PaymentResponse, error) {
	var out []PaymentResponse
	if err := s.do(ctx, http.MethodGet, "/v1/payments/all", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPayment returns a single payment owned by the caller, or any payment
// for an administrator.
func (s *Session) GetPayment(ctx context.Context, id string) (*PaymentResponse, error) {
	var out PaymentResponse
	if err := s.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentCategories returns the category catalogue with suggested amounts.
func (s *Session) PaymentCategories(ctx context.Context) ([]CategoryResponse, error) {
	var out []CategoryResponse
	if err := s.do(ctx, http.MethodGet, "/v1/payments/categories", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// TransitionPayment moves a pending payment to completed or failed.
// Requires: admin role
func (s *Session) TransitionPayment(ctx context.Context, id string, req TransitionPaymentRequest) (*PaymentResponse, error) {
	var out PaymentResponse
	path := "/v1/payments/" + url.PathEscape(id) + "/status"
	if err := s.do(ctx, http.MethodPut, path, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApprovePayment marks a pending payment completed.
// Requires: admin role
func (s *Session) ApprovePayment(ctx context.Context, id string) (*PaymentResponse, error) {
	return s.TransitionPayment(ctx, id, TransitionPaymentRequest{Status: "completed"})
}

// RejectPayment marks a pending payment failed. An empty reason is omitted.
// Requires: admin role
func (s *Session) RejectPayment(ctx context.Context, id, reason string) (*PaymentResponse, error) {
	req := TransitionPaymentRequest{Status: "failed"}
	if reason != "" {
		req.RejectionReason = &reason
	}
	return s.TransitionPayment(ctx, id, req)
}
