/*
Package portalsdk provides a client SDK for the HOA portal API.

# Client vs Session

The package is organized around two main types:

  - Client: public operations (health, keys, register, login)
  - Session: operations on behalf of a signed-in member

	client := portalsdk.NewClient("https://portal.example.com")

	// Check service health
	health, err := client.GetReadiness(ctx)

	// Sign in
	session, err := client.Login(ctx, "owner@example.com", password, "")

	// File a payment claim
	p, err := session.SubmitPayment(ctx, portalsdk.SubmitPaymentRequest{
		Amount:   "500",
		Method:   "bank-transfer",
		Category: "monthly_dues",
		DueDate:  "2024-01-01",
	})

# Multi-Factor Authentication

Members with TOTP enabled must pass the current code to Login:

	session, err := client.Login(ctx, email, password, otpCode)

Enrollment is a two step flow on the Session:

	enroll, err := session.EnrollTOTP(ctx) // load enroll.URL into an authenticator
	err = session.VerifyTOTP(ctx, code)

# Roles

The server re-reads the caller's role on every request. Administrator
operations (ListAllPayments, TransitionPayment, user and announcement
management) fail with ErrForbidden for other roles, and a role change made
by an administrator applies to an existing Session immediately.

# Error Handling

Every non-2xx answer is an *APIError. Compare with errors.Is against the
package sentinels:

	_, err := session.ApprovePayment(ctx, id)
	switch {
	case errors.Is(err, portalsdk.ErrConflict):
		// already adjudicated
	case errors.Is(err, portalsdk.ErrForbidden):
		// not an administrator
	}

Validation failures carry per-field messages in APIError.Details.
*/
package portalsdk
