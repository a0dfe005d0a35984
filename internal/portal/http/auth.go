package http

import (
	"net/http"

	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/pkg/httpx"
	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
)

// AuthHandler serves the public sign-up and sign-in endpoints.
type AuthHandler struct {
	IdentityService *service.IdentityService
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register a homeowner
//	@Description	Creates a homeowner account and returns a session token. Self-registered accounts always get the homeowner role.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.RegisterRequest	true	"Sign-up form"
//	@Success		201		{object}	portalsdk.SessionResponse	"Session token and account"
//	@Failure		400		{object}	portalsdk.ErrorResponse		"Validation failed"
//	@Failure		409		{object}	portalsdk.ErrorResponse		"Email already registered"
//	@Failure		429		{object}	portalsdk.ErrorResponse		"Rate limit exceeded"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, s, err := h.IdentityService.Register(r.Context(), service.RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Address:      req.Address,
		UnitNumber:   req.UnitNumber,
		PropertyType: req.PropertyType,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSessionResponse(u, s))
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Sign in
//	@Description	Exchanges email and password for a session token. Members with TOTP enabled must also send the current code in otp.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	portalsdk.SessionResponse	"Session token and account"
//	@Failure		400		{object}	portalsdk.ErrorResponse		"Malformed request"
//	@Failure		401		{object}	portalsdk.ErrorResponse		"Invalid credentials or missing code"
//	@Failure		429		{object}	portalsdk.ErrorResponse		"Rate limit exceeded"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, s, err := h.IdentityService.Login(r.Context(), req.Email, req.Password, req.OTP)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSessionResponse(u, s))
}
