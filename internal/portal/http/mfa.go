package http

import (
	"net/http"

	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/pkg/httpx"
	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
)

// MFAHandler handles all MFA-related endpoints.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll handles POST /v1/me/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP MFA
//	@Description	Generates a TOTP secret for the signed-in member. MFA is not active until the secret is verified.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	portalsdk.TOTPEnrollResponse	"TOTP secret and otpauth URL"
//	@Failure		401	{object}	portalsdk.ErrorResponse			"Invalid or missing session token"
//	@Failure		409	{object}	portalsdk.ErrorResponse			"MFA already enabled"
//	@Failure		500	{object}	portalsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/me/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	enrollment, err := h.MFAService.EnrollTOTP(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalsdk.TOTPEnrollResponse{
		Secret:  enrollment.Secret,
		URL:     enrollment.URL,
		Issuer:  enrollment.Issuer,
		Account: enrollment.Account,
	})
}

// HandleVerify handles POST /v1/me/mfa/totp/verify
//
//	@Summary		Verify TOTP code and enable MFA
//	@Description	Verifies a TOTP code against the pending secret and enables MFA. Later logins require a code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	portalsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success		204
//	@Failure		400	{object}	portalsdk.ErrorResponse	"Invalid TOTP code or request"
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		409	{object}	portalsdk.ErrorResponse	"Not enrolled or already enabled"
//	@Router			/v1/me/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req portalsdk.TOTPCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	actor := actorFrom(r)
	if err := h.MFAService.VerifyTOTP(ctx, actor, req.Code); err != nil {
		writeError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("mfa enabled", "user_id", actor.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemove handles DELETE /v1/me/mfa/totp
//
//	@Summary		Disable TOTP MFA
//	@Description	Turns MFA off. The current TOTP code must be supplied.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	portalsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success		204
//	@Failure		400	{object}	portalsdk.ErrorResponse	"Invalid TOTP code"
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		409	{object}	portalsdk.ErrorResponse	"MFA not enabled"
//	@Router			/v1/me/mfa/totp [delete].
func (h *MFAHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req portalsdk.TOTPCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	actor := actorFrom(r)
	if err := h.MFAService.DisableTOTP(ctx, actor, req.Code); err != nil {
		writeError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("mfa disabled", "user_id", actor.UserID)
	w.WriteHeader(http.StatusNoContent)
}
