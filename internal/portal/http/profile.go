package http

import (
	"net/http"

	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/pkg/httpx"
	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	UserService *service.UserService
}

// HandleGet handles GET /v1/me
//
//	@Summary		Current account
//	@Description	Returns the signed-in member's account as currently stored.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	portalsdk.UserResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/me [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.Me(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleUpdate handles PUT /v1/me
//
//	@Summary		Update profile
//	@Description	Edits the caller's own profile. Omitted fields keep their value. Changing the password requires current_password.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.UpdateProfileRequest	true	"Profile changes"
//	@Success		200		{object}	portalsdk.UserResponse
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/me [put].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.UserService.UpdateProfile(r.Context(), actorFrom(r), service.ProfileUpdate{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Address:         req.Address,
		UnitNumber:      req.UnitNumber,
		PropertyType:    req.PropertyType,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}
