package http

import (
	"net/http"

	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/pkg/httpx"
	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
)

// AdminUsersHandler serves account management for administrators.
type AdminUsersHandler struct {
	UserService *service.UserService
}

// HandleList handles GET /v1/admin/users
//
//	@Summary		List accounts
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		portalsdk.UserResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Not an administrator"
//	@Router			/v1/admin/users [get].
func (h *AdminUsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponses(users))
}

// HandleCreate handles POST /v1/admin/users
//
//	@Summary		Create an account
//	@Description	Creates an account with any role. When password is omitted one is generated and returned once.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.CreateUserRequest		true	"Account"
//	@Success		201		{object}	portalsdk.CreateUserResponse
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	portalsdk.ErrorResponse	"Not an administrator"
//	@Failure		409		{object}	portalsdk.ErrorResponse	"Email already registered"
//	@Router			/v1/admin/users [post].
func (h *AdminUsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req portalsdk.CreateUserRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	actor := actorFrom(r)
	created, err := h.UserService.Create(ctx, actor, service.CreateUserInput{
		RegisterInput: service.RegisterInput{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Password:     req.Password,
			Phone:        req.Phone,
			Address:      req.Address,
			UnitNumber:   req.UnitNumber,
			PropertyType: req.PropertyType,
		},
		Role:     req.Role,
		Verified: req.Verified,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("account created",
		"user_id", created.User.ID,
		"role", string(created.User.Role),
		"admin_id", actor.UserID,
	)
	httpx.WriteJSON(w, http.StatusCreated, portalsdk.CreateUserResponse{
		User:              toUserResponse(created.User),
		GeneratedPassword: created.GeneratedPassword,
	})
}

// HandleUpdate handles PUT /v1/admin/users/{id}
//
//	@Summary		Edit an account
//	@Description	Omitted fields keep their value. A role change applies to the member's next request.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"User ID"
//	@Param			request	body		portalsdk.AdminUpdateUserRequest	true	"Changes"
//	@Success		200		{object}	portalsdk.UserResponse
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	portalsdk.ErrorResponse	"Not an administrator"
//	@Failure		404		{object}	portalsdk.ErrorResponse	"User not found"
//	@Failure		409		{object}	portalsdk.ErrorResponse	"Email already registered"
//	@Router			/v1/admin/users/{id} [put].
func (h *AdminUsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req portalsdk.AdminUpdateUserRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.UserService.Update(r.Context(), actorFrom(r), id, service.AdminUserUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		UnitNumber:   req.UnitNumber,
		PropertyType: req.PropertyType,
		Role:         req.Role,
		Verified:     req.Verified,
		Password:     req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleDelete handles DELETE /v1/admin/users/{id}
//
//	@Summary		Delete an account
//	@Description	Accounts that own payments cannot be deleted. Administrators cannot delete themselves.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User ID"
//	@Success		204
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Not an administrator"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"User not found"
//	@Failure		409	{object}	portalsdk.ErrorResponse	"User has payments or is the caller"
//	@Router			/v1/admin/users/{id} [delete].
func (h *AdminUsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := actorFrom(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.UserService.Delete(ctx, actor, id); err != nil {
		writeError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("account deleted", "user_id", id, "admin_id", actor.UserID)
	w.WriteHeader(http.StatusNoContent)
}
