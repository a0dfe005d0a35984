package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/pkg/httpx"
	"github.com/aussiebroadwan/hoaportal/pkg/idx"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
)

// writeError maps a service error onto the error body and status. Only the
// taxonomy sentinels are consulted, never messages. Unauthenticated is checked
// first: a wrong login code is both unauthenticated and a bad code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var verr *domain.ValidationError
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		log.Warn("unauthenticated", "err", err)
		httpx.WriteUnauthenticated(w, err.Error())
	case errors.Is(err, httpx.ErrBadJSON):
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorCodeInvalidRequest, err.Error())
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            httpx.ErrorCodeValidation,
			ErrorDescription: "request failed validation",
			Details:          verr.Fields,
		})
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorCodeValidation, err.Error())
	case errors.Is(err, service.ErrForbidden):
		log.Warn("forbidden", "err", err)
		httpx.WriteError(w, http.StatusForbidden, httpx.ErrorCodeForbidden, "your role does not permit this operation")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.ErrorCodeNotFound, "resource not found")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, httpx.ErrorCodeConflict, err.Error())
	default:
		log.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorCodeServerError, "internal server error")
	}
}

// actorFrom rebuilds the caller placed in the context by AuthnMiddleware.
func actorFrom(r *http.Request) service.Actor {
	p, _ := httpx.PrincipalFromContext(r.Context())
	role, _ := domain.ParseRole(p.Role)
	return service.Actor{UserID: p.UserID, Role: role}
}

// pathID returns the {id} path value. A value that is not a ULID cannot name
// any record and is answered with 404 directly.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !idx.Valid(id) {
		writeError(w, r, service.ErrNotFound)
		return "", false
	}
	return id, true
}
