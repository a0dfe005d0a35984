package http

import (
	"net/http"

	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/pkg/httpx"
	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
)

// AnnouncementsHandler serves the community bulletin.
type AnnouncementsHandler struct {
	AnnouncementService *service.AnnouncementService
}

// HandleList handles GET /v1/announcements
//
//	@Summary		List announcements
//	@Tags			Announcements
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		portalsdk.AnnouncementResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/announcements [get].
func (h *AnnouncementsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	as, err := h.AnnouncementService.List(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAnnouncementResponses(as))
}

// HandleCreate handles POST /v1/announcements
//
//	@Summary		Publish an announcement
//	@Tags			Announcements
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.AnnouncementRequest	true	"Announcement"
//	@Success		201		{object}	portalsdk.AnnouncementResponse
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	portalsdk.ErrorResponse	"Not an administrator"
//	@Router			/v1/announcements [post].
func (h *AnnouncementsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.AnnouncementRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.AnnouncementService.Create(r.Context(), actorFrom(r), service.AnnouncementInput{
		Title:    req.Title,
		Content:  req.Content,
		Priority: req.Priority,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAnnouncementResponse(a))
}

// HandleUpdate handles PUT /v1/announcements/{id}
//
//	@Summary		Edit an announcement
//	@Description	Empty fields keep their stored value.
//	@Tags			Announcements
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Announcement ID"
//	@Param			request	body		portalsdk.AnnouncementRequest	true	"Changes"
//	@Success		200		{object}	portalsdk.AnnouncementResponse
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	portalsdk.ErrorResponse	"Not an administrator"
//	@Failure		404		{object}	portalsdk.ErrorResponse	"Announcement not found"
//	@Router			/v1/announcements/{id} [put].
func (h *AnnouncementsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req portalsdk.AnnouncementRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.AnnouncementService.Update(r.Context(), actorFrom(r), id, service.AnnouncementInput{
		Title:    req.Title,
		Content:  req.Content,
		Priority: req.Priority,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAnnouncementResponse(a))
}

// HandleDelete handles DELETE /v1/announcements/{id}
//
//	@Summary		Delete an announcement
//	@Tags			Announcements
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Announcement ID"
//	@Success		204
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Not an administrator"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Announcement not found"
//	@Router			/v1/announcements/{id} [delete].
func (h *AnnouncementsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.AnnouncementService.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
