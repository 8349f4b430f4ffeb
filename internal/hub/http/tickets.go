package http

import (
	"net/http"

	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
)

type TicketsHandler struct {
	TicketService *service.TicketService
}

// HandleCreate opens a support ticket.
//
//	@Summary		Open ticket
//	@Tags			Tickets
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hubsdk.CreateTicketRequest	true	"Ticket"
//	@Success		201		{object}	hubsdk.Response[hubsdk.TicketResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tickets [post].
func (h *TicketsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req hubsdk.CreateTicketRequest
	if !decode(w, r, &req) {
		return
	}

	t, err := h.TicketService.Create(r.Context(), actor, service.TicketInput{
		Subject:    req.Subject,
		Body:       req.Body,
		CampaignID: req.CampaignID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toTicket(t))
}

// HandleList lists the caller's tickets, or all of them for an admin.
//
//	@Summary		List tickets
//	@Tags			Tickets
//	@Produce		json
//	@Success		200	{object}	hubsdk.Response[[]hubsdk.TicketResponse]
//	@Security		BearerAuth
//	@Router			/v1/tickets [get].
func (h *TicketsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	list, err := h.TicketService.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, mapSlice(list, toTicket))
}

// HandleGet returns one ticket.
//
//	@Summary		Get ticket
//	@Tags			Tickets
//	@Produce		json
//	@Param			id	path		string	true	"Ticket ID"
//	@Success		200	{object}	hubsdk.Response[hubsdk.TicketResponse]
//	@Failure		403	{object}	hubsdk.ErrorResponse
//	@Failure		404	{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tickets/{id} [get].
func (h *TicketsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	t, err := h.TicketService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toTicket(t))
}

// HandleDelete removes a ticket.
//
//	@Summary		Delete ticket
//	@Tags			Tickets
//	@Param			id	path	string	true	"Ticket ID"
//	@Success		204
//	@Failure		403	{object}	hubsdk.ErrorResponse
//	@Failure		404	{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tickets/{id} [delete].
func (h *TicketsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	if err := h.TicketService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
