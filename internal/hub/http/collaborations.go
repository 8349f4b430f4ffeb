package http

import (
	"net/http"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
)

type CollaborationsHandler struct {
	CollaborationService *service.CollaborationService
}

// HandleInvite invites an influencer to a campaign.
//
//	@Summary		Invite influencer
//	@Tags			Collaborations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Campaign ID"
//	@Param			request	body		hubsdk.InviteRequest	true	"Invitation"
//	@Success		201		{object}	hubsdk.Response[hubsdk.CollaborationResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse	"Invitee is not an influencer or campaign finished"
//	@Failure		403		{object}	hubsdk.ErrorResponse
//	@Failure		404		{object}	hubsdk.ErrorResponse
//	@Failure		409		{object}	hubsdk.ErrorResponse	"Already invited"
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id}/collaborations [post].
func (h *CollaborationsHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req hubsdk.InviteRequest
	if !decode(w, r, &req) {
		return
	}

	col, err := h.CollaborationService.Invite(r.Context(), actor, r.PathValue("id"), req.InfluencerID, req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toCollaboration(col))
}

// HandleList lists a campaign's collaborations.
//
//	@Summary		List collaborations
//	@Description	Influencers only see their own collaboration.
//	@Tags			Collaborations
//	@Produce		json
//	@Param			id	path		string	true	"Campaign ID"
//	@Success		200	{object}	hubsdk.Response[[]hubsdk.CollaborationResponse]
//	@Failure		403	{object}	hubsdk.ErrorResponse
//	@Failure		404	{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id}/collaborations [get].
func (h *CollaborationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	list, err := h.CollaborationService.List(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, mapSlice(list, toCollaboration))
}

// HandleGet returns one collaboration.
//
//	@Summary		Get collaboration
//	@Tags			Collaborations
//	@Produce		json
//	@Param			id	path		string	true	"Collaboration ID"
//	@Success		200	{object}	hubsdk.Response[hubsdk.CollaborationResponse]
//	@Failure		403	{object}	hubsdk.ErrorResponse
//	@Failure		404	{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/collaborations/{id} [get].
func (h *CollaborationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	col, err := h.CollaborationService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toCollaboration(col))
}

// HandleAction returns the handler for one lifecycle action.
//
//	@Summary		Collaboration lifecycle action
//	@Description	accept and decline are for the invited influencer. start, complete and cancel are for the campaign's managers.
//	@Tags			Collaborations
//	@Produce		json
//	@Param			id		path		string	true	"Collaboration ID"
//	@Param			action	path		string	true	"Action"	Enums(accept, decline, start, complete, cancel)
//	@Success		200		{object}	hubsdk.Response[hubsdk.CollaborationResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse	"Cannot <action> collaboration with status <current>"
//	@Failure		403		{object}	hubsdk.ErrorResponse
//	@Failure		404		{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/collaborations/{id}/{action} [post].
func (h *CollaborationsHandler) HandleAction(action domain.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := actorFrom(r)

		col, err := h.CollaborationService.Transition(r.Context(), actor, r.PathValue("id"), action)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		respond(w, http.StatusOK, toCollaboration(col))
	}
}
