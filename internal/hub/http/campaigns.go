package http

import (
	"net/http"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
)

type CampaignsHandler struct {
	CampaignService *service.CampaignService
}

// viewer is nil for anonymous requests.
func viewer(r *http.Request) *service.Actor {
	if a, ok := actorFrom(r); ok {
		return &a
	}
	return nil
}

// HandleCreate opens a draft campaign.
//
//	@Summary		Create campaign
//	@Tags			Campaigns
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hubsdk.CreateCampaignRequest	true	"Campaign"
//	@Success		201		{object}	hubsdk.Response[hubsdk.CampaignResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse
//	@Failure		403		{object}	hubsdk.ErrorResponse	"Requires admin or brand_manager"
//	@Security		BearerAuth
//	@Router			/v1/campaigns [post].
func (h *CampaignsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req hubsdk.CreateCampaignRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.CampaignService.Create(r.Context(), actor, service.CampaignInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toCampaign(c))
}

// HandleList lists campaigns.
//
//	@Summary		List campaigns
//	@Description	Anonymous callers only see active campaigns. Authenticated callers may filter by status.
//	@Tags			Campaigns
//	@Produce		json
//	@Param			status	query		string	false	"Status filter"	Enums(draft, active, paused, completed, cancelled)
//	@Success		200		{object}	hubsdk.Response[[]hubsdk.CampaignResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse
//	@Router			/v1/campaigns [get].
func (h *CampaignsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := domain.CampaignStatus(r.URL.Query().Get("status"))

	list, err := h.CampaignService.List(r.Context(), viewer(r), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, mapSlice(list, toCampaign))
}

// HandleGet returns one campaign.
//
//	@Summary		Get campaign
//	@Tags			Campaigns
//	@Produce		json
//	@Param			id	path		string	true	"Campaign ID"
//	@Success		200	{object}	hubsdk.Response[hubsdk.CampaignResponse]
//	@Failure		404	{object}	hubsdk.ErrorResponse
//	@Router			/v1/campaigns/{id} [get].
func (h *CampaignsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.CampaignService.Get(r.Context(), viewer(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toCampaign(c))
}

// HandleUpdate edits a campaign that has not finished.
//
//	@Summary		Update campaign
//	@Tags			Campaigns
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Campaign ID"
//	@Param			request	body		hubsdk.UpdateCampaignRequest	true	"Changed fields"
//	@Success		200		{object}	hubsdk.Response[hubsdk.CampaignResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse	"Validation failed or campaign finished"
//	@Failure		403		{object}	hubsdk.ErrorResponse
//	@Failure		404		{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id} [patch].
func (h *CampaignsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req hubsdk.UpdateCampaignRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.CampaignService.Update(r.Context(), actor, r.PathValue("id"), service.CampaignPatch{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toCampaign(c))
}

// HandleDelete removes a draft campaign.
//
//	@Summary		Delete campaign
//	@Tags			Campaigns
//	@Param			id	path	string	true	"Campaign ID"
//	@Success		204
//	@Failure		400	{object}	hubsdk.ErrorResponse	"Campaign is not a draft"
//	@Failure		403	{object}	hubsdk.ErrorResponse
//	@Failure		404	{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id} [delete].
func (h *CampaignsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	if err := h.CampaignService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAction returns the handler for one lifecycle action.
//
//	@Summary		Campaign lifecycle action
//	@Description	activate: draft or paused to active. pause: active to paused. resume: paused to active.
//	@Description	complete: active to completed. cancel: any non-terminal status to cancelled.
//	@Tags			Campaigns
//	@Produce		json
//	@Param			id		path		string	true	"Campaign ID"
//	@Param			action	path		string	true	"Action"	Enums(activate, pause, resume, complete, cancel)
//	@Success		200		{object}	hubsdk.Response[hubsdk.CampaignResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse	"Cannot <action> campaign with status <current>"
//	@Failure		403		{object}	hubsdk.ErrorResponse
//	@Failure		404		{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id}/{action} [post].
func (h *CampaignsHandler) HandleAction(action domain.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := actorFrom(r)

		c, err := h.CampaignService.Transition(r.Context(), actor, r.PathValue("id"), action)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		respond(w, http.StatusOK, toCampaign(c))
	}
}
