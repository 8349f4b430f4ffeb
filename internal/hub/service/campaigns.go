package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
	"github.com/aussiebroadwan/campaignhub/pkg/idx"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
)

const entityCampaign = "campaign"

// maxEditAttempts bounds the read-modify-write retry in Update.
const maxEditAttempts = 3

type CampaignService struct {
	Store   store.Store
	Now     func() time.Time
	Observe Observer
}

type CampaignInput struct {
	Title       string
	Description string
	Budget      int64
}

// CampaignPatch holds the optional fields of an edit.
type CampaignPatch struct {
	Title       *string
	Description *string
	Budget      *int64
}

func (s *CampaignService) observe(action, outcome string) {
	if s.Observe != nil {
		s.Observe(entityCampaign, action, outcome)
	}
}

// Create opens a draft campaign owned by the actor.
func (s *CampaignService) Create(ctx context.Context, actor Actor, in CampaignInput) (domain.Campaign, error) {
	if !actor.IsAdmin() && actor.Role != domain.RoleBrandManager {
		return domain.Campaign{}, ErrForbidden
	}
	if strings.TrimSpace(in.Title) == "" {
		return domain.Campaign{}, invalidInput("title is required")
	}
	if in.Budget < 0 {
		return domain.Campaign{}, invalidInput("budget must not be negative")
	}

	now := nowFrom(s.Now)
	c := domain.Campaign{
		ID:          idx.NewAt(now),
		OwnerID:     actor.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Budget:      in.Budget,
		Status:      domain.CampaignDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Campaigns().CreateCampaign(ctx, c); err != nil {
		return domain.Campaign{}, err
	}

	slogx.FromContext(ctx).Info("campaign created", "campaign_id", c.ID, "owner_id", c.OwnerID)
	return c, nil
}

// Get returns a campaign. Anonymous viewers (nil) only see active campaigns;
// anything else is reported as not found.
func (s *CampaignService) Get(ctx context.Context, viewer *Actor, id string) (domain.Campaign, error) {
	c, err := s.Store.Campaigns().GetCampaignByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, err
	}
	if viewer == nil && c.Status != domain.CampaignActive {
		return domain.Campaign{}, ErrNotFound
	}
	return c, nil
}

// List returns campaigns, optionally filtered by status. Anonymous viewers
// only ever see active campaigns.
func (s *CampaignService) List(ctx context.Context, viewer *Actor, status domain.CampaignStatus) ([]domain.Campaign, error) {
	if status != "" && !status.Valid() {
		return nil, invalidInput("unknown campaign status " + string(status))
	}
	f := domain.CampaignFilter{Status: status}
	if viewer == nil {
		if status != "" && status != domain.CampaignActive {
			return []domain.Campaign{}, nil
		}
		f.Status = domain.CampaignActive
	}
	return s.Store.Campaigns().ListCampaigns(ctx, f)
}

// Update edits title, description and budget while the campaign is not in a
// terminal status.
func (s *CampaignService) Update(ctx context.Context, actor Actor, id string, p CampaignPatch) (domain.Campaign, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return domain.Campaign{}, invalidInput("title must not be empty")
	}
	if p.Budget != nil && *p.Budget < 0 {
		return domain.Campaign{}, invalidInput("budget must not be negative")
	}

	for attempt := 0; ; attempt++ {
		c, err := s.Store.Campaigns().GetCampaignByID(ctx, id)
		if err != nil {
			return domain.Campaign{}, err
		}
		if !actor.CanManage(c.OwnerID) {
			return domain.Campaign{}, ErrForbidden
		}
		if domain.IsTerminal(domain.KindCampaign, string(c.Status)) {
			return domain.Campaign{}, &TransitionError{Entity: entityCampaign, Action: "update", Current: string(c.Status)}
		}

		if p.Title != nil {
			c.Title = strings.TrimSpace(*p.Title)
		}
		if p.Description != nil {
			c.Description = *p.Description
		}
		if p.Budget != nil {
			c.Budget = *p.Budget
		}
		c.UpdatedAt = nowFrom(s.Now)

		err = s.Store.Campaigns().UpdateCampaignDetails(ctx, c, c.Status)
		if errors.Is(err, store.ErrStatusConflict) && attempt+1 < maxEditAttempts {
			continue
		}
		if errors.Is(err, store.ErrStatusConflict) {
			return domain.Campaign{}, ErrConflict
		}
		if err != nil {
			return domain.Campaign{}, err
		}
		return c, nil
	}
}

// Delete removes a campaign that is still a draft.
func (s *CampaignService) Delete(ctx context.Context, actor Actor, id string) error {
	c, err := s.Store.Campaigns().GetCampaignByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(c.OwnerID) {
		return ErrForbidden
	}
	if c.Status != domain.CampaignDraft {
		return &TransitionError{Entity: entityCampaign, Action: "delete", Current: string(c.Status)}
	}

	err = s.Store.Campaigns().DeleteCampaign(ctx, id, domain.CampaignDraft)
	if errors.Is(err, store.ErrStatusConflict) {
		return s.conflict(ctx, id, "delete", "")
	}
	return err
}

// Transition applies a lifecycle action. The check runs against the stored
// status and the write only lands if that status is still current.
func (s *CampaignService) Transition(ctx context.Context, actor Actor, id string, action domain.Action) (domain.Campaign, error) {
	log := slogx.FromContext(ctx)

	target, ok := domain.CampaignTarget(action)
	if !ok {
		return domain.Campaign{}, ErrUnknownAction
	}

	c, err := s.Store.Campaigns().GetCampaignByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, err
	}
	if !actor.CanManage(c.OwnerID) {
		return domain.Campaign{}, ErrForbidden
	}

	if !domain.CampaignActionAllowed(action, c.Status) {
		s.observe(string(action), "rejected")
		log.Info("campaign transition rejected", "campaign_id", id, "action", action, "status", c.Status)
		return domain.Campaign{}, &TransitionError{
			Entity:  entityCampaign,
			Action:  string(action),
			Current: string(c.Status),
			Target:  string(target),
		}
	}

	now := nowFrom(s.Now)
	err = s.Store.Campaigns().UpdateCampaignStatus(ctx, id, c.Status, target, now)
	switch {
	case errors.Is(err, store.ErrStatusConflict):
		return domain.Campaign{}, s.conflict(ctx, id, string(action), string(target))
	case err != nil:
		s.observe(string(action), "error")
		return domain.Campaign{}, err
	}

	s.observe(string(action), "applied")
	log.Info("campaign transitioned", "campaign_id", id, "action", action, "from", c.Status, "to", target)

	c.Status = target
	c.UpdatedAt = now
	return c, nil
}

// conflict reports a lost compare-and-swap against the freshly read status.
func (s *CampaignService) conflict(ctx context.Context, id, action, target string) error {
	fresh, err := s.Store.Campaigns().GetCampaignByID(ctx, id)
	if err != nil {
		return err
	}
	s.observe(action, "rejected")
	return &TransitionError{Entity: entityCampaign, Action: action, Current: string(fresh.Status), Target: target}
}
