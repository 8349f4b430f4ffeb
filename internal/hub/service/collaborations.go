package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
	"github.com/aussiebroadwan/campaignhub/pkg/idx"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
)

const entityCollaboration = "collaboration"

type CollaborationService struct {
	Store   store.Store
	Now     func() time.Time
	Observe Observer
}

func (s *CollaborationService) observe(action, outcome string) {
	if s.Observe != nil {
		s.Observe(entityCollaboration, action, outcome)
	}
}

// Invite asks an influencer to join a campaign. The campaign must be
// manageable by the actor and not yet finished.
func (s *CollaborationService) Invite(ctx context.Context, actor Actor, campaignID, influencerID, message string) (domain.Collaboration, error) {
	var out domain.Collaboration

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Campaigns().GetCampaignByID(ctx, campaignID)
		if err != nil {
			return err
		}
		if !actor.CanManage(c.OwnerID) {
			return ErrForbidden
		}
		if domain.IsTerminal(domain.KindCampaign, string(c.Status)) {
			return &TransitionError{Entity: entityCampaign, Action: "invite to", Current: string(c.Status)}
		}

		invitee, err := tx.Users().GetUserByID(ctx, influencerID)
		if errors.Is(err, store.ErrNotFound) {
			return invalidInput("influencer does not exist")
		}
		if err != nil {
			return err
		}
		if invitee.Role != domain.RoleInfluencer {
			return invalidInput("user is not an influencer")
		}

		now := nowFrom(s.Now)
		out = domain.Collaboration{
			ID:           idx.NewAt(now),
			CampaignID:   c.ID,
			InfluencerID: invitee.ID,
			InvitedBy:    actor.ID,
			Message:      message,
			Status:       domain.CollabInvited,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err = tx.Collaborations().CreateCollaboration(ctx, out)
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrConflict
		}
		return err
	})
	if err != nil {
		return domain.Collaboration{}, err
	}

	slogx.FromContext(ctx).Info("influencer invited",
		"collaboration_id", out.ID, "campaign_id", out.CampaignID, "influencer_id", out.InfluencerID)
	return out, nil
}

// Get returns a collaboration visible to the actor.
func (s *CollaborationService) Get(ctx context.Context, actor Actor, id string) (domain.Collaboration, error) {
	col, err := s.Store.Collaborations().GetCollaborationByID(ctx, id)
	if err != nil {
		return domain.Collaboration{}, err
	}
	if err := s.authorizeView(ctx, actor, col.CampaignID, col.InfluencerID); err != nil {
		return domain.Collaboration{}, err
	}
	return col, nil
}

// List returns a campaign's collaborations. Influencers only see their own.
func (s *CollaborationService) List(ctx context.Context, actor Actor, campaignID string) ([]domain.Collaboration, error) {
	if _, err := s.Store.Campaigns().GetCampaignByID(ctx, campaignID); err != nil {
		return nil, err
	}

	switch actor.Role {
	case domain.RoleInfluencer:
		return s.Store.Collaborations().ListCollaborations(ctx, campaignID, actor.ID)
	case domain.RoleAdmin, domain.RoleBrandManager:
		if err := s.authorizeView(ctx, actor, campaignID, ""); err != nil {
			return nil, err
		}
		return s.Store.Collaborations().ListCollaborations(ctx, campaignID, "")
	default:
		return nil, ErrForbidden
	}
}

func (s *CollaborationService) authorizeView(ctx context.Context, actor Actor, campaignID, influencerID string) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleInfluencer:
		if actor.ID == influencerID {
			return nil
		}
		return ErrForbidden
	case domain.RoleBrandManager:
		c, err := s.Store.Campaigns().GetCampaignByID(ctx, campaignID)
		if err != nil {
			return err
		}
		if actor.CanManage(c.OwnerID) {
			return nil
		}
		return ErrForbidden
	default:
		return ErrForbidden
	}
}

// Transition applies a lifecycle action. Accept and decline belong to the
// invitee; start, complete and cancel to the campaign's managers.
func (s *CollaborationService) Transition(ctx context.Context, actor Actor, id string, action domain.Action) (domain.Collaboration, error) {
	log := slogx.FromContext(ctx)

	target, ok := domain.CollaborationTarget(action)
	if !ok {
		return domain.Collaboration{}, ErrUnknownAction
	}

	col, err := s.Store.Collaborations().GetCollaborationByID(ctx, id)
	if err != nil {
		return domain.Collaboration{}, err
	}

	switch action {
	case domain.ActionAccept, domain.ActionDecline:
		if actor.ID != col.InfluencerID {
			return domain.Collaboration{}, ErrForbidden
		}
	default:
		c, err := s.Store.Campaigns().GetCampaignByID(ctx, col.CampaignID)
		if err != nil {
			return domain.Collaboration{}, err
		}
		if !actor.CanManage(c.OwnerID) {
			return domain.Collaboration{}, ErrForbidden
		}
	}

	if !domain.CollaborationActionAllowed(action, col.Status) {
		s.observe(string(action), "rejected")
		log.Info("collaboration transition rejected", "collaboration_id", id, "action", action, "status", col.Status)
		return domain.Collaboration{}, &TransitionError{
			Entity:  entityCollaboration,
			Action:  string(action),
			Current: string(col.Status),
			Target:  string(target),
		}
	}

	now := nowFrom(s.Now)
	err = s.Store.Collaborations().UpdateCollaborationStatus(ctx, id, col.Status, target, now)
	switch {
	case errors.Is(err, store.ErrStatusConflict):
		fresh, ferr := s.Store.Collaborations().GetCollaborationByID(ctx, id)
		if ferr != nil {
			return domain.Collaboration{}, ferr
		}
		s.observe(string(action), "rejected")
		return domain.Collaboration{}, &TransitionError{
			Entity:  entityCollaboration,
			Action:  string(action),
			Current: string(fresh.Status),
			Target:  string(target),
		}
	case err != nil:
		s.observe(string(action), "error")
		return domain.Collaboration{}, err
	}

	s.observe(string(action), "applied")
	log.Info("collaboration transitioned", "collaboration_id", id, "action", action, "from", col.Status, "to", target)

	col.Status = target
	col.UpdatedAt = now
	return col, nil
}
