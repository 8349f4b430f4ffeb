package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
	"github.com/aussiebroadwan/campaignhub/pkg/idx"
)

type TicketService struct {
	Store store.Store
	Now   func() time.Time
}

type TicketInput struct {
	Subject    string
	Body       string
	CampaignID string
}

func (s *TicketService) Create(ctx context.Context, actor Actor, in TicketInput) (domain.Ticket, error) {
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Body) == "" {
		return domain.Ticket{}, invalidInput("subject and body are required")
	}

	now := nowFrom(s.Now)
	t := domain.Ticket{
		ID:        idx.NewAt(now),
		AuthorID:  actor.ID,
		Subject:   strings.TrimSpace(in.Subject),
		Body:      in.Body,
		CreatedAt: now,
	}

	if in.CampaignID != "" {
		_, err := s.Store.Campaigns().GetCampaignByID(ctx, in.CampaignID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.Ticket{}, invalidInput("campaign does not exist")
		}
		if err != nil {
			return domain.Ticket{}, err
		}
		campaignID := in.CampaignID
		t.CampaignID = &campaignID
	}

	if err := s.Store.Tickets().CreateTicket(ctx, t); err != nil {
		return domain.Ticket{}, err
	}
	return t, nil
}

// List returns the actor's tickets, or every ticket for an admin.
func (s *TicketService) List(ctx context.Context, actor Actor) ([]domain.Ticket, error) {
	if actor.IsAdmin() {
		return s.Store.Tickets().ListTickets(ctx, "")
	}
	return s.Store.Tickets().ListTickets(ctx, actor.ID)
}

func (s *TicketService) Get(ctx context.Context, actor Actor, id string) (domain.Ticket, error) {
	t, err := s.Store.Tickets().GetTicketByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if !actor.IsAdmin() && t.AuthorID != actor.ID {
		return domain.Ticket{}, ErrForbidden
	}
	return t, nil
}

func (s *TicketService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.Store.Tickets().DeleteTicket(ctx, id)
}
