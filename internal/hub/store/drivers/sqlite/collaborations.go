package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
)

const collaborationColumns = `id, campaign_id, influencer_id, invited_by, message, status, created_at, updated_at`

type collaborationsRepo struct {
	q querier
}

func scanCollaboration(row interface{ Scan(...any) error }) (domain.Collaboration, error) {
	var (
		c                    domain.Collaboration
		status               string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.CampaignID, &c.InfluencerID, &c.InvitedBy, &c.Message, &status, &createdAt, &updatedAt); err != nil {
		return domain.Collaboration{}, err
	}
	c.Status = domain.CollaborationStatus(status)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

func (r *collaborationsRepo) CreateCollaboration(ctx context.Context, c domain.Collaboration) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO collaborations (`+collaborationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CampaignID, c.InfluencerID, c.InvitedBy, c.Message, string(c.Status),
		millis(c.CreatedAt), millis(c.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *collaborationsRepo) GetCollaborationByID(ctx context.Context, id string) (domain.Collaboration, error) {
	c, err := scanCollaboration(r.q.QueryRowContext(ctx,
		`SELECT `+collaborationColumns+` FROM collaborations WHERE id = ?`, id))
	if err != nil {
		return domain.Collaboration{}, mapNotFound(err)
	}
	return c, nil
}

func (r *collaborationsRepo) ListCollaborations(ctx context.Context, campaignID, influencerID string) ([]domain.Collaboration, error) {
	query := `SELECT ` + collaborationColumns + ` FROM collaborations WHERE campaign_id = ?`
	args := []any{campaignID}
	if influencerID != "" {
		query += ` AND influencer_id = ?`
		args = append(args, influencerID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Collaboration
	for rows.Next() {
		c, err := scanCollaboration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *collaborationsRepo) UpdateCollaborationStatus(ctx context.Context, id string, from, to domain.CollaborationStatus, now time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE collaborations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), millis(now), id, string(from),
	)
	return casResult(ctx, r.q, "collaborations", id, res, err)
}
