package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
)

const campaignColumns = `id, owner_id, title, description, budget, status, created_at, updated_at`

type campaignsRepo struct {
	q querier
}

func scanCampaign(row interface{ Scan(...any) error }) (domain.Campaign, error) {
	var (
		c                    domain.Campaign
		status               string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Budget, &status, &createdAt, &updatedAt); err != nil {
		return domain.Campaign{}, err
	}
	c.Status = domain.CampaignStatus(status)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

func (r *campaignsRepo) CreateCampaign(ctx context.Context, c domain.Campaign) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO campaigns (`+campaignColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Title, c.Description, c.Budget, string(c.Status),
		millis(c.CreatedAt), millis(c.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *campaignsRepo) GetCampaignByID(ctx context.Context, id string) (domain.Campaign, error) {
	c, err := scanCampaign(r.q.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id))
	if err != nil {
		return domain.Campaign{}, mapNotFound(err)
	}
	return c, nil
}

func (r *campaignsRepo) ListCampaigns(ctx context.Context, f domain.CampaignFilter) ([]domain.Campaign, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.OwnerID != "" {
		where = append(where, "owner_id = ?")
		args = append(args, f.OwnerID)
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *campaignsRepo) UpdateCampaignDetails(ctx context.Context, c domain.Campaign, expected domain.CampaignStatus) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE campaigns SET title = ?, description = ?, budget = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		c.Title, c.Description, c.Budget, millis(c.UpdatedAt), c.ID, string(expected),
	)
	return casResult(ctx, r.q, "campaigns", c.ID, res, err)
}

func (r *campaignsRepo) UpdateCampaignStatus(ctx context.Context, id string, from, to domain.CampaignStatus, now time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE campaigns SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), millis(now), id, string(from),
	)
	return casResult(ctx, r.q, "campaigns", id, res, err)
}

func (r *campaignsRepo) DeleteCampaign(ctx context.Context, id string, expected domain.CampaignStatus) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM campaigns WHERE id = ? AND status = ?`, id, string(expected))
	return casResult(ctx, r.q, "campaigns", id, res, err)
}
