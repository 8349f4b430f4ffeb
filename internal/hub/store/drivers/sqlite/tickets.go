package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
)

const ticketColumns = `id, author_id, campaign_id, subject, body, created_at`

type ticketsRepo struct {
	q querier
}

func scanTicket(row interface{ Scan(...any) error }) (domain.Ticket, error) {
	var (
		t          domain.Ticket
		campaignID sql.NullString
		createdAt  int64
	)
	if err := row.Scan(&t.ID, &t.AuthorID, &campaignID, &t.Subject, &t.Body, &createdAt); err != nil {
		return domain.Ticket{}, err
	}
	t.CampaignID = mapNullString(campaignID)
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}

func (r *ticketsRepo) CreateTicket(ctx context.Context, t domain.Ticket) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tickets (`+ticketColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.AuthorID, mapOptionalString(t.CampaignID), t.Subject, t.Body, millis(t.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *ticketsRepo) GetTicketByID(ctx context.Context, id string) (domain.Ticket, error) {
	t, err := scanTicket(r.q.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id))
	if err != nil {
		return domain.Ticket{}, mapNotFound(err)
	}
	return t, nil
}

func (r *ticketsRepo) ListTickets(ctx context.Context, authorID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	var args []any
	if authorID != "" {
		query += ` WHERE author_id = ?`
		args = append(args, authorID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ticketsRepo) DeleteTicket(ctx context.Context, id string) error {
	return expectOneRow(r.q.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id))
}
