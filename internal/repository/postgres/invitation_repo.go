package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"ensembleplanner/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (event_id, performer_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, inv.EventID, inv.PerformerID, inv.Status, inv.CreatedAt).
		Scan(&inv.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyInvited
		}
		return err
	}
	return nil
}

func (r *invitationRepository) GetByEventAndPerformer(ctx context.Context, eventID, performerID string) (*domain.Invitation, error) {
	query := `
		SELECT id, event_id, performer_id, status, response, responded_at, created_at
		FROM invitations
		WHERE event_id = $1 AND performer_id = $2
	`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, eventID, performerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Invitation, error) {
	query := `
		SELECT id, event_id, performer_id, status, response, responded_at, created_at
		FROM invitations
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (r *invitationRepository) DeletePending(ctx context.Context, eventID, performerID string) error {
	query := `
		DELETE FROM invitations
		WHERE event_id = $1 AND performer_id = $2 AND status = 'pending'
	`
	result, err := r.DB.ExecContext(ctx, query, eventID, performerID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInvitation(row interface{ Scan(...any) error }) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var response sql.NullString
	var respondedAt sql.NullTime
	err := row.Scan(&inv.ID, &inv.EventID, &inv.PerformerID, &inv.Status, &response, &respondedAt, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	if response.Valid {
		r := domain.InvitationResponse(response.String)
		inv.Response = &r
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	return inv, nil
}
