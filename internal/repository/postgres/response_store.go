package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ensembleplanner/internal/domain"
)

// responseStore owns the two transitions that must move an invitation, a
// participation, and the event counters in lockstep. Each runs in a single
// transaction; the participation uniqueness constraint is the arbiter when
// two responses race, so exactly one caller wins and the other sees
// ErrAlreadyResponded.
type responseStore struct {
	DB *sql.DB
}

func NewResponseStore(db *sql.DB) domain.ResponseStore {
	return &responseStore{
		DB: db,
	}
}

func (s *responseStore) RespondToInvitation(ctx context.Context, eventID, performerID string, status domain.ParticipationStatus, notes string, respondedAt time.Time) (*domain.Participation, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	response := domain.ResponseDeclined
	if status == domain.ParticipationConfirmed {
		response = domain.ResponseAccepted
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE invitations
		SET status = 'responded', response = $3, responded_at = $4
		WHERE event_id = $1 AND performer_id = $2 AND status = 'pending'
	`, eventID, performerID, response, respondedAt)
	if err != nil {
		return nil, fmt.Errorf("mark invitation responded: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		// No pending invitation. Distinguish "already answered" from "never
		// invited" so the client sees Conflict vs NotFound.
		var exists bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM participations WHERE event_id = $1 AND performer_id = $2)
		`, eventID, performerID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check participation: %w", err)
		}
		if exists {
			return nil, domain.ErrAlreadyResponded
		}
		return nil, domain.ErrNotFound
	}

	p := &domain.Participation{
		EventID:     eventID,
		PerformerID: performerID,
		Status:      status,
		Notes:       notes,
		ConfirmedAt: respondedAt,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO participations (event_id, performer_id, status, notes, confirmed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, eventID, performerID, status, notes, respondedAt).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, domain.ErrAlreadyResponded
		}
		return nil, fmt.Errorf("create participation: %w", err)
	}

	if err := recountConfirmedTx(ctx, tx, eventID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit response: %w", err)
	}
	return p, nil
}

func (s *responseStore) RemoveParticipant(ctx context.Context, eventID, performerID string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM participations WHERE event_id = $1 AND performer_id = $2
	`, eventID, performerID)
	if err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}

	// Deleting the responded invitation alongside the participation is what
	// permits a later re-invite through the normal pending path.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM invitations WHERE event_id = $1 AND performer_id = $2
	`, eventID, performerID); err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE events
		SET invited_count = (SELECT COUNT(*) FROM invitations WHERE event_id = $1),
		    updated_at = NOW()
		WHERE id = $1
	`, eventID); err != nil {
		return fmt.Errorf("recount invited: %w", err)
	}
	if err := recountConfirmedTx(ctx, tx, eventID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit removal: %w", err)
	}
	return nil
}

func recountConfirmedTx(ctx context.Context, tx *sql.Tx, eventID string) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE events
		SET confirmed_count = (SELECT COUNT(*) FROM participations WHERE event_id = $1 AND status = 'confirmed'),
		    updated_at = NOW()
		WHERE id = $1
	`, eventID)
	if err != nil {
		return fmt.Errorf("recount confirmed: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
