package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"ensembleplanner/internal/domain"
)

type contractRepository struct {
	DB *sql.DB
}

func NewContractRepository(db *sql.DB) domain.ContractRepository {
	return &contractRepository{
		DB: db,
	}
}

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	query := `
		INSERT INTO contracts (participation_id, event_id, performer_id, gross_fee)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, c.ParticipationID, c.EventID, c.PerformerID, c.GrossFee).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrContractExists
		}
		return err
	}
	return nil
}

func (r *contractRepository) GetByParticipationID(ctx context.Context, participationID string) (*domain.Contract, error) {
	query := `
		SELECT id, participation_id, event_id, performer_id, gross_fee, created_at
		FROM contracts
		WHERE participation_id = $1
	`
	c := &domain.Contract{}
	err := r.DB.QueryRowContext(ctx, query, participationID).
		Scan(&c.ID, &c.ParticipationID, &c.EventID, &c.PerformerID, &c.GrossFee, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *contractRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Contract, error) {
	query := `
		SELECT id, participation_id, event_id, performer_id, gross_fee, created_at
		FROM contracts
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contracts := make([]*domain.Contract, 0)
	for rows.Next() {
		c := &domain.Contract{}
		if err := rows.Scan(&c.ID, &c.ParticipationID, &c.EventID, &c.PerformerID, &c.GrossFee, &c.CreatedAt); err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}
