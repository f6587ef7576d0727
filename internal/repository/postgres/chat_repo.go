package postgres

import (
	"context"
	"database/sql"

	"ensembleplanner/internal/domain"
)

type chatRepository struct {
	DB *sql.DB
}

func NewChatRepository(db *sql.DB) domain.ChatRepository {
	return &chatRepository{
		DB: db,
	}
}

func (r *chatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (event_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, msg.EventID, msg.AuthorID, msg.Body).
		Scan(&msg.ID, &msg.CreatedAt)
}

func (r *chatRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, event_id, author_id, body, created_at
		FROM chat_messages
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		m := &domain.ChatMessage{}
		if err := rows.Scan(&m.ID, &m.EventID, &m.AuthorID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
