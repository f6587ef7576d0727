package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ensembleplanner/internal/domain"
)

const eventColumns = `id, title, date, description, schedule, program, status, organizer_id, archived, invited_count, confirmed_count, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Date, &e.Description, &e.Schedule, &e.Program,
		&e.Status, &e.OrganizerID, &e.Archived, &e.InvitedCount, &e.ConfirmedCount,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, date, description, schedule, program, status, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Date, e.Description, e.Schedule, e.Program, e.Status,
		e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *upd.Title)
		n++
	}
	if upd.Date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", n))
		args = append(args, *upd.Date)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *upd.Description)
		n++
	}
	if upd.Schedule != nil {
		setClauses = append(setClauses, fmt.Sprintf("schedule = $%d", n))
		args = append(args, *upd.Schedule)
		n++
	}
	if upd.Program != nil {
		setClauses = append(setClauses, fmt.Sprintf("program = $%d", n))
		args = append(args, *upd.Program)
		n++
	}
	if upd.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, *upd.Status)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY date ASC
	`
	return r.queryEvents(ctx, query, organizerID)
}

func (r *eventRepository) ListActiveForPerformer(ctx context.Context, performerID string) ([]*domain.Event, error) {
	query := `
		SELECT DISTINCT e.` + strings.ReplaceAll(eventColumns, ", ", ", e.") + `
		FROM events e
		LEFT JOIN invitations i ON i.event_id = e.id AND i.performer_id = $1 AND i.status = 'pending'
		LEFT JOIN participations p ON p.event_id = e.id AND p.performer_id = $1 AND p.status = 'confirmed'
		WHERE e.archived = FALSE AND (i.id IS NOT NULL OR p.id IS NOT NULL)
		ORDER BY e.date ASC
	`
	return r.queryEvents(ctx, query, performerID)
}

func (r *eventRepository) ListArchiveForPerformer(ctx context.Context, performerID string, archivedOnly bool) ([]*domain.Event, error) {
	query := `
		SELECT e.` + strings.ReplaceAll(eventColumns, ", ", ", e.") + `
		FROM events e
		JOIN participations p ON p.event_id = e.id AND p.performer_id = $1
	`
	if archivedOnly {
		query += ` WHERE e.archived = TRUE`
	}
	query += ` ORDER BY e.date DESC`
	return r.queryEvents(ctx, query, performerID)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ArchivePast(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE events SET archived = TRUE, updated_at = NOW()
		WHERE archived = FALSE AND date < $1
	`
	result, err := r.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *eventRepository) ArchiveIfPast(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	query := `
		UPDATE events SET archived = TRUE, updated_at = NOW()
		WHERE id = $1 AND archived = FALSE AND date < $2
	`
	result, err := r.DB.ExecContext(ctx, query, id, cutoff)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *eventRepository) Unarchive(ctx context.Context, id string) (bool, error) {
	// The date guard is evaluated in the database so a racing sweep cannot
	// re-archive an event whose date was just moved into the future.
	query := `
		UPDATE events SET archived = FALSE, updated_at = NOW()
		WHERE id = $1 AND archived = TRUE AND date > NOW()
	`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *eventRepository) RecountInvited(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE events
		SET invited_count = (SELECT COUNT(*) FROM invitations WHERE event_id = $1),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING invited_count
	`
	var count int
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) RecountConfirmed(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE events
		SET confirmed_count = (SELECT COUNT(*) FROM participations WHERE event_id = $1 AND status = 'confirmed'),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING confirmed_count
	`
	var count int
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return count, nil
}
