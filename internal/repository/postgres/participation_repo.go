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

const participationColumns = `id, event_id, performer_id, status, notes, attendance_confirmed, rating, confirmed_at, created_at`

type participationRepository struct {
	DB *sql.DB
}

func NewParticipationRepository(db *sql.DB) domain.ParticipationRepository {
	return &participationRepository{
		DB: db,
	}
}

func scanParticipation(row interface{ Scan(...any) error }) (*domain.Participation, error) {
	p := &domain.Participation{}
	var attendance sql.NullBool
	var rating sql.NullInt64
	err := row.Scan(
		&p.ID, &p.EventID, &p.PerformerID, &p.Status, &p.Notes,
		&attendance, &rating, &p.ConfirmedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if attendance.Valid {
		p.AttendanceConfirmed = &attendance.Bool
	}
	if rating.Valid {
		v := int(rating.Int64)
		p.Rating = &v
	}
	return p, nil
}

func (r *participationRepository) GetByEventAndPerformer(ctx context.Context, eventID, performerID string) (*domain.Participation, error) {
	query := `
		SELECT ` + participationColumns + `
		FROM participations
		WHERE event_id = $1 AND performer_id = $2
	`
	p, err := scanParticipation(r.DB.QueryRowContext(ctx, query, eventID, performerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participation, error) {
	query := `
		SELECT ` + participationColumns + `
		FROM participations
		WHERE event_id = $1
		ORDER BY confirmed_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parts := make([]*domain.Participation, 0)
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *participationRepository) UpdateReview(ctx context.Context, eventID, performerID string, attendance *bool, rating *int) (*domain.Participation, error) {
	setClauses := []string{}
	args := []interface{}{}
	n := 1
	if attendance != nil {
		setClauses = append(setClauses, fmt.Sprintf("attendance_confirmed = $%d", n))
		args = append(args, *attendance)
		n++
	}
	if rating != nil {
		setClauses = append(setClauses, fmt.Sprintf("rating = $%d", n))
		args = append(args, *rating)
		n++
	}
	if n == 1 {
		return r.GetByEventAndPerformer(ctx, eventID, performerID)
	}
	args = append(args, eventID, performerID)
	query := fmt.Sprintf(`
		UPDATE participations SET %s
		WHERE event_id = $%d AND performer_id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, n+1, participationColumns)
	p, err := scanParticipation(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participationRepository) CountFutureConfirmedByPerformer(ctx context.Context, performerID string, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM participations p
		JOIN events e ON e.id = p.event_id
		WHERE p.performer_id = $1 AND p.status = 'confirmed' AND e.date > $2
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, performerID, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
