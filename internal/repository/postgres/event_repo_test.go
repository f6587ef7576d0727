package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"ensembleplanner/internal/domain"
)

func eventRows(e *domain.Event) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "date", "description", "schedule", "program", "status",
		"organizer_id", "archived", "invited_count", "confirmed_count", "created_at", "updated_at",
	}).AddRow(
		e.ID, e.Title, e.Date, e.Description, e.Schedule, e.Program, e.Status,
		e.OrganizerID, e.Archived, e.InvitedCount, e.ConfirmedCount, e.CreatedAt, e.UpdatedAt,
	)
}

func sampleEvent() *domain.Event {
	now := time.Now().Truncate(time.Second)
	return &domain.Event{
		ID:          "ev-1",
		Title:       "Autumn Gala",
		Date:        now.Add(48 * time.Hour),
		Status:      "planned",
		OrganizerID: "org-1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, date, description, schedule, program, status, organizer_id, archived, invited_count, confirmed_count, created_at, updated_at FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnRows(eventRows(sampleEvent()))
			},
		},
		{
			name: "missing returns ErrNotFound",
			id:   "ev-404",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, date`).
					WithArgs("ev-404").
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			e, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "Autumn Gala", e.Title)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ArchivePast(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Now().Add(-30 * time.Minute)
	mock.ExpectExec(`UPDATE events SET archived = TRUE, updated_at = NOW\(\)\s+WHERE archived = FALSE AND date < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewEventRepository(db)
	archived, err := repo.ArchivePast(ctx, cutoff)
	require.NoError(t, err)
	require.EqualValues(t, 3, archived)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ArchiveIfPast(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "archives overdue event", affected: 1, want: true},
		{name: "no-op when already archived or not due", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			cutoff := time.Now().Add(-30 * time.Minute)
			mock.ExpectExec(`UPDATE events SET archived = TRUE, updated_at = NOW\(\)\s+WHERE id = \$1 AND archived = FALSE AND date < \$2`).
				WithArgs("ev-1", cutoff).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			repo := NewEventRepository(db)
			got, err := repo.ArchiveIfPast(ctx, "ev-1", cutoff)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Unarchive(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "clears flag while date is future", affected: 1, want: true},
		{name: "refuses when date not in the future", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`UPDATE events SET archived = FALSE, updated_at = NOW\(\)\s+WHERE id = \$1 AND archived = TRUE AND date > NOW\(\)`).
				WithArgs("ev-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			repo := NewEventRepository(db)
			got, err := repo.Unarchive(ctx, "ev-1")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_RecountInvited(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE events\s+SET invited_count = \(SELECT COUNT\(\*\) FROM invitations WHERE event_id = \$1\)`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"invited_count"}).AddRow(4))

	repo := NewEventRepository(db)
	count, err := repo.RecountInvited(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, 4, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_RecountConfirmed_Missing(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE events\s+SET confirmed_count = \(SELECT COUNT\(\*\) FROM participations WHERE event_id = \$1 AND status = 'confirmed'\)`).
		WithArgs("ev-404").
		WillReturnRows(sqlmock.NewRows([]string{"confirmed_count"}))

	repo := NewEventRepository(db)
	_, err = repo.RecountConfirmed(ctx, "ev-404")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "success", affected: 1},
		{name: "missing returns ErrNotFound", affected: 0, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
				WithArgs("ev-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			repo := NewEventRepository(db)
			err = repo.Delete(ctx, "ev-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ListActiveForPerformer(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT DISTINCT e\.id, e\.title`).
		WithArgs("perf-1").
		WillReturnRows(eventRows(sampleEvent()))

	repo := NewEventRepository(db)
	events, err := repo.ListActiveForPerformer(ctx, "perf-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "ev-1", events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
