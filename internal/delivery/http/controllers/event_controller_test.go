package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ensembleplanner/internal/delivery/http/helpers"
	"ensembleplanner/internal/delivery/http/middleware"
	"ensembleplanner/internal/domain"
)

// testLogger is a no-op logger so controller tests don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createEventErr error
	getEventErr    error
	getEventResult *domain.EventDetail
	updateEventErr error
	deleteEventErr error
	listMyEvents   []*domain.Event
	listMyErr      error
	lastCreated    *domain.Event
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	f.lastCreated = event
	if f.createEventErr != nil {
		return f.createEventErr
	}
	event.ID = "ev-1"
	return nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, p domain.Principal, eventID string) (*domain.EventDetail, error) {
	if f.getEventErr != nil {
		return nil, f.getEventErr
	}
	return f.getEventResult, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, organizerID, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	if f.updateEventErr != nil {
		return nil, f.updateEventErr
	}
	return &domain.Event{ID: eventID, OrganizerID: organizerID}, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, organizerID, eventID string) error {
	return f.deleteEventErr
}

func (f *fakeEventService) ListMyEvents(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	return f.listMyEvents, f.listMyErr
}

// fakeAccessService implements domain.AccessService for handler tests.
type fakeAccessService struct {
	active              []*domain.Event
	archive             []*domain.Event
	listErr             error
	lastArchivedOnly    bool
	archiveListerCalled bool
}

func (f *fakeAccessService) CanViewEvent(ctx context.Context, p domain.Principal, eventID string) (bool, error) {
	return false, nil
}

func (f *fakeAccessService) CanAccessChat(ctx context.Context, p domain.Principal, eventID string) (bool, error) {
	return false, nil
}

func (f *fakeAccessService) ConfirmedParticipation(ctx context.Context, eventID, performerID string) (*domain.Participation, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeAccessService) ListActive(ctx context.Context, performerID string) ([]*domain.Event, error) {
	return f.active, f.listErr
}

func (f *fakeAccessService) ListArchive(ctx context.Context, performerID string, archivedOnly bool) ([]*domain.Event, error) {
	f.archiveListerCalled = true
	f.lastArchivedOnly = archivedOnly
	return f.archive, f.listErr
}

func (f *fakeAccessService) FutureConfirmedCount(ctx context.Context, performerID string) (int, error) {
	return 0, nil
}

func authedRequest(method, target string, body []byte, p domain.Principal) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	return r.WithContext(middleware.SetPrincipal(r.Context(), p))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var resp helpers.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCreateEventHandler(t *testing.T) {
	organizer := domain.Principal{ID: "org-1", Role: domain.RoleOrganizer}

	t.Run("created", func(t *testing.T) {
		svc := &fakeEventService{}
		ctrl := NewEventController(testLogger, svc, &fakeAccessService{})

		body, _ := json.Marshal(CreateEventRequest{
			Title: "Winter Concert",
			Date:  time.Now().Add(72 * time.Hour),
		})
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, authedRequest(http.MethodPost, "/events", body, organizer))

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeEnvelope(t, rec)
		assert.Nil(t, resp.Error)
		require.NotNil(t, svc.lastCreated)
		assert.Equal(t, "org-1", svc.lastCreated.OrganizerID)
	})

	t.Run("missing title is a 400", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{}, &fakeAccessService{})

		body, _ := json.Marshal(CreateEventRequest{Date: time.Now().Add(72 * time.Hour)})
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, authedRequest(http.MethodPost, "/events", body, organizer))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("past date is a 400", func(t *testing.T) {
		svc := &fakeEventService{createEventErr: domain.ErrPastDate}
		ctrl := NewEventController(testLogger, svc, &fakeAccessService{})

		body, _ := json.Marshal(CreateEventRequest{
			Title: "Winter Concert",
			Date:  time.Now().Add(-time.Hour),
		})
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, authedRequest(http.MethodPost, "/events", body, organizer))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, "future")
	})

	t.Run("unknown field is a 400", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{}, &fakeAccessService{})

		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, authedRequest(http.MethodPost, "/events", []byte(`{"title":"x","nope":1}`), organizer))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetEventHandler(t *testing.T) {
	performer := domain.Principal{ID: "perf-1", Role: domain.RolePerformer}

	tests := []struct {
		name       string
		svc        *fakeEventService
		wantStatus int
		wantCode   string
	}{
		{
			name: "found",
			svc: &fakeEventService{getEventResult: &domain.EventDetail{
				Event:          &domain.Event{ID: "ev-1", Title: "Winter Concert"},
				Invitations:    []*domain.Invitation{},
				Participations: []*domain.Participation{},
			}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing event is a 404",
			svc:        &fakeEventService{getEventErr: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "uninvolved caller is a 403",
			svc:        &fakeEventService{getEventErr: domain.ErrForbidden},
			wantStatus: http.StatusForbidden,
			wantCode:   helpers.ErrCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc, &fakeAccessService{})

			r := authedRequest(http.MethodGet, "/events/ev-1", nil, performer)
			r.SetPathValue("eventID", "ev-1")
			rec := httptest.NewRecorder()
			ctrl.GetEvent(rec, r)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				resp := decodeEnvelope(t, rec)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestListArchiveHandler(t *testing.T) {
	performer := domain.Principal{ID: "perf-1", Role: domain.RolePerformer}

	t.Run("defaults to archived only", func(t *testing.T) {
		access := &fakeAccessService{archive: []*domain.Event{{ID: "ev-old", Archived: true}}}
		ctrl := NewEventController(testLogger, &fakeEventService{}, access)

		rec := httptest.NewRecorder()
		ctrl.ListArchive(rec, authedRequest(http.MethodGet, "/events/archive", nil, performer))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, access.archiveListerCalled)
		assert.True(t, access.lastArchivedOnly)
	})

	t.Run("include_active widens the listing", func(t *testing.T) {
		access := &fakeAccessService{}
		ctrl := NewEventController(testLogger, &fakeEventService{}, access)

		rec := httptest.NewRecorder()
		ctrl.ListArchive(rec, authedRequest(http.MethodGet, "/events/archive?include_active=true", nil, performer))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, access.lastArchivedOnly)
	})
}

func TestDeleteEventHandler(t *testing.T) {
	organizer := domain.Principal{ID: "org-1", Role: domain.RoleOrganizer}

	t.Run("deleted", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{}, &fakeAccessService{})

		r := authedRequest(http.MethodDelete, "/events/ev-1", nil, organizer)
		r.SetPathValue("eventID", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.DeleteEvent(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("foreign organizer is a 403", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{deleteEventErr: domain.ErrForbidden}, &fakeAccessService{})

		r := authedRequest(http.MethodDelete, "/events/ev-1", nil, organizer)
		r.SetPathValue("eventID", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.DeleteEvent(rec, r)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
