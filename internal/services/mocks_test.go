package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"ensembleplanner/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pairKey(eventID, performerID string) string {
	return eventID + ":" + performerID
}

type mockEventRepository struct {
	events    map[string]*domain.Event
	invited   map[string]int
	confirmed map[string]int
	active    []*domain.Event
	archive   []*domain.Event
	err       error

	sweeps       int
	sweptN       int64
	freshened    []string
	unarchived   []string
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	if event.ID == "" {
		event.ID = "ev-new"
	}
	if m.events == nil {
		m.events = map[string]*domain.Event{}
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		ev.Title = *upd.Title
	}
	if upd.Date != nil {
		ev.Date = *upd.Date
	}
	if upd.Description != nil {
		ev.Description = *upd.Description
	}
	if upd.Schedule != nil {
		ev.Schedule = *upd.Schedule
	}
	if upd.Program != nil {
		ev.Program = *upd.Program
	}
	if upd.Status != nil {
		ev.Status = *upd.Status
	}
	return ev, nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*domain.Event{}
	for _, ev := range m.events {
		if ev.OrganizerID == organizerID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *mockEventRepository) ListActiveForPerformer(ctx context.Context, performerID string) ([]*domain.Event, error) {
	return m.active, m.err
}

func (m *mockEventRepository) ListArchiveForPerformer(ctx context.Context, performerID string, archivedOnly bool) ([]*domain.Event, error) {
	if !archivedOnly {
		out := append([]*domain.Event{}, m.archive...)
		out = append(out, m.active...)
		return out, m.err
	}
	return m.archive, m.err
}

func (m *mockEventRepository) ArchivePast(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.sweeps++
	var n int64
	for _, ev := range m.events {
		if !ev.Archived && ev.Date.Before(cutoff) {
			ev.Archived = true
			n++
		}
	}
	m.sweptN = n
	return n, nil
}

func (m *mockEventRepository) ArchiveIfPast(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	m.freshened = append(m.freshened, id)
	ev, ok := m.events[id]
	if !ok {
		return false, nil
	}
	if !ev.Archived && ev.Date.Before(cutoff) {
		ev.Archived = true
		return true, nil
	}
	return false, nil
}

func (m *mockEventRepository) Unarchive(ctx context.Context, id string) (bool, error) {
	m.unarchived = append(m.unarchived, id)
	ev, ok := m.events[id]
	if !ok {
		return false, nil
	}
	if ev.Archived && ev.Date.After(time.Now()) {
		ev.Archived = false
		return true, nil
	}
	return false, nil
}

func (m *mockEventRepository) RecountInvited(ctx context.Context, id string) (int, error) {
	if _, ok := m.events[id]; !ok {
		return 0, domain.ErrNotFound
	}
	return m.invited[id], nil
}

func (m *mockEventRepository) RecountConfirmed(ctx context.Context, id string) (int, error) {
	if _, ok := m.events[id]; !ok {
		return 0, domain.ErrNotFound
	}
	return m.confirmed[id], nil
}

type mockInvitationRepository struct {
	invs map[string]*domain.Invitation
	err  error
}

func (m *mockInvitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	if m.err != nil {
		return m.err
	}
	key := pairKey(inv.EventID, inv.PerformerID)
	if _, ok := m.invs[key]; ok {
		return domain.ErrAlreadyInvited
	}
	if m.invs == nil {
		m.invs = map[string]*domain.Invitation{}
	}
	inv.ID = "inv-" + inv.PerformerID
	m.invs[key] = inv
	return nil
}

func (m *mockInvitationRepository) GetByEventAndPerformer(ctx context.Context, eventID, performerID string) (*domain.Invitation, error) {
	if m.err != nil {
		return nil, m.err
	}
	inv, ok := m.invs[pairKey(eventID, performerID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (m *mockInvitationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Invitation, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*domain.Invitation{}
	for _, inv := range m.invs {
		if inv.EventID == eventID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockInvitationRepository) DeletePending(ctx context.Context, eventID, performerID string) error {
	key := pairKey(eventID, performerID)
	inv, ok := m.invs[key]
	if !ok || inv.Status != domain.InvitationPending {
		return domain.ErrNotFound
	}
	delete(m.invs, key)
	return nil
}

type mockParticipationRepository struct {
	parts       map[string]*domain.Participation
	futureCount int
	err         error
}

func (m *mockParticipationRepository) GetByEventAndPerformer(ctx context.Context, eventID, performerID string) (*domain.Participation, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.parts[pairKey(eventID, performerID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockParticipationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participation, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*domain.Participation{}
	for _, p := range m.parts {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockParticipationRepository) UpdateReview(ctx context.Context, eventID, performerID string, attendance *bool, rating *int) (*domain.Participation, error) {
	p, ok := m.parts[pairKey(eventID, performerID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if attendance != nil {
		p.AttendanceConfirmed = attendance
	}
	if rating != nil {
		p.Rating = rating
	}
	return p, nil
}

func (m *mockParticipationRepository) CountFutureConfirmedByPerformer(ctx context.Context, performerID string, now time.Time) (int, error) {
	return m.futureCount, m.err
}

type mockResponseStore struct {
	respondErr error
	removeErr  error

	responded   bool
	removed     bool
	lastStatus  domain.ParticipationStatus
	lastEventID string
}

func (m *mockResponseStore) RespondToInvitation(ctx context.Context, eventID, performerID string, status domain.ParticipationStatus, notes string, respondedAt time.Time) (*domain.Participation, error) {
	if m.respondErr != nil {
		return nil, m.respondErr
	}
	m.responded = true
	m.lastStatus = status
	m.lastEventID = eventID
	return &domain.Participation{
		ID:          "part-1",
		EventID:     eventID,
		PerformerID: performerID,
		Status:      status,
		Notes:       notes,
		ConfirmedAt: respondedAt,
	}, nil
}

func (m *mockResponseStore) RemoveParticipant(ctx context.Context, eventID, performerID string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = true
	m.lastEventID = eventID
	return nil
}

// mockNotifier is mutex-guarded because notification dispatch runs on
// detached goroutines.
type mockNotifier struct {
	mu      sync.Mutex
	notices []domain.InvitationNotice
}

func (m *mockNotifier) NotifyInvited(ctx context.Context, n domain.InvitationNotice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
	return nil
}

type mockChatRepository struct {
	msgs []*domain.ChatMessage
	err  error
}

func (m *mockChatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	if m.err != nil {
		return m.err
	}
	msg.ID = "msg-1"
	msg.CreatedAt = time.Now()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *mockChatRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.ChatMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.msgs, nil
}

type mockContractRepository struct {
	contracts map[string]*domain.Contract
	err       error
}

func (m *mockContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.contracts[c.ParticipationID]; ok {
		return domain.ErrContractExists
	}
	if m.contracts == nil {
		m.contracts = map[string]*domain.Contract{}
	}
	c.ID = "con-1"
	c.CreatedAt = time.Now()
	m.contracts[c.ParticipationID] = c
	return nil
}

func (m *mockContractRepository) GetByParticipationID(ctx context.Context, participationID string) (*domain.Contract, error) {
	c, ok := m.contracts[participationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockContractRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Contract, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*domain.Contract{}
	for _, c := range m.contracts {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}
