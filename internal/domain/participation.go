package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyResponded is returned when a participation already exists for the
// (event, performer) pair, i.e. the invitation was answered before.
var ErrAlreadyResponded = errors.New("invitation already responded")

// ParticipationStatus is the recorded outcome of a performer's response.
type ParticipationStatus string

const (
	ParticipationConfirmed ParticipationStatus = "confirmed"
	ParticipationDeclined  ParticipationStatus = "declined"
)

// Valid reports whether s is a known participation status.
func (s ParticipationStatus) Valid() bool {
	return s == ParticipationConfirmed || s == ParticipationDeclined
}

// Participation is the durable record of a performer's answer to an
// invitation. Status is set at creation and never mutated by the response
// flow; correction happens through organizer-side removal. At most one exists
// per (event, performer) pair, enforced by a uniqueness constraint.
// swagger:model Participation
type Participation struct {
	ID                  string              `json:"id"`
	EventID             string              `json:"event_id"`
	PerformerID         string              `json:"performer_id"`
	Status              ParticipationStatus `json:"status"`
	Notes               string              `json:"notes,omitempty"`
	AttendanceConfirmed *bool               `json:"attendance_confirmed,omitempty"`
	Rating              *int                `json:"rating,omitempty"`
	ConfirmedAt         time.Time           `json:"confirmed_at"`
	CreatedAt           time.Time           `json:"created_at"`
}

// ParticipationRepository defines read and post-hoc update operations for
// participations. Creation and deletion go through ResponseStore so they stay
// transactional with the invitation and the event counters.
type ParticipationRepository interface {
	GetByEventAndPerformer(ctx context.Context, eventID, performerID string) (*Participation, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Participation, error)
	// UpdateReview sets the post-hoc attendance flag and/or rating.
	UpdateReview(ctx context.Context, eventID, performerID string, attendance *bool, rating *int) (*Participation, error)
	// CountFutureConfirmedByPerformer counts confirmed participations in
	// events dated after now. The identity provider consults it before
	// deleting a performer account.
	CountFutureConfirmedByPerformer(ctx context.Context, performerID string, now time.Time) (int, error)
}

// ResponseStore is the transactional unit of work for the response and removal
// transitions. Both mutate an invitation, a participation, and the event
// counters, and must land both-or-neither.
type ResponseStore interface {
	// RespondToInvitation flips the pending invitation to responded, inserts
	// the participation, and recomputes confirmed_count in one transaction.
	// No pending invitation and no participation: ErrNotFound. Participation
	// already present (sequential or racing duplicate): ErrAlreadyResponded.
	RespondToInvitation(ctx context.Context, eventID, performerID string, status ParticipationStatus, notes string, respondedAt time.Time) (*Participation, error)
	// RemoveParticipant deletes the participation and its paired invitation,
	// then recomputes both counters, in one transaction.
	RemoveParticipant(ctx context.Context, eventID, performerID string) error
}
