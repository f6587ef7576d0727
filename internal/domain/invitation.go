package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyInvited is returned when inviting a performer who already holds an
// invitation for the event.
var ErrAlreadyInvited = errors.New("performer already invited")

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationResponded InvitationStatus = "responded"
)

// InvitationResponse is the answer recorded on a responded invitation.
type InvitationResponse string

const (
	ResponseAccepted InvitationResponse = "accepted"
	ResponseDeclined InvitationResponse = "declined"
)

// Invitation is an offer to a performer to join an event. At most one exists
// per (event, performer) pair, enforced by a uniqueness constraint. It moves
// from pending to responded exactly once and never reverts.
// swagger:model Invitation
type Invitation struct {
	ID          string              `json:"id"`
	EventID     string              `json:"event_id"`
	PerformerID string              `json:"performer_id"`
	Status      InvitationStatus    `json:"status"`
	Response    *InvitationResponse `json:"response,omitempty"`
	RespondedAt *time.Time          `json:"responded_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewInvitation returns a pending Invitation. ID is set by the repository on create.
func NewInvitation(eventID, performerID string, createdAt time.Time) *Invitation {
	return &Invitation{
		EventID:     eventID,
		PerformerID: performerID,
		Status:      InvitationPending,
		CreatedAt:   createdAt,
	}
}

// InviteResult reports the outcome of a batch invite.
type InviteResult struct {
	Invited      int `json:"invited"`
	Skipped      int `json:"skipped"`
	InvitedCount int `json:"invited_count"`
}

// InvitationRepository defines storage operations for invitations.
type InvitationRepository interface {
	// Create inserts a pending invitation. A duplicate (event, performer)
	// pair returns ErrAlreadyInvited.
	Create(ctx context.Context, inv *Invitation) error
	GetByEventAndPerformer(ctx context.Context, eventID, performerID string) (*Invitation, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Invitation, error)
	// DeletePending deletes the invitation only while it is still pending.
	// Responded invitations are not cancellable; ErrNotFound is returned.
	DeletePending(ctx context.Context, eventID, performerID string) error
}

// InvitationService orchestrates the invite/respond/correct transitions across
// the event, invitation, and participation stores.
type InvitationService interface {
	// Invite offers the event to the given performers. Performers already
	// holding an invitation are skipped; the result reports both counts.
	// An empty or all-duplicate batch returns ErrInvalidInput.
	Invite(ctx context.Context, organizerID, eventID string, performerIDs []string) (*InviteResult, error)
	// Cancel deletes a still-pending invitation and recomputes invited_count.
	Cancel(ctx context.Context, organizerID, eventID, performerID string) error
	// Respond records the performer's answer: participation created,
	// invitation marked responded, confirmed_count recomputed, all in one
	// transaction. A second response returns ErrAlreadyResponded.
	Respond(ctx context.Context, performerID, eventID string, status ParticipationStatus, notes string) (*Participation, error)
	// RemoveParticipant deletes the participation and its paired invitation,
	// then recomputes both counters. The performer may be re-invited afterwards.
	RemoveParticipant(ctx context.Context, organizerID, eventID, performerID string) error
	// ReviewParticipation sets the post-hoc attendance flag and rating.
	ReviewParticipation(ctx context.Context, organizerID, eventID, performerID string, attendance *bool, rating *int) (*Participation, error)
}
