package domain

import (
	"context"
	"time"
)

// Event represents a musical event owned by a single organizer.
// InvitedCount and ConfirmedCount are denormalized; the repository recomputes
// them from the invitation and participation tables rather than adjusting them
// arithmetically, so concurrent invite/cancel/remove operations cannot drift.
// swagger:model Event
type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	Schedule       string    `json:"schedule"`
	Program        string    `json:"program"`
	Status         string    `json:"status"`
	OrganizerID    string    `json:"organizer_id"`
	Archived       bool      `json:"archived"`
	InvitedCount   int       `json:"invited_count"`
	ConfirmedCount int       `json:"confirmed_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title string, date time.Time, organizerID string, createdAt time.Time) *Event {
	return &Event{
		Title:       title,
		Date:        date,
		OrganizerID: organizerID,
		Status:      "planned",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// EventUpdate carries optional fields for a partial event update.
// Nil fields are left unchanged.
type EventUpdate struct {
	Title       *string    `json:"title"`
	Date        *time.Time `json:"date"`
	Description *string    `json:"description"`
	Schedule    *string    `json:"schedule"`
	Program     *string    `json:"program"`
	Status      *string    `json:"status"`
}

// Empty reports whether the update carries no fields.
func (u EventUpdate) Empty() bool {
	return u.Title == nil && u.Date == nil && u.Description == nil &&
		u.Schedule == nil && u.Program == nil && u.Status == nil
}

// EventDetail bundles an event with its roster. For a performer caller the
// roster is restricted to their own records.
type EventDetail struct {
	Event          *Event           `json:"event"`
	Invitations    []*Invitation    `json:"invitations"`
	Participations []*Participation `json:"participations"`
}

// EventRepository defines storage operations for events, including the
// conditional archival updates and the counter recomputations.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error

	ListByOrganizer(ctx context.Context, organizerID string) ([]*Event, error)
	// ListActiveForPerformer returns non-archived events where the performer
	// holds a pending invitation or a confirmed participation.
	ListActiveForPerformer(ctx context.Context, performerID string) ([]*Event, error)
	// ListArchiveForPerformer returns events where any participation exists
	// for the performer. When archivedOnly is true, non-archived events are
	// filtered out.
	ListArchiveForPerformer(ctx context.Context, performerID string, archivedOnly bool) ([]*Event, error)

	// ArchivePast flips archived=false events older than cutoff to archived.
	// The update is conditional, so concurrent sweeps are safe. Returns the
	// number of events archived.
	ArchivePast(ctx context.Context, cutoff time.Time) (int64, error)
	// ArchiveIfPast is the per-event variant used as a cheap on-demand check
	// before single-event reads and writes.
	ArchiveIfPast(ctx context.Context, id string, cutoff time.Time) (bool, error)
	// Unarchive clears the archived flag, but only while the event date is
	// strictly in the future at evaluation time. Returns whether the flag
	// was cleared.
	Unarchive(ctx context.Context, id string) (bool, error)

	// RecountInvited sets invited_count to the live count of invitation rows
	// and returns the new value.
	RecountInvited(ctx context.Context, id string) (int, error)
	// RecountConfirmed sets confirmed_count to the live count of confirmed
	// participation rows and returns the new value.
	RecountConfirmed(ctx context.Context, id string) (int, error)
}

// EventService defines the organizer-side event lifecycle plus the
// access-derived detail view.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	// GetEvent returns the event with its roster if the principal may see it:
	// the owning organizer, or a performer with any invitation or
	// participation trace. Anyone else gets ErrForbidden.
	GetEvent(ctx context.Context, p Principal, eventID string) (*EventDetail, error)
	// UpdateEvent applies a partial update. Moving the date of an archived
	// event strictly into the future un-archives it.
	UpdateEvent(ctx context.Context, organizerID, eventID string, upd EventUpdate) (*Event, error)
	// DeleteEvent removes the event and cascades to its invitations,
	// participations, chat messages, and contracts.
	DeleteEvent(ctx context.Context, organizerID, eventID string) error
	ListMyEvents(ctx context.Context, organizerID string) ([]*Event, error)
}
