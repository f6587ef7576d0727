package domain

import "context"

// AccessService derives per-caller visibility from the participation state.
// Downstream consumers (chat, contract issuance, the identity provider's
// delete-user check) go through these queries instead of reading the ledgers
// directly.
type AccessService interface {
	// CanViewEvent reports whether the principal may read the event detail:
	// the owning organizer, or a performer with any invitation or
	// participation trace.
	CanViewEvent(ctx context.Context, p Principal, eventID string) (bool, error)
	// CanAccessChat reports whether the principal may read/write event chat:
	// the owning organizer, or a performer with a confirmed participation.
	// Pending invitations and declined participations do not qualify.
	CanAccessChat(ctx context.Context, p Principal, eventID string) (bool, error)
	// ConfirmedParticipation returns the confirmed participation for the
	// pair, or ErrNotFound. Contract issuance snapshots against it; status
	// is immutable post-creation so the snapshot is stable.
	ConfirmedParticipation(ctx context.Context, eventID, performerID string) (*Participation, error)
	// ListActive returns the performer's non-archived events with a pending
	// invitation or confirmed participation.
	ListActive(ctx context.Context, performerID string) ([]*Event, error)
	// ListArchive returns events with any participation for the performer.
	ListArchive(ctx context.Context, performerID string, archivedOnly bool) ([]*Event, error)
	// FutureConfirmedCount counts the performer's confirmed commitments to
	// future-dated events.
	FutureConfirmedCount(ctx context.Context, performerID string) (int, error)
}
