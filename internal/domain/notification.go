package domain

import (
	"context"
	"time"
)

// InvitationNotice is the payload fired on invitation creation.
type InvitationNotice struct {
	EventID     string
	EventTitle  string
	EventDate   time.Time
	PerformerID string
}

// InvitationNotifier is the notification dispatch port. Calls are
// fire-and-forget from the lifecycle engine's point of view: delivery
// failures are the dispatcher's concern and never fail the invite.
type InvitationNotifier interface {
	NotifyInvited(ctx context.Context, notice InvitationNotice) error
}

// AddressResolver resolves a performer ID to an email address. Implemented by
// the identity provider integration.
type AddressResolver interface {
	EmailFor(ctx context.Context, performerID string) (string, error)
}
