package domain

import (
	"context"
	"errors"
	"time"
)

// ErrContractExists is returned when a contract was already issued for the
// participation.
var ErrContractExists = errors.New("contract already issued for participation")

// Contract is a service contract issued against a confirmed participation.
// The gross fee is stored as given; net-pay arithmetic happens downstream.
// swagger:model Contract
type Contract struct {
	ID              string    `json:"id"`
	ParticipationID string    `json:"participation_id"`
	EventID         string    `json:"event_id"`
	PerformerID     string    `json:"performer_id"`
	GrossFee        float64   `json:"gross_fee"`
	CreatedAt       time.Time `json:"created_at"`
}

// ContractRepository defines storage operations for contracts. At most one
// contract exists per participation, enforced by a uniqueness constraint.
type ContractRepository interface {
	// Create inserts a contract. A duplicate participation returns
	// ErrContractExists.
	Create(ctx context.Context, c *Contract) error
	GetByParticipationID(ctx context.Context, participationID string) (*Contract, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Contract, error)
}

// ContractService issues contracts gated on a confirmed participation.
type ContractService interface {
	// Issue creates a contract for the performer's confirmed participation
	// in the event. No confirmed participation: ErrForbidden. Already
	// issued: ErrContractExists.
	Issue(ctx context.Context, performerID, eventID string, grossFee float64) (*Contract, error)
	// GetOwn returns the performer's contract for the event, keyed through
	// their confirmed participation.
	GetOwn(ctx context.Context, performerID, eventID string) (*Contract, error)
	// ListByEvent returns the event's contracts to the owning organizer.
	ListByEvent(ctx context.Context, organizerID, eventID string) ([]*Contract, error)
}
