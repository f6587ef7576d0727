package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ensembleplanner/internal/domain"
)

type contractService struct {
	eventRepo      domain.EventRepository
	access         domain.AccessService
	contractRepo   domain.ContractRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewContractService(
	eventRepo domain.EventRepository,
	access domain.AccessService,
	contractRepo domain.ContractRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ContractService {
	return &contractService{
		eventRepo:      eventRepo,
		access:         access,
		contractRepo:   contractRepo,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *contractService) Issue(ctx context.Context, performerID, eventID string, grossFee float64) (*domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if grossFee <= 0 {
		return nil, fmt.Errorf("%w: gross fee must be positive", domain.ErrInvalidInput)
	}

	freshenEvent(ctx, s.eventRepo, s.logger, eventID)

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	part, err := s.access.ConfirmedParticipation(ctx, eventID, performerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No confirmed participation, no contract.
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get confirmed participation: %w", err)
	}

	contract := &domain.Contract{
		ParticipationID: part.ID,
		EventID:         eventID,
		PerformerID:     performerID,
		GrossFee:        grossFee,
	}
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		if errors.Is(err, domain.ErrContractExists) {
			return nil, domain.ErrContractExists
		}
		return nil, fmt.Errorf("create contract: %w", err)
	}
	return contract, nil
}

func (s *contractService) GetOwn(ctx context.Context, performerID, eventID string) (*domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	part, err := s.access.ConfirmedParticipation(ctx, eventID, performerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get confirmed participation: %w", err)
	}

	contract, err := s.contractRepo.GetByParticipationID(ctx, part.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return contract, nil
}

func (s *contractService) ListByEvent(ctx context.Context, organizerID, eventID string) ([]*domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrForbidden
	}

	contracts, err := s.contractRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, nil
}
