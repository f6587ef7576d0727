package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ensembleplanner/internal/domain"
)

type accessService struct {
	eventRepo         domain.EventRepository
	invitationRepo    domain.InvitationRepository
	participationRepo domain.ParticipationRepository
	logger            *slog.Logger
	contextTimeout    time.Duration
}

func NewAccessService(
	eventRepo domain.EventRepository,
	invitationRepo domain.InvitationRepository,
	participationRepo domain.ParticipationRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AccessService {
	return &accessService{
		eventRepo:         eventRepo,
		invitationRepo:    invitationRepo,
		participationRepo: participationRepo,
		logger:            logger,
		contextTimeout:    timeout,
	}
}

func (s *accessService) CanViewEvent(ctx context.Context, p domain.Principal, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get event: %w", err)
	}
	if p.Role == domain.RoleOrganizer {
		return event.OrganizerID == p.ID, nil
	}

	// Any trace of involvement grants read access.
	if _, err := s.invitationRepo.GetByEventAndPerformer(ctx, eventID, p.ID); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get invitation: %w", err)
	}
	if _, err := s.participationRepo.GetByEventAndPerformer(ctx, eventID, p.ID); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get participation: %w", err)
	}
	return false, nil
}

func (s *accessService) CanAccessChat(ctx context.Context, p domain.Principal, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get event: %w", err)
	}
	if p.Role == domain.RoleOrganizer {
		return event.OrganizerID == p.ID, nil
	}

	// Only a confirmed participation opens the chat; pending invitations and
	// declined participations do not.
	part, err := s.participationRepo.GetByEventAndPerformer(ctx, eventID, p.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get participation: %w", err)
	}
	return part.Status == domain.ParticipationConfirmed, nil
}

func (s *accessService) ConfirmedParticipation(ctx context.Context, eventID, performerID string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	part, err := s.participationRepo.GetByEventAndPerformer(ctx, eventID, performerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participation: %w", err)
	}
	if part.Status != domain.ParticipationConfirmed {
		return nil, domain.ErrNotFound
	}
	return part, nil
}

func (s *accessService) ListActive(ctx context.Context, performerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	freshenAll(ctx, s.eventRepo, s.logger)

	events, err := s.eventRepo.ListActiveForPerformer(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}
	return events, nil
}

func (s *accessService) ListArchive(ctx context.Context, performerID string, archivedOnly bool) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	freshenAll(ctx, s.eventRepo, s.logger)

	events, err := s.eventRepo.ListArchiveForPerformer(ctx, performerID, archivedOnly)
	if err != nil {
		return nil, fmt.Errorf("list archive events: %w", err)
	}
	return events, nil
}

func (s *accessService) FutureConfirmedCount(ctx context.Context, performerID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	count, err := s.participationRepo.CountFutureConfirmedByPerformer(ctx, performerID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("count future confirmed: %w", err)
	}
	return count, nil
}
