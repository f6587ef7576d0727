package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ensembleplanner/internal/domain"
)

type eventService struct {
	eventRepo         domain.EventRepository
	invitationRepo    domain.InvitationRepository
	participationRepo domain.ParticipationRepository
	logger            *slog.Logger
	contextTimeout    time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	invitationRepo domain.InvitationRepository,
	participationRepo domain.ParticipationRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:         eventRepo,
		invitationRepo:    invitationRepo,
		participationRepo: participationRepo,
		logger:            logger,
		contextTimeout:    timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OrganizerID == "" {
		return fmt.Errorf("%w: event organizer is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !event.Date.After(time.Now()) {
		return domain.ErrPastDate
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Status == "" {
		event.Status = "planned"
	}

	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, p domain.Principal, eventID string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	freshenEvent(ctx, s.eventRepo, s.logger, eventID)

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if p.Role == domain.RoleOrganizer {
		if event.OrganizerID != p.ID {
			return nil, domain.ErrForbidden
		}
		invs, err := s.invitationRepo.ListByEventID(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("list invitations: %w", err)
		}
		parts, err := s.participationRepo.ListByEventID(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("list participations: %w", err)
		}
		return &domain.EventDetail{Event: event, Invitations: invs, Participations: parts}, nil
	}

	// A performer sees the event if any trace of involvement exists, and the
	// roster is narrowed to their own records.
	detail := &domain.EventDetail{
		Event:          event,
		Invitations:    []*domain.Invitation{},
		Participations: []*domain.Participation{},
	}
	inv, err := s.invitationRepo.GetByEventAndPerformer(ctx, eventID, p.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if inv != nil {
		detail.Invitations = append(detail.Invitations, inv)
	}
	part, err := s.participationRepo.GetByEventAndPerformer(ctx, eventID, p.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get participation: %w", err)
	}
	if part != nil {
		detail.Participations = append(detail.Participations, part)
	}
	if inv == nil && part == nil {
		return nil, domain.ErrForbidden
	}
	return detail, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, organizerID, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	freshenEvent(ctx, s.eventRepo, s.logger, eventID)

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
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	// A date edit strictly into the future revives an archived event. The
	// repository re-checks the date condition so a racing sweep cannot undo it.
	if upd.Date != nil && updated.Archived && upd.Date.After(time.Now()) {
		cleared, err := s.eventRepo.Unarchive(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("unarchive event: %w", err)
		}
		if cleared {
			updated.Archived = false
		}
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, organizerID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return domain.ErrForbidden
	}
	// Invitations, participations, chat messages, and contracts go with the
	// event via ON DELETE CASCADE.
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ListMyEvents(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	freshenAll(ctx, s.eventRepo, s.logger)

	events, err := s.eventRepo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
