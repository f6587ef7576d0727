package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ensembleplanner/internal/domain"
)

type invitationService struct {
	eventRepo         domain.EventRepository
	invitationRepo    domain.InvitationRepository
	participationRepo domain.ParticipationRepository
	responseStore     domain.ResponseStore
	notifier          domain.InvitationNotifier
	logger            *slog.Logger
	contextTimeout    time.Duration
}

func NewInvitationService(
	eventRepo domain.EventRepository,
	invitationRepo domain.InvitationRepository,
	participationRepo domain.ParticipationRepository,
	responseStore domain.ResponseStore,
	notifier domain.InvitationNotifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		eventRepo:         eventRepo,
		invitationRepo:    invitationRepo,
		participationRepo: participationRepo,
		responseStore:     responseStore,
		notifier:          notifier,
		logger:            logger,
		contextTimeout:    timeout,
	}
}

func (s *invitationService) Invite(ctx context.Context, organizerID, eventID string, performerIDs []string) (*domain.InviteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ids := dedupe(performerIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no performers to invite", domain.ErrInvalidInput)
	}

	freshenEvent(ctx, s.eventRepo, s.logger, eventID)

	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	result := &domain.InviteResult{}
	var created []*domain.Invitation
	now := time.Now()
	for _, performerID := range ids {
		inv := domain.NewInvitation(eventID, performerID, now)
		if err := s.invitationRepo.Create(ctx, inv); err != nil {
			if errors.Is(err, domain.ErrAlreadyInvited) {
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("create invitation: %w", err)
		}
		result.Invited++
		created = append(created, inv)
	}
	if result.Invited == 0 {
		return nil, fmt.Errorf("%w: all performers already invited", domain.ErrInvalidInput)
	}

	count, err := s.eventRepo.RecountInvited(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("recount invited: %w", err)
	}
	result.InvitedCount = count

	// Notification dispatch is fire-and-forget; its failures never surface
	// to the inviting organizer.
	for _, inv := range created {
		notice := domain.InvitationNotice{
			EventID:     event.ID,
			EventTitle:  event.Title,
			EventDate:   event.Date,
			PerformerID: inv.PerformerID,
		}
		go func(n domain.InvitationNotice) {
			nctx, ncancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer ncancel()
			if err := s.notifier.NotifyInvited(nctx, n); err != nil {
				s.logger.Warn("invitation notification failed",
					"event_id", n.EventID, "performer_id", n.PerformerID, "err", err)
			}
		}(notice)
	}

	return result, nil
}

func (s *invitationService) Cancel(ctx context.Context, organizerID, eventID, performerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return err
	}

	if err := s.invitationRepo.DeletePending(ctx, eventID, performerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete invitation: %w", err)
	}
	if _, err := s.eventRepo.RecountInvited(ctx, eventID); err != nil {
		return fmt.Errorf("recount invited: %w", err)
	}
	return nil
}

func (s *invitationService) Respond(ctx context.Context, performerID, eventID string, status domain.ParticipationStatus, notes string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be confirmed or declined", domain.ErrInvalidInput)
	}

	freshenEvent(ctx, s.eventRepo, s.logger, eventID)

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	p, err := s.responseStore.RespondToInvitation(ctx, eventID, performerID, status, notes, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAlreadyResponded) {
			return nil, err
		}
		return nil, fmt.Errorf("respond to invitation: %w", err)
	}
	return p, nil
}

func (s *invitationService) RemoveParticipant(ctx context.Context, organizerID, eventID, performerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return err
	}

	if err := s.responseStore.RemoveParticipant(ctx, eventID, performerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}

func (s *invitationService) ReviewParticipation(ctx context.Context, organizerID, eventID, performerID string, attendance *bool, rating *int) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	if attendance == nil && rating == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return nil, err
	}

	p, err := s.participationRepo.UpdateReview(ctx, eventID, performerID, attendance, rating)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update participation: %w", err)
	}
	return p, nil
}

func (s *invitationService) ownedEvent(ctx context.Context, organizerID, eventID string) (*domain.Event, error) {
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
	return event, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
