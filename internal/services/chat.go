package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ensembleplanner/internal/domain"
)

type chatService struct {
	access         domain.AccessService
	chatRepo       domain.ChatRepository
	contextTimeout time.Duration
}

func NewChatService(access domain.AccessService, chatRepo domain.ChatRepository, timeout time.Duration) domain.ChatService {
	return &chatService{
		access:         access,
		chatRepo:       chatRepo,
		contextTimeout: timeout,
	}
}

func (s *chatService) ListMessages(ctx context.Context, p domain.Principal, eventID string) ([]*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireAccess(ctx, p, eventID); err != nil {
		return nil, err
	}
	msgs, err := s.chatRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *chatService) PostMessage(ctx context.Context, p domain.Principal, eventID, body string) (*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: message body is required", domain.ErrInvalidInput)
	}
	if err := s.requireAccess(ctx, p, eventID); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		EventID:  eventID,
		AuthorID: p.ID,
		Body:     body,
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

func (s *chatService) requireAccess(ctx context.Context, p domain.Principal, eventID string) error {
	ok, err := s.access.CanAccessChat(ctx, p, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("derive chat access: %w", err)
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
