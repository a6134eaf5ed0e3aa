package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"iagiliza-chat/internal/domain"
	"iagiliza-chat/internal/repository"
)

// ChatService encapsula creación, resolución y listado de chats.
type ChatService struct {
	repo repository.ChatRepository
}

// ErrChatNotFound cubre tanto el chat inexistente como el ajeno; el caller no
// puede distinguirlos para no filtrar la existencia de chats de otros.
var ErrChatNotFound = errors.New("chat not found or access denied")

var ErrChatServiceNotConfigured = errors.New("chat service not configured")

const defaultChatTitle = "New Chat"

func NewChatService(repo repository.ChatRepository) *ChatService {
	return &ChatService{repo: repo}
}

// Create abre un chat nuevo para el dueño indicado. Siempre tiene éxito.
func (s *ChatService) Create(ctx context.Context, ownerID, title string) (domain.Chat, error) {
	if s == nil || s.repo == nil {
		return domain.Chat{}, ErrChatServiceNotConfigured
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultChatTitle
	}

	now := time.Now().UTC()
	chat := domain.Chat{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, chat); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

// ResolveOwned devuelve el chat solo si pertenece al dueño indicado.
func (s *ChatService) ResolveOwned(ctx context.Context, ownerID, chatID string) (domain.Chat, error) {
	if s == nil || s.repo == nil {
		return domain.Chat{}, ErrChatServiceNotConfigured
	}

	chat, err := s.repo.GetOwned(ctx, ownerID, chatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Chat{}, ErrChatNotFound
		}
		return domain.Chat{}, err
	}
	return chat, nil
}

// List devuelve los chats del dueño, descendente por recencia, con preview.
func (s *ChatService) List(ctx context.Context, ownerID string) ([]domain.ChatSummary, error) {
	if s == nil || s.repo == nil {
		return nil, ErrChatServiceNotConfigured
	}

	chats, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []domain.ChatSummary{}
	}
	return chats, nil
}
