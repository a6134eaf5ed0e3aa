package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"iagiliza-chat/internal/domain"
	"iagiliza-chat/internal/reply"
	"iagiliza-chat/internal/repository"
)

// MessageService orquesta el envío de mensajes y la lectura del historial.
type MessageService struct {
	repo    repository.MessageRepository
	chats   *ChatService
	replier reply.Generator
}

var (
	ErrMessageServiceNotConfigured = errors.New("message service not configured")
	ErrMessageInvalidInput         = errors.New("message invalid input")
)

func NewMessageService(repo repository.MessageRepository, chats *ChatService, replier reply.Generator) *MessageService {
	return &MessageService{
		repo:    repo,
		chats:   chats,
		replier: replier,
	}
}

// SendResult agrupa el par de mensajes producido por un envío.
type SendResult struct {
	ChatID           string         `json:"chat_id"`
	UserMessage      domain.Message `json:"user_message"`
	AssistantMessage domain.Message `json:"assistant_message"`
}

// Send persiste el mensaje del usuario y la respuesta del asistente como una
// unidad: si alguno de los dos no puede escribirse, no queda estado parcial.
// Sin chatID se abre un chat nuevo; con chatID se exige propiedad.
func (s *MessageService) Send(ctx context.Context, userID, content, chatID string) (SendResult, error) {
	if s == nil || s.repo == nil || s.chats == nil || s.replier == nil {
		return SendResult{}, ErrMessageServiceNotConfigured
	}

	userID = strings.TrimSpace(userID)
	content = strings.TrimSpace(content)
	chatID = strings.TrimSpace(chatID)
	if userID == "" || content == "" {
		return SendResult{}, ErrMessageInvalidInput
	}

	var chat domain.Chat
	var err error
	if chatID == "" {
		chat, err = s.chats.Create(ctx, userID, "")
	} else {
		chat, err = s.chats.ResolveOwned(ctx, userID, chatID)
	}
	if err != nil {
		return SendResult{}, err
	}

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chat.ID,
		UserID:    userID,
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	replyText := s.replier.Generate()

	assistantAt := time.Now().UTC()
	if assistantAt.Before(userMsg.CreatedAt) {
		assistantAt = userMsg.CreatedAt
	}
	assistantMsg := domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chat.ID,
		UserID:    userID,
		Role:      domain.RoleAssistant,
		Content:   replyText,
		CreatedAt: assistantAt,
	}

	if err := s.repo.CreateExchange(ctx, userMsg, assistantMsg); err != nil {
		return SendResult{}, err
	}

	return SendResult{
		ChatID:           chat.ID,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

// History devuelve mensajes ascendentes por fecha de creación. Con chatID
// filtra a ese chat previa verificación de propiedad; sin chatID devuelve
// todos los mensajes del usuario.
func (s *MessageService) History(ctx context.Context, userID, chatID string) ([]domain.Message, error) {
	if s == nil || s.repo == nil || s.chats == nil {
		return nil, ErrMessageServiceNotConfigured
	}

	userID = strings.TrimSpace(userID)
	chatID = strings.TrimSpace(chatID)
	if userID == "" {
		return nil, ErrMessageInvalidInput
	}

	var messages []domain.Message
	var err error
	if chatID == "" {
		messages, err = s.repo.ListByUserID(ctx, userID)
	} else {
		if _, err = s.chats.ResolveOwned(ctx, userID, chatID); err != nil {
			return nil, err
		}
		messages, err = s.repo.ListByChatID(ctx, chatID)
	}
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}
