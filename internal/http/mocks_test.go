package http

import (
	"context"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"iagiliza-chat/internal/domain"
	"iagiliza-chat/internal/reply"
	"iagiliza-chat/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	old, ok := m.usersByID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByEmail, old.Email)
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

type mockChatRepo struct {
	chats         map[string]domain.Chat
	messages      *mockMessageRepo
	getOwnedCalls int
}

func (m *mockChatRepo) Create(_ context.Context, chat domain.Chat) error {
	m.chats[chat.ID] = chat
	return nil
}

func (m *mockChatRepo) GetOwned(_ context.Context, ownerID, chatID string) (domain.Chat, error) {
	m.getOwnedCalls++
	chat, ok := m.chats[chatID]
	if !ok || chat.UserID != ownerID {
		return domain.Chat{}, pgx.ErrNoRows
	}
	return chat, nil
}

func (m *mockChatRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.ChatSummary, error) {
	var owned []domain.Chat
	for _, chat := range m.chats {
		if chat.UserID == ownerID {
			owned = append(owned, chat)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
	})
	summaries := make([]domain.ChatSummary, 0, len(owned))
	for _, chat := range owned {
		summary := domain.ChatSummary{
			ID:        chat.ID,
			Title:     chat.Title,
			CreatedAt: chat.CreatedAt,
			UpdatedAt: chat.UpdatedAt,
		}
		if m.messages != nil {
			for i := len(m.messages.messages) - 1; i >= 0; i-- {
				if msg := m.messages.messages[i]; msg.ChatID == chat.ID {
					summary.LastMessage = &domain.MessagePreview{Content: msg.Content, Role: msg.Role}
					break
				}
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

type mockMessageRepo struct {
	chats    *mockChatRepo
	messages []domain.Message
}

func (m *mockMessageRepo) CreateExchange(_ context.Context, userMsg, assistantMsg domain.Message) error {
	m.messages = append(m.messages, userMsg, assistantMsg)
	if m.chats != nil {
		if chat, ok := m.chats.chats[assistantMsg.ChatID]; ok {
			if assistantMsg.CreatedAt.After(chat.UpdatedAt) {
				chat.UpdatedAt = assistantMsg.CreatedAt
			}
			m.chats.chats[chat.ID] = chat
		}
	}
	return nil
}

func (m *mockMessageRepo) ListByChatID(_ context.Context, chatID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) ListByUserID(_ context.Context, userID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type testEnv struct {
	router   *gin.Engine
	jwtSvc   *service.JWTService
	userRepo *mockUserRepo
	chatRepo *mockChatRepo
	msgRepo  *mockMessageRepo
	replier  *reply.Mock
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(string) bool { return true }

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	userRepo := newMockUserRepo()
	chatRepo := &mockChatRepo{chats: make(map[string]domain.Chat)}
	msgRepo := &mockMessageRepo{chats: chatRepo}
	chatRepo.messages = msgRepo

	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	userSvc := service.NewUserService(logger, userRepo, allowAllLimiter{})
	chatSvc := service.NewChatService(chatRepo)
	replier := &reply.Mock{Response: "canned reply"}
	msgSvc := service.NewMessageService(msgRepo, chatSvc, replier)

	authH := NewAuthHandler(logger, userSvc, jwtSvc)
	userH := NewUserHandler(logger, userSvc)
	chatH := NewChatHandler(logger, msgSvc, chatSvc)

	return &testEnv{
		router:   NewRouter(logger, jwtSvc, authH, userH, chatH),
		jwtSvc:   jwtSvc,
		userRepo: userRepo,
		chatRepo: chatRepo,
		msgRepo:  msgRepo,
		replier:  replier,
	}
}
