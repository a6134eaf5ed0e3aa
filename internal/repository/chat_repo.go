package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"iagiliza-chat/internal/domain"
)

// ChatRepository define el contrato de persistencia para chats.
type ChatRepository interface {
	Create(ctx context.Context, chat domain.Chat) error
	GetOwned(ctx context.Context, ownerID, chatID string) (domain.Chat, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.ChatSummary, error)
}

// PgChatRepository implementa ChatRepository usando pgxpool.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) Create(ctx context.Context, chat domain.Chat) error {
	const query = `
		INSERT INTO chats (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		chat.ID,
		chat.UserID,
		chat.Title,
		chat.CreatedAt,
		chat.UpdatedAt,
	)
	return err
}

// GetOwned resuelve un chat solo si pertenece al dueño indicado. Un chat
// inexistente y un chat ajeno producen el mismo pgx.ErrNoRows.
func (r *PgChatRepository) GetOwned(ctx context.Context, ownerID, chatID string) (domain.Chat, error) {
	const query = `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE id = $1 AND user_id = $2
	`
	var chat domain.Chat
	err := r.pool.QueryRow(ctx, query, chatID, ownerID).Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Chat{}, err
	}
	return chat, err
}

// ListByOwner devuelve los chats del dueño por recencia, cada uno con su
// último mensaje como preview.
func (r *PgChatRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.ChatSummary, error) {
	const query = `
		SELECT c.id, c.title, c.created_at, c.updated_at, m.content, m.role
		FROM chats c
		LEFT JOIN LATERAL (
			SELECT content, role
			FROM messages
			WHERE chat_id = c.id
			ORDER BY created_at DESC, seq DESC
			LIMIT 1
		) m ON true
		WHERE c.user_id = $1
		ORDER BY c.updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []domain.ChatSummary
	for rows.Next() {
		var summary domain.ChatSummary
		var content, role *string

		err = rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&content,
			&role,
		)
		if err != nil {
			return nil, err
		}
		if content != nil && role != nil {
			summary.LastMessage = &domain.MessagePreview{Content: *content, Role: *role}
		}
		chats = append(chats, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return chats, nil
}
