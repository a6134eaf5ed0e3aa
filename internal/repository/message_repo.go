package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"iagiliza-chat/internal/domain"
)

// MessageRepository define el contrato de persistencia para mensajes.
type MessageRepository interface {
	CreateExchange(ctx context.Context, userMsg, assistantMsg domain.Message) error
	ListByChatID(ctx context.Context, chatID string) ([]domain.Message, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.Message, error)
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// CreateExchange persiste el par usuario/asistente y actualiza la recencia
// del chat en una sola transacción: o se escriben ambos mensajes o ninguno.
func (r *PgMessageRepository) CreateExchange(ctx context.Context, userMsg, assistantMsg domain.Message) error {
	const insertQuery = `
		INSERT INTO messages (id, chat_id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	const touchQuery = `
		UPDATE chats
		SET updated_at = GREATEST(updated_at, $2)
		WHERE id = $1
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, msg := range []domain.Message{userMsg, assistantMsg} {
		_, err = tx.Exec(ctx, insertQuery,
			msg.ID,
			msg.ChatID,
			msg.UserID,
			msg.Role,
			msg.Content,
			msg.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	if _, err = tx.Exec(ctx, touchQuery, assistantMsg.ChatID, assistantMsg.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgMessageRepository) ListByChatID(ctx context.Context, chatID string) ([]domain.Message, error) {
	const query = `
		SELECT id, chat_id, user_id, role, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC, seq ASC
	`
	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *PgMessageRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Message, error) {
	const query = `
		SELECT id, chat_id, user_id, role, content, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at ASC, seq ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.UserID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
