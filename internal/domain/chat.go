package domain

import "time"

// Chat es un hilo de conversación con un único dueño; el dueño nunca cambia.
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessagePreview es el último mensaje de un chat, para listados.
type MessagePreview struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// ChatSummary anota un chat con su mensaje más reciente.
type ChatSummary struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	LastMessage *MessagePreview `json:"last_message,omitempty"`
}
