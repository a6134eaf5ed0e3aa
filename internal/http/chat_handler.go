package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"iagiliza-chat/internal/service"
)

// ChatHandler mantiene dependencias para endpoints de chats y mensajes.
type ChatHandler struct {
	logger   *zap.Logger
	msgServ  *service.MessageService
	chatServ *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, msgServ *service.MessageService, chatServ *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		msgServ:  msgServ,
		chatServ: chatServ,
	}
}

// SendMessage maneja POST /message.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "missing auth claims"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
		ChatID  string `json:"chat_id" binding:"omitempty,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation Error", "message": err.Error()})
		return
	}

	result, err := h.msgServ.Send(c.Request.Context(), claims.UserID, req.Content, req.ChatID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Send Message Failed", "message": "chat not found or access denied"})
		case errors.Is(err, service.ErrMessageInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation Error", "message": "message content is required"})
		default:
			h.logger.Error("send message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error", "message": "could not send message"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"chat_id":           result.ChatID,
		"user_message":      result.UserMessage,
		"assistant_message": result.AssistantMessage,
	})
}

// GetMessages maneja GET /messages?chatId=.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "missing auth claims"})
		return
	}

	chatID := c.Query("chatId")
	if chatID != "" {
		// Un chatId que ni siquiera es UUID recibe la misma respuesta que un
		// chat ajeno; no llega a la base.
		if err := uuid.Validate(chatID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Get Messages Failed", "message": "chat not found or access denied"})
			return
		}
	}

	messages, err := h.msgServ.History(c.Request.Context(), claims.UserID, chatID)
	if err != nil {
		if errors.Is(err, service.ErrChatNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Get Messages Failed", "message": "chat not found or access denied"})
			return
		}
		h.logger.Error("get messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error", "message": "could not get messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// GetChats maneja GET /chats.
func (h *ChatHandler) GetChats(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "missing auth claims"})
		return
	}

	chats, err := h.chatServ.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("get chats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error", "message": "could not get chats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}
