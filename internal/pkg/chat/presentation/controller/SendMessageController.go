package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kweldop/social-media-backend/internal/infrastructure/auth"
	"github.com/Kweldop/social-media-backend/internal/pkg/chat/application/usecase"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

// SendMessageController handles the request/response send path (one
// controller per endpoint). The websocket path lives in ChatSocketController.
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(repo repository.ChatRepository) *SendMessageController {
	return &SendMessageController{UC: usecase.NewSendMessageUseCase(repo)}
}

type sendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Text           string `json:"text" binding:"required"`
}

// Handle persists a SENT message and returns it.
func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: req.ConversationID,
			SenderID:       auth.UserID(c),
			Text:           req.Text,
		})
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, msg)
	}
}
