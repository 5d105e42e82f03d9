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

// CreateConversationController handles the conversation creation endpoint
// (one controller per endpoint).
type CreateConversationController struct {
	UC *usecase.CreateConversationUseCase
}

func NewCreateConversationController(repo repository.ChatRepository, cache *usecase.ConversationCache) *CreateConversationController {
	return &CreateConversationController{UC: usecase.NewCreateConversationUseCase(repo, cache)}
}

// Handle creates the conversation between the caller and ?uid=<other user>.
func (h *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.Query("uid")
		if uid == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "uid is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.CreateConversationInput{
			UserA: auth.UserID(c),
			UserB: uid,
		})
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, conv)
	}
}
