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

// GetConversationController resolves the caller's conversation with another
// user by pair key (one controller per endpoint).
type GetConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewGetConversationController(repo repository.ChatRepository, cache *usecase.ConversationCache) *GetConversationController {
	return &GetConversationController{UC: usecase.NewGetConversationUseCase(repo, cache)}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.Query("uid")
		if uid == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "uid is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.GetConversationInput{
			UserA: auth.UserID(c),
			UserB: uid,
		})
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, conv)
	}
}
