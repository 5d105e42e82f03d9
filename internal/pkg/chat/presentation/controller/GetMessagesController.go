package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kweldop/social-media-backend/internal/infrastructure/auth"
	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	"github.com/Kweldop/social-media-backend/internal/pkg/chat/application/usecase"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesController serves paginated history, newest first (one
// controller per endpoint). Only participants may read a conversation.
type GetMessagesController struct {
	VerifyUC *usecase.VerifyMembershipUseCase
	UC       *usecase.GetMessagesUseCase
}

func NewGetMessagesController(repo repository.ChatRepository, cache *usecase.ConversationCache) *GetMessagesController {
	return &GetMessagesController{
		VerifyUC: usecase.NewVerifyMembershipUseCase(repo, cache),
		UC:       usecase.NewGetMessagesUseCase(repo),
	}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conid := c.Query("conid")
		if conid == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conid is required"})
			return
		}

		var cursor *time.Time
		if v := c.Query("cursor"); v != "" {
			ts, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor format"})
				return
			}
			cursor = &ts
		}

		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if _, err := h.VerifyUC.Execute(ctx, usecase.VerifyMembershipInput{
			ConversationID: conid,
			UserID:         auth.UserID(c),
		}); err != nil {
			c.JSON(statusFromError(err), gin.H{"error": err.Error()})
			return
		}

		msgs, err := h.UC.Execute(ctx, usecase.GetMessagesInput{
			ConversationID: conid,
			Cursor:         cursor,
			Limit:          limit,
		})
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"error": err.Error()})
			return
		}
		if msgs == nil {
			msgs = []chat.Message{}
		}

		c.JSON(http.StatusOK, msgs)
	}
}
