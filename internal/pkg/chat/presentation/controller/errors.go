package controller

import (
	"errors"
	"net/http"

	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	"github.com/Kweldop/social-media-backend/internal/pkg/chat/application/usecase"
)

// statusFromError maps the error taxonomy onto HTTP statuses.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, chat.ErrNotParticipant):
		return http.StatusUnauthorized
	case errors.Is(err, chat.ErrConversationNotFound), errors.Is(err, chat.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrConversationExists):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
