package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Kweldop/social-media-backend/internal/infrastructure/auth"
	"github.com/Kweldop/social-media-backend/internal/infrastructure/realtime"
	"github.com/Kweldop/social-media-backend/internal/pkg/chat/application/usecase"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
	httpHandler "github.com/Kweldop/social-media-backend/internal/pkg/chat/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1. Every route
// sits behind the bearer-token middleware; handlers only ever see the
// resolved user identifier.
func RegisterRoutes(r *gin.Engine, authManager *auth.Manager, repo repository.ChatRepository, cache *usecase.ConversationCache, registry *realtime.Registry, logger *slog.Logger) {
	v1 := r.Group("/api/v1")
	v1.Use(auth.Middleware(authManager))
	httpHandler.RegisterRoutes(v1, repo, cache, registry, logger)
}
