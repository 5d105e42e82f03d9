package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Kweldop/social-media-backend/internal/infrastructure/realtime"
	"github.com/Kweldop/social-media-backend/internal/pkg/chat/application/usecase"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
	"github.com/Kweldop/social-media-backend/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers chat-related HTTP endpoints under the given router group
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, repo repository.ChatRepository, cache *usecase.ConversationCache, registry *realtime.Registry, logger *slog.Logger) {
	createCtl := controller.NewCreateConversationController(repo, cache)
	getConvCtl := controller.NewGetConversationController(repo, cache)
	sendMsgCtl := controller.NewSendMessageController(repo)
	getMsgsCtl := controller.NewGetMessagesController(repo, cache)
	socketCtl := controller.NewChatSocketController(repo, cache, registry, logger)

	// POST /api/v1/create-conversation?uid=<other user>
	g.POST("/create-conversation", createCtl.Handle())

	// GET /api/v1/get-conversation-of-user?uid=<other user>
	g.GET("/get-conversation-of-user", getConvCtl.Handle())

	// POST /api/v1/send-message -> persist a SENT message
	g.POST("/send-message", sendMsgCtl.Handle())

	// GET /api/v1/get-messages?conid=<id>&cursor=<ts>&limit=<n>
	g.GET("/get-messages", getMsgsCtl.Handle())

	// GET /api/v1/ws/<conversation id> -> duplex chat stream
	g.GET("/ws/:conversationId", socketCtl.Handle())
}
