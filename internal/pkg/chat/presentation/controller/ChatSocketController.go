package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Kweldop/social-media-backend/internal/infrastructure/auth"
	"github.com/Kweldop/social-media-backend/internal/infrastructure/realtime"
	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	"github.com/Kweldop/social-media-backend/internal/pkg/chat/application/usecase"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

const defaultReadTimeout = 60 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when a frontend
		// origin list exists.
		return true
	},
}

// ChatSocketController owns the websocket endpoint for realtime 1:1 chat.
//
// A session moves through four stages: the upgrade request arrives with a
// conversation id and an authenticated caller; membership is verified and the
// counterpart resolved before any upgrade happens; the session registers its
// connection and pumps events until either side ends; the presence entry is
// removed unconditionally on the way out.
type ChatSocketController struct {
	registry    *realtime.Registry
	verifyUC    *usecase.VerifyMembershipUseCase
	sendUC      *usecase.SendMessageUseCase
	deliveredUC *usecase.MarkDeliveredUseCase
	seenUC      *usecase.MarkSeenUseCase
	logger      *slog.Logger

	inflightTimeout time.Duration
}

func NewChatSocketController(repo repository.ChatRepository, cache *usecase.ConversationCache, registry *realtime.Registry, logger *slog.Logger) *ChatSocketController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatSocketController{
		registry:        registry,
		verifyUC:        usecase.NewVerifyMembershipUseCase(repo, cache),
		sendUC:          usecase.NewSendMessageUseCase(repo),
		deliveredUC:     usecase.NewMarkDeliveredUseCase(repo),
		seenUC:          usecase.NewMarkSeenUseCase(repo),
		logger:          logger,
		inflightTimeout: 5 * time.Second,
	}
}

// Handle verifies membership, upgrades to a websocket and processes wire
// events until the session ends.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		userID := auth.UserID(c)

		// Membership is a precondition of the upgrade, not an in-stream error.
		ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
		participants, err := ctl.verifyUC.Execute(ctx, usecase.VerifyMembershipInput{
			ConversationID: conversationID,
			UserID:         userID,
		})
		cancel()
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"error": err.Error()})
			return
		}
		recipient := ""
		for _, p := range participants {
			if p != userID {
				recipient = p
				break
			}
		}
		if recipient == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "recipient not found"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.logger.Warn("websocket upgrade failed", "user", userID, "err", err)
			return
		}

		conn := realtime.NewConnection(userID, ws)
		ctl.registry.Connect(conn)
		defer func() {
			ctl.registry.Disconnect(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.logger.Info("chat session opened", "user", userID, "conversation", conversationID)

		for {
			msgType, data, err := ws.ReadMessage()
			if err != nil {
				// Remote close, transport failure, or our own Close after a
				// session replacement all land here.
				ctl.logger.Info("chat session ended", "user", userID, "err", err)
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}

			event, err := chat.DecodeClientEvent(data)
			if err != nil {
				ctl.logger.Warn("protocol error", "user", userID, "err", err)
				conn.Close(websocket.CloseInvalidFramePayloadData, "malformed event")
				return
			}

			if err := ctl.dispatch(c, conversationID, userID, recipient, event); err != nil {
				ctl.logger.Error("event failed", "user", userID, "type", event.Type, "err", err)
				conn.Close(websocket.CloseInternalServerErr, "event failed")
				return
			}
		}
	}
}

// dispatch persists the event's effect first and only then relays it, so the
// counterpart never sees anything that is not durably recorded.
func (ctl *ChatSocketController) dispatch(c *gin.Context, conversationID, senderID, recipient string, event chat.ClientEvent) error {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	var relay chat.ServerEvent
	switch event.Type {
	case chat.EventMessage:
		msg, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: conversationID,
			SenderID:       senderID,
			Text:           event.Message,
		})
		if err != nil {
			return err
		}
		relay = chat.NewMessageEvent(*msg)
	case chat.EventDelivered:
		if err := ctl.deliveredUC.Execute(ctx, event.MessageID); err != nil {
			return err
		}
		relay = chat.NewDeliveredEvent(event.MessageID)
	case chat.EventSeen:
		readAt, err := ctl.seenUC.Execute(ctx, event.MessageID)
		if err != nil {
			return err
		}
		relay = chat.NewSeenEvent(event.MessageID, readAt)
	}

	payload, err := relay.Encode()
	if err != nil {
		return err
	}
	return ctl.registry.Route(recipient, payload)
}
