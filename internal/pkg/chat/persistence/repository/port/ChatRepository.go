package repository

import (
	"context"
	"time"

	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
//
// Error contract: lookups return chat.ErrConversationNotFound or
// chat.ErrMessageNotFound when the reference does not resolve;
// CreateConversation returns chat.ErrConversationExists when the store's
// uniqueness constraint on pair_key rejects the insert. The store is
// authoritative for pair dedup; callers do not pre-check.
type ChatRepository interface {
	// CreateConversation persists c and returns it with the store-assigned ID.
	CreateConversation(ctx context.Context, c chat.Conversation) (*chat.Conversation, error)

	// GetConversationByID resolves a conversation by its identifier.
	GetConversationByID(ctx context.Context, id string) (*chat.Conversation, error)

	// GetConversationByPairKey resolves the single conversation for a pair.
	GetConversationByPairKey(ctx context.Context, pairKey string) (*chat.Conversation, error)

	// SaveMessage persists m (status SENT) and returns it with the
	// store-assigned ID.
	SaveMessage(ctx context.Context, m chat.Message) (*chat.Message, error)

	// MarkDelivered advances SENT -> DELIVERED. Already DELIVERED or SEEN is a
	// no-op, never a regression.
	MarkDelivered(ctx context.Context, messageID string) error

	// MarkSeen sets status SEEN and stamps read_at, returning the timestamp
	// used. Repeat calls succeed.
	MarkSeen(ctx context.Context, messageID string) (time.Time, error)

	// ListMessages returns messages of a conversation ordered by created_at
	// descending. A non-nil cursor bounds the page to strictly older rows.
	// A non-positive limit falls back to the default page size.
	ListMessages(ctx context.Context, conversationID string, cursor *time.Time, limit int) ([]chat.Message, error)
}

// DefaultPageSize bounds ListMessages pages when the caller does not.
const DefaultPageSize = 20
