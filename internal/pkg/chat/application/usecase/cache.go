package usecase

import (
	"context"
	"encoding/json"
	"time"

	cacheport "github.com/Kweldop/social-media-backend/internal/infrastructure/cache/port"
	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
)

const conversationTTL = 24 * time.Hour

// ConversationCache is a best-effort read-through cache for conversation
// lookups. Conversations are immutable after creation, so entries never go
// stale. All methods tolerate a nil receiver and swallow cache errors; the
// repository stays the source of truth.
type ConversationCache struct {
	store cacheport.Cache
}

func NewConversationCache(store cacheport.Cache) *ConversationCache {
	if store == nil {
		return nil
	}
	return &ConversationCache{store: store}
}

func (c *ConversationCache) put(ctx context.Context, conv chat.Conversation) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(conv)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, keyConversationID(conv.ID), string(raw), conversationTTL)
	_ = c.store.Set(ctx, keyConversationPair(conv.PairKey), string(raw), conversationTTL)
}

func (c *ConversationCache) getByID(ctx context.Context, id string) (*chat.Conversation, bool) {
	return c.get(ctx, keyConversationID(id))
}

func (c *ConversationCache) getByPairKey(ctx context.Context, pairKey string) (*chat.Conversation, bool) {
	return c.get(ctx, keyConversationPair(pairKey))
}

func (c *ConversationCache) get(ctx context.Context, key string) (*chat.Conversation, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var conv chat.Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return nil, false
	}
	return &conv, true
}

func keyConversationID(id string) string { return "chat:conversation:id:" + id }

func keyConversationPair(pairKey string) string { return "chat:conversation:pair:" + pairKey }
