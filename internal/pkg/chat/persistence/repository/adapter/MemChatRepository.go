package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"

	"github.com/google/uuid"
)

// MemChatRepository is an in-memory ChatRepository with the same error
// contract as the Postgres adapter. It backs tests and cacheless local runs.
type MemChatRepository struct {
	mu            sync.RWMutex
	conversations map[string]chat.Conversation // by ID
	byPairKey     map[string]string            // pair_key -> conversation ID
	messages      map[string]chat.Message      // by ID
	lastCreated   map[string]time.Time         // conversation ID -> newest message created_at
}

func NewMemChatRepository() *MemChatRepository {
	return &MemChatRepository{
		conversations: make(map[string]chat.Conversation),
		byPairKey:     make(map[string]string),
		messages:      make(map[string]chat.Message),
		lastCreated:   make(map[string]time.Time),
	}
}

var _ repository.ChatRepository = (*MemChatRepository)(nil)

func (r *MemChatRepository) CreateConversation(_ context.Context, c chat.Conversation) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPairKey[c.PairKey]; ok {
		return nil, chat.ErrConversationExists
	}
	c.ID = uuid.NewString()
	c.Participants = append([]string(nil), c.Participants...)
	r.conversations[c.ID] = c
	r.byPairKey[c.PairKey] = c.ID
	return &c, nil
}

func (r *MemChatRepository) GetConversationByID(_ context.Context, id string) (*chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conversations[id]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	return &c, nil
}

func (r *MemChatRepository) GetConversationByPairKey(_ context.Context, pairKey string) (*chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPairKey[pairKey]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	c := r.conversations[id]
	return &c, nil
}

func (r *MemChatRepository) SaveMessage(_ context.Context, m chat.Message) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[m.ConversationID]; !ok {
		return nil, chat.ErrConversationNotFound
	}
	// Coarse clocks can stamp two writes identically, which would break
	// strict cursor pagination; keep created_at strictly increasing per
	// conversation.
	if last, ok := r.lastCreated[m.ConversationID]; ok && !m.CreatedAt.After(last) {
		m.CreatedAt = last.Add(time.Nanosecond)
	}
	r.lastCreated[m.ConversationID] = m.CreatedAt
	m.ID = uuid.NewString()
	r.messages[m.ID] = m
	return &m, nil
}

func (r *MemChatRepository) MarkDelivered(_ context.Context, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[messageID]
	if !ok {
		return chat.ErrMessageNotFound
	}
	if m.Status == chat.StatusSent {
		m.Status = chat.StatusDelivered
		r.messages[messageID] = m
	}
	return nil
}

func (r *MemChatRepository) MarkSeen(_ context.Context, messageID string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[messageID]
	if !ok {
		return time.Time{}, chat.ErrMessageNotFound
	}
	readAt := time.Now().UTC()
	m.Status = chat.StatusSeen
	m.ReadAt = &readAt
	r.messages[messageID] = m
	return readAt, nil
}

func (r *MemChatRepository) ListMessages(_ context.Context, conversationID string, cursor *time.Time, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = repository.DefaultPageSize
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var msgs []chat.Message
	for _, m := range r.messages {
		if m.ConversationID != conversationID {
			continue
		}
		if cursor != nil && !m.CreatedAt.Before(*cursor) {
			continue
		}
		msgs = append(msgs, m)
	}
	sort.Slice(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}
