package usecase

import (
	"context"

	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

// CreateConversationInput carries the unordered pair to open a thread for.
type CreateConversationInput struct {
	UserA string
	UserB string
}

// CreateConversationUseCase opens the single conversation for a pair of users.
// The store's unique index on pair_key is authoritative: a racing duplicate
// surfaces as chat.ErrConversationExists, this use case does not pre-check.
type CreateConversationUseCase struct {
	Repo  repository.ChatRepository
	Cache *ConversationCache
}

func NewCreateConversationUseCase(repo repository.ChatRepository, cache *ConversationCache) *CreateConversationUseCase {
	return &CreateConversationUseCase{Repo: repo, Cache: cache}
}

// Execute persists a new conversation for the pair and primes the cache.
func (uc *CreateConversationUseCase) Execute(ctx context.Context, in CreateConversationInput) (*chat.Conversation, error) {
	conv, err := chat.NewConversation(in.UserA, in.UserB)
	if err != nil {
		return nil, err
	}
	created, err := uc.Repo.CreateConversation(ctx, *conv)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	uc.Cache.put(ctx, *created)

	return created, nil
}
