package usecase

import (
	"context"

	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

// GetConversationInput carries the unordered pair to look up.
type GetConversationInput struct {
	UserA string
	UserB string
}

// GetConversationUseCase resolves the existing conversation for a pair of users.
type GetConversationUseCase struct {
	Repo  repository.ChatRepository
	Cache *ConversationCache
}

func NewGetConversationUseCase(repo repository.ChatRepository, cache *ConversationCache) *GetConversationUseCase {
	return &GetConversationUseCase{Repo: repo, Cache: cache}
}

// Execute looks up by pair key, reading through the cache when available.
func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) (*chat.Conversation, error) {
	pairKey := chat.PairKey(in.UserA, in.UserB)
	if conv, ok := uc.Cache.getByPairKey(ctx, pairKey); ok {
		return conv, nil
	}
	conv, err := uc.Repo.GetConversationByPairKey(ctx, pairKey)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	uc.Cache.put(ctx, *conv)
	return conv, nil
}
