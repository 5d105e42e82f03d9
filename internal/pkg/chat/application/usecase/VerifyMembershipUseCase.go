package usecase

import (
	"context"
	"errors"

	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

// VerifyMembershipInput identifies the conversation and the caller to check.
type VerifyMembershipInput struct {
	ConversationID string
	UserID         string
}

// VerifyMembershipUseCase gates access to a conversation. A missing
// conversation and a non-member are deliberately indistinguishable to the
// caller: both come back as chat.ErrNotParticipant.
type VerifyMembershipUseCase struct {
	Repo  repository.ChatRepository
	Cache *ConversationCache
}

func NewVerifyMembershipUseCase(repo repository.ChatRepository, cache *ConversationCache) *VerifyMembershipUseCase {
	return &VerifyMembershipUseCase{Repo: repo, Cache: cache}
}

// Execute returns the full participant list on success so the caller can
// compute the counterpart.
func (uc *VerifyMembershipUseCase) Execute(ctx context.Context, in VerifyMembershipInput) ([]string, error) {
	conv, ok := uc.Cache.getByID(ctx, in.ConversationID)
	if !ok {
		var err error
		conv, err = uc.Repo.GetConversationByID(ctx, in.ConversationID)
		if err != nil {
			if errors.Is(err, chat.ErrConversationNotFound) {
				return nil, chat.ErrNotParticipant
			}
			return nil, wrapRepoErr(err)
		}
		uc.Cache.put(ctx, *conv)
	}
	if !conv.HasParticipant(in.UserID) {
		return nil, chat.ErrNotParticipant
	}
	return conv.Participants, nil
}
