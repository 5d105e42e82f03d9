package usecase

import (
	"context"
	"fmt"

	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

// MarkDeliveredUseCase records a delivery acknowledgement. The transition is
// conditional on the message still being SENT; a message already DELIVERED or
// SEEN is left alone.
type MarkDeliveredUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkDeliveredUseCase(repo repository.ChatRepository) *MarkDeliveredUseCase {
	return &MarkDeliveredUseCase{Repo: repo}
}

func (uc *MarkDeliveredUseCase) Execute(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("message_id is required")
	}
	return wrapRepoErr(uc.Repo.MarkDelivered(ctx, messageID))
}
