package usecase

import (
	"context"
	"fmt"
	"time"

	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

// MarkSeenUseCase records a read acknowledgement and returns the read_at
// timestamp that was stamped. Re-invocation refreshes the timestamp and never
// errors; the status cannot move backwards afterwards.
type MarkSeenUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkSeenUseCase(repo repository.ChatRepository) *MarkSeenUseCase {
	return &MarkSeenUseCase{Repo: repo}
}

func (uc *MarkSeenUseCase) Execute(ctx context.Context, messageID string) (time.Time, error) {
	if messageID == "" {
		return time.Time{}, fmt.Errorf("message_id is required")
	}
	readAt, err := uc.Repo.MarkSeen(ctx, messageID)
	if err != nil {
		return time.Time{}, wrapRepoErr(err)
	}
	return readAt, nil
}
