package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesInput carries parameters to fetch one page of history.
// A nil Cursor starts from the newest message; otherwise only messages
// strictly older than the cursor are returned.
type GetMessagesInput struct {
	ConversationID string
	Cursor         *time.Time
	Limit          int
}

// GetMessagesUseCase fetches paginated history, newest first. Callers take
// the created_at of the last element as the next cursor.
type GetMessagesUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessagesUseCase(repo repository.ChatRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

// Execute returns messages for the conversation honoring cursor/limit.
func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]chat.Message, error) {
	if in.ConversationID == "" {
		return nil, fmt.Errorf("conversation_id is required")
	}
	msgs, err := uc.Repo.ListMessages(ctx, in.ConversationID, in.Cursor, in.Limit)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return msgs, nil
}
