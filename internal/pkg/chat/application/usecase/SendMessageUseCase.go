package usecase

import (
	"context"

	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to persist a new message.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Text           string
}

// SendMessageUseCase persists a message with status SENT. Relay to the
// recipient's live connection, if any, is the caller's concern; persistence
// always happens first so the recipient never sees an unrecorded message.
type SendMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewSendMessageUseCase(repo repository.ChatRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

// Execute validates and persists the message, returning it with the
// store-assigned ID.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(in.ConversationID, in.SenderID, in.Text)
	if err != nil {
		return nil, err
	}
	saved, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return saved, nil
}
