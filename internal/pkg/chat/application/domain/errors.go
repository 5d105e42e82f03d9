package chat

import "errors"

// Domain-level errors for chat behaviors
var (
	ErrNotParticipant       = errors.New("chat: user is not a participant in the conversation")
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrMessageNotFound      = errors.New("chat: message not found")
	ErrConversationExists   = errors.New("chat: conversation already exists for the pair")
	ErrInvalidParticipants  = errors.New("chat: a conversation needs two distinct users")
	ErrInvalidMessage       = errors.New("chat: conversation_id and sender_id are required")
	ErrEmptyMessage         = errors.New("chat: empty message text")
	ErrProtocol             = errors.New("chat: malformed wire event")
)
