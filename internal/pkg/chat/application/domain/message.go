package chat

import (
	"strings"
	"time"
)

// MessageStatus is the delivery lifecycle of a message. Transitions only move
// forward: SENT -> DELIVERED -> SEEN, with SEEN reachable directly from SENT.
type MessageStatus string

const (
	StatusSent      MessageStatus = "SENT"
	StatusDelivered MessageStatus = "DELIVERED"
	StatusSeen      MessageStatus = "SEEN"
)

// Message is an immutable log entry in a conversation. Only Status and ReadAt
// change after creation, and only through the status transitions.
type Message struct {
	ID             string        `json:"id" db:"id"`
	ConversationID string        `json:"conversation_id" db:"conversation_id"`
	SenderID       string        `json:"sender_id" db:"sender_id"`
	Text           string        `json:"text" db:"text"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	Status         MessageStatus `json:"status" db:"status"`
	ReadAt         *time.Time    `json:"read_at" db:"read_at"`
}

// NewMessage validates inputs and shapes a message ready to persist.
// The store assigns the ID.
func NewMessage(conversationID, senderID, text string) (*Message, error) {
	if conversationID == "" || senderID == "" {
		return nil, ErrInvalidMessage
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
		Status:         StatusSent,
	}, nil
}
