package chat

import (
	"strings"
	"time"
)

// Conversation is a 1:1 thread between exactly two users. It is created once
// per unordered pair and never mutated afterwards.
type Conversation struct {
	ID           string    `json:"id" db:"id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	PairKey      string    `json:"pair_key" db:"pair_key"`
	Participants []string  `json:"participants"`
}

// PairKey derives the order-independent uniqueness key for a pair of users.
// Both argument orders yield the same key, so the store's unique index on it
// guarantees at most one conversation per pair.
func PairKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "_" + userB
}

// NewConversation validates the pair and shapes a conversation ready to persist.
// The store assigns the ID.
func NewConversation(userA, userB string) (*Conversation, error) {
	userA = strings.TrimSpace(userA)
	userB = strings.TrimSpace(userB)
	if userA == "" || userB == "" || userA == userB {
		return nil, ErrInvalidParticipants
	}
	return &Conversation{
		CreatedAt:    time.Now().UTC(),
		PairKey:      PairKey(userA, userB),
		Participants: []string{userA, userB},
	}, nil
}

// HasParticipant tells whether userID is part of this conversation.
func (c Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Counterpart returns the participant on the other side of the thread.
func (c Conversation) Counterpart(userID string) (string, bool) {
	for _, p := range c.Participants {
		if p != userID {
			return p, true
		}
	}
	return "", false
}
