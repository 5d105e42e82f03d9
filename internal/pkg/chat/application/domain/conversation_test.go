package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_PairKey_OrderIndependent(t *testing.T) {
	req := require.New(t)

	req.Equal(PairKey("alice", "bob"), PairKey("bob", "alice"))
	req.Equal("alice_bob", PairKey("bob", "alice"))
	req.NotEqual(PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func Test_NewConversation_Validation(t *testing.T) {
	req := require.New(t)

	conv, err := NewConversation("bob", "alice")
	req.NoError(err)
	req.Equal("alice_bob", conv.PairKey)
	req.Len(conv.Participants, 2)
	req.False(conv.CreatedAt.IsZero())

	_, err = NewConversation("alice", "alice")
	req.ErrorIs(err, ErrInvalidParticipants)

	_, err = NewConversation("", "bob")
	req.ErrorIs(err, ErrInvalidParticipants)
}

func Test_Conversation_Counterpart(t *testing.T) {
	req := require.New(t)

	conv, err := NewConversation("alice", "bob")
	req.NoError(err)

	other, ok := conv.Counterpart("alice")
	req.True(ok)
	req.Equal("bob", other)

	req.True(conv.HasParticipant("bob"))
	req.False(conv.HasParticipant("carol"))
}

func Test_NewMessage_Validation(t *testing.T) {
	req := require.New(t)

	msg, err := NewMessage("c1", "alice", "  hi  ")
	req.NoError(err)
	req.Equal("hi", msg.Text)
	req.Equal(StatusSent, msg.Status)
	req.Nil(msg.ReadAt)

	_, err = NewMessage("c1", "alice", "   ")
	req.ErrorIs(err, ErrEmptyMessage)

	_, err = NewMessage("", "alice", "hi")
	req.ErrorIs(err, ErrInvalidMessage)
}
