package chat

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire event tags. The set is closed: frames carrying any other tag are a
// protocol error, not something to skip over.
const (
	EventMessage   = "message"
	EventDelivered = "delivered"
	EventSeen      = "seen"
)

// ClientEvent is one inbound frame of the socket protocol:
//
//	{"type":"message","message":"<text>"}
//	{"type":"delivered","message_id":"<id>"}
//	{"type":"seen","message_id":"<id>"}
type ClientEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// DecodeClientEvent parses and validates an inbound frame. Any failure wraps
// ErrProtocol, which is fatal to the session.
func DecodeClientEvent(data []byte) (ClientEvent, error) {
	var ev ClientEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ClientEvent{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	switch ev.Type {
	case EventMessage:
		if ev.Message == "" {
			return ClientEvent{}, fmt.Errorf("%w: message event without text", ErrProtocol)
		}
	case EventDelivered, EventSeen:
		if ev.MessageID == "" {
			return ClientEvent{}, fmt.Errorf("%w: %s event without message_id", ErrProtocol, ev.Type)
		}
	default:
		return ClientEvent{}, fmt.Errorf("%w: unknown event type %q", ErrProtocol, ev.Type)
	}
	return ev, nil
}

// Encode serializes the event back to its wire form.
func (ev ClientEvent) Encode() ([]byte, error) {
	return json.Marshal(ev)
}

// ServerEvent is the single outbound envelope relayed to a peer. Exactly one
// payload field is populated per tag: Message for "message", MessageID for
// "delivered", MessageID plus ReadAt for "seen".
type ServerEvent struct {
	Type      string     `json:"type"`
	Message   *Message   `json:"message,omitempty"`
	MessageID string     `json:"message_id,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// NewMessageEvent wraps a freshly persisted message for relay.
func NewMessageEvent(m Message) ServerEvent {
	return ServerEvent{Type: EventMessage, Message: &m}
}

// NewDeliveredEvent announces a delivery acknowledgement to the peer.
func NewDeliveredEvent(messageID string) ServerEvent {
	return ServerEvent{Type: EventDelivered, MessageID: messageID}
}

// NewSeenEvent announces a read acknowledgement carrying the read timestamp.
func NewSeenEvent(messageID string, readAt time.Time) ServerEvent {
	return ServerEvent{Type: EventSeen, MessageID: messageID, ReadAt: &readAt}
}

// Encode serializes the envelope for the outbound channel.
func (ev ServerEvent) Encode() ([]byte, error) {
	return json.Marshal(ev)
}
