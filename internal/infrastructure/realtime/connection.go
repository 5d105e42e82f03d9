package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// ErrConnectionClosed reports an enqueue against a connection whose write
// pump has terminated. Distinct from "recipient offline", which is not an
// error at all.
var ErrConnectionClosed = errors.New("realtime: connection closed")

// Socket is the subset of *websocket.Conn the connection needs for writes.
type Socket interface {
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Connection wraps a websocket and funnels all outbound writes through a
// single write pump fed by an unbounded outbox. Producers never block and
// never interleave writes; a connection is safe for concurrent use.
type Connection struct {
	ID     string
	UserID string

	ws Socket

	mu     sync.Mutex
	outbox [][]byte
	closed bool

	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewConnection constructs a Connection for the given user.
func NewConnection(userID string, ws Socket) *Connection {
	return &Connection{
		ID:     uuid.NewString(),
		UserID: userID,
		ws:     ws,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start launches the write pump. It must be called exactly once per connection.
func (c *Connection) Start() {
	go c.writeLoop()
}

// Enqueue appends payload to the outbox for asynchronous delivery. The outbox
// is unbounded, so a slow reader never blocks the producer; the transport's
// write deadline is what eventually kills a dead peer.
func (c *Connection) Enqueue(payload []byte) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrConnectionClosed
	}
	c.outbox = append(c.outbox, payload)
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
	return nil
}

// Close terminates the connection and stops the write pump. Safe to call from
// any goroutine, any number of times.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

// Done is closed once the connection has been shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-c.notify:
			for {
				payload, ok := c.pop()
				if !ok {
					break
				}
				if err := c.writeMessage(payload); err != nil {
					c.Close(websocket.CloseAbnormalClosure, "write failed")
					return
				}
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				c.Close(websocket.CloseAbnormalClosure, "ping failed")
				return
			}
		}
	}
}

func (c *Connection) pop() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.outbox) == 0 {
		return nil, false
	}
	payload := c.outbox[0]
	c.outbox = c.outbox[1:]
	return payload, true
}

func (c *Connection) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Connection) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}
