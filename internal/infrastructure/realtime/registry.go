package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
)

// CloseSessionReplaced is sent to a session evicted by a newer connection of
// the same user.
const CloseSessionReplaced = 4001

// Registry is the process-wide presence map from user to their single live
// connection. Presence is ephemeral: nothing here survives a restart, and a
// user connected from a new socket simply replaces the old entry.
//
// Constructed once at process start and injected where needed; never ambient
// global state.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*Connection
}

// NewRegistry constructs an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]*Connection)}
}

// Connect registers conn as the current route for its user and starts its
// write pump. A previous session of the same user is force-closed after the
// swap so it cannot linger on a half-dead socket.
func (r *Registry) Connect(conn *Connection) {
	r.mu.Lock()
	previous := r.users[conn.UserID]
	r.users[conn.UserID] = conn
	r.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(CloseSessionReplaced, "session replaced")
	}
}

// Disconnect removes conn's entry if it is still the current one. A session
// that was already replaced must not evict its replacement. Idempotent.
func (r *Registry) Disconnect(conn *Connection) {
	r.mu.Lock()
	if current, ok := r.users[conn.UserID]; ok && current.ID == conn.ID {
		delete(r.users, conn.UserID)
	}
	r.mu.Unlock()
}

// Route enqueues payload for the user's live connection. An offline recipient
// is a silent drop, not an error; there is no backlog and no retry. A non-nil
// error means the entry exists but its consumer has terminated.
func (r *Registry) Route(userID string, payload []byte) error {
	r.mu.RLock()
	conn := r.users[userID]
	r.mu.RUnlock()
	if conn == nil {
		return nil
	}
	return conn.Enqueue(payload)
}

// Connected reports whether the user currently has a live connection.
func (r *Registry) Connected(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[userID] != nil
}

// Close terminates all tracked connections and clears the registry. Called at
// process shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.users))
	for _, conn := range r.users {
		conns = append(conns, conn)
	}
	r.users = make(map[string]*Connection)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(websocket.CloseGoingAway, "registry shutdown")
	}
}
