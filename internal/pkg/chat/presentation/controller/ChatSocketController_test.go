package controller_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	v1 "github.com/Kweldop/social-media-backend/cmd/api/router/v1"
	"github.com/Kweldop/social-media-backend/internal/infrastructure/auth"
	cacheAdapter "github.com/Kweldop/social-media-backend/internal/infrastructure/cache/adapter"
	"github.com/Kweldop/social-media-backend/internal/infrastructure/realtime"
	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	"github.com/Kweldop/social-media-backend/internal/pkg/chat/application/usecase"
	repoAdapter "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/adapter"
)

type testEnv struct {
	srv      *httptest.Server
	repo     *repoAdapter.MemChatRepository
	registry *realtime.Registry
	manager  *auth.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repoAdapter.NewMemChatRepository()
	registry := realtime.NewRegistry()
	manager, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := usecase.NewConversationCache(cacheAdapter.NewMemoryAdapter())
	v1.RegisterRoutes(r, manager, repo, cache, registry, logger)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		registry.Close()
		srv.Close()
	})
	return &testEnv{srv: srv, repo: repo, registry: registry, manager: manager}
}

func (env *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := env.manager.Generate(userID)
	require.NoError(t, err)
	return token
}

func (env *testEnv) conversation(t *testing.T, userA, userB string) *chat.Conversation {
	t.Helper()
	conv, err := chat.NewConversation(userA, userB)
	require.NoError(t, err)
	created, err := env.repo.CreateConversation(context.Background(), *conv)
	require.NoError(t, err)
	return created
}

func (env *testEnv) dial(t *testing.T, userID, conversationID string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/v1/ws/" + conversationID
	header := http.Header{"Authorization": []string{"Bearer " + env.token(t, userID)}}
	return websocket.DefaultDialer.Dial(url, header)
}

func (env *testEnv) mustDial(t *testing.T, userID, conversationID string) *websocket.Conn {
	t.Helper()
	ws, _, err := env.dial(t, userID, conversationID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	// The handshake completes a moment before the server registers presence;
	// wait for the entry so routed frames cannot race it.
	require.Eventually(t, func() bool { return env.registry.Connected(userID) }, 2*time.Second, 5*time.Millisecond)
	return ws
}

func (env *testEnv) request(t *testing.T, method, path, userID string, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, env.srv.URL+path, reader)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+env.token(t, userID))
	}
	resp, err := env.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readEvent(t *testing.T, ws *websocket.Conn) chat.ServerEvent {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var ev chat.ServerEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func writeEvent(t *testing.T, ws *websocket.Conn, raw string) {
	t.Helper()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func Test_Socket_MessageRelay(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	conv := env.conversation(t, "alice", "bob")

	bob := env.mustDial(t, "bob", conv.ID)
	alice := env.mustDial(t, "alice", conv.ID)

	// A binary frame is ignored; the session keeps going.
	req.NoError(alice.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))
	writeEvent(t, alice, `{"type":"message","message":"hi"}`)

	ev := readEvent(t, bob)
	req.Equal(chat.EventMessage, ev.Type)
	req.NotNil(ev.Message)
	req.Equal("hi", ev.Message.Text)
	req.Equal(chat.StatusSent, ev.Message.Status)
	req.Equal("alice", ev.Message.SenderID)

	// Persistence happened before the relay: exactly one row exists by now.
	msgs, err := env.repo.ListMessages(context.Background(), conv.ID, nil, 10)
	req.NoError(err)
	req.Len(msgs, 1)
	req.Equal(ev.Message.ID, msgs[0].ID)
}

func Test_Socket_DeliveredAndSeenRelay(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	conv := env.conversation(t, "alice", "bob")

	bob := env.mustDial(t, "bob", conv.ID)
	alice := env.mustDial(t, "alice", conv.ID)

	writeEvent(t, alice, `{"type":"message","message":"hi"}`)
	msg := readEvent(t, bob).Message
	req.NotNil(msg)

	writeEvent(t, bob, `{"type":"delivered","message_id":"`+msg.ID+`"}`)
	ev := readEvent(t, alice)
	req.Equal(chat.EventDelivered, ev.Type)
	req.Equal(msg.ID, ev.MessageID)

	msgs, err := env.repo.ListMessages(context.Background(), conv.ID, nil, 10)
	req.NoError(err)
	req.Equal(chat.StatusDelivered, msgs[0].Status)

	writeEvent(t, bob, `{"type":"seen","message_id":"`+msg.ID+`"}`)
	ev = readEvent(t, alice)
	req.Equal(chat.EventSeen, ev.Type)
	req.Equal(msg.ID, ev.MessageID)
	req.NotNil(ev.ReadAt)

	msgs, err = env.repo.ListMessages(context.Background(), conv.ID, nil, 10)
	req.NoError(err)
	req.Equal(chat.StatusSeen, msgs[0].Status)
	req.NotNil(msgs[0].ReadAt)
}

func Test_Socket_OfflineRecipient(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	conv := env.conversation(t, "alice", "bob")

	alice := env.mustDial(t, "alice", conv.ID)
	writeEvent(t, alice, `{"type":"message","message":"are you there?"}`)

	// The message lands durably even though nobody is listening; the drop is
	// silent and the session stays healthy.
	req.Eventually(func() bool {
		msgs, err := env.repo.ListMessages(context.Background(), conv.ID, nil, 10)
		return err == nil && len(msgs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	writeEvent(t, alice, `{"type":"message","message":"still here"}`)
	req.Eventually(func() bool {
		msgs, err := env.repo.ListMessages(context.Background(), conv.ID, nil, 10)
		return err == nil && len(msgs) == 2
	}, 2*time.Second, 10*time.Millisecond)

	resp := env.request(t, http.MethodGet, "/api/v1/get-messages?conid="+conv.ID, "bob", "")
	req.Equal(http.StatusOK, resp.StatusCode)
	var msgs []chat.Message
	req.NoError(json.NewDecoder(resp.Body).Decode(&msgs))
	req.Len(msgs, 2)
	req.Equal(chat.StatusSent, msgs[0].Status)
}

func Test_Socket_RejectsNonParticipant(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	conv := env.conversation(t, "alice", "bob")

	_, resp, err := env.dial(t, "carol", conv.ID)
	req.ErrorIs(err, websocket.ErrBadHandshake)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = env.dial(t, "alice", "missing-conversation")
	req.ErrorIs(err, websocket.ErrBadHandshake)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func Test_Socket_MalformedFrameIsFatal(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	conv := env.conversation(t, "alice", "bob")

	alice := env.mustDial(t, "alice", conv.ID)
	writeEvent(t, alice, `{"type":"typing"}`)

	req.NoError(alice.SetReadDeadline(time.Now().Add(3 * time.Second)))
	_, _, err := alice.ReadMessage()
	req.True(websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData), "got %v", err)
}

func Test_Socket_ReconnectReplacesSession(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	conv := env.conversation(t, "alice", "bob")

	first := env.mustDial(t, "bob", conv.ID)
	second := env.mustDial(t, "bob", conv.ID)

	// The stale session is told it was replaced.
	req.NoError(first.SetReadDeadline(time.Now().Add(3 * time.Second)))
	_, _, err := first.ReadMessage()
	req.True(websocket.IsCloseError(err, realtime.CloseSessionReplaced), "got %v", err)

	alice := env.mustDial(t, "alice", conv.ID)
	writeEvent(t, alice, `{"type":"message","message":"fresh socket only"}`)

	ev := readEvent(t, second)
	req.Equal(chat.EventMessage, ev.Type)
	req.Equal("fresh socket only", ev.Message.Text)
}

func Test_HTTP_ConversationLifecycle(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/create-conversation?uid=bob", "alice", "")
	req.Equal(http.StatusCreated, resp.StatusCode)
	var created chat.Conversation
	req.NoError(json.NewDecoder(resp.Body).Decode(&created))
	req.Equal(chat.PairKey("bob", "alice"), created.PairKey)

	// The swapped pair conflicts with the existing conversation.
	resp = env.request(t, http.MethodPost, "/api/v1/create-conversation?uid=alice", "bob", "")
	req.Equal(http.StatusConflict, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/v1/get-conversation-of-user?uid=alice", "bob", "")
	req.Equal(http.StatusOK, resp.StatusCode)
	var found chat.Conversation
	req.NoError(json.NewDecoder(resp.Body).Decode(&found))
	req.Equal(created.ID, found.ID)

	resp = env.request(t, http.MethodGet, "/api/v1/get-conversation-of-user?uid=carol", "alice", "")
	req.Equal(http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/v1/create-conversation?uid=bob", "", "")
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func Test_HTTP_SendAndFetchMessages(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	conv := env.conversation(t, "alice", "bob")

	resp := env.request(t, http.MethodPost, "/api/v1/send-message", "alice",
		`{"conversation_id":"`+conv.ID+`","text":"hello bob"}`)
	req.Equal(http.StatusOK, resp.StatusCode)
	var sent chat.Message
	req.NoError(json.NewDecoder(resp.Body).Decode(&sent))
	req.Equal(chat.StatusSent, sent.Status)
	req.Equal("hello bob", sent.Text)

	resp = env.request(t, http.MethodGet, "/api/v1/get-messages?conid="+conv.ID+"&limit=5", "bob", "")
	req.Equal(http.StatusOK, resp.StatusCode)
	var msgs []chat.Message
	req.NoError(json.NewDecoder(resp.Body).Decode(&msgs))
	req.Len(msgs, 1)
	req.Equal(sent.ID, msgs[0].ID)

	// Only participants may read.
	resp = env.request(t, http.MethodGet, "/api/v1/get-messages?conid="+conv.ID, "carol", "")
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/v1/get-messages?conid="+conv.ID+"&cursor=yesterday", "alice", "")
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/v1/send-message", "alice",
		`{"conversation_id":"missing","text":"hi"}`)
	req.Equal(http.StatusNotFound, resp.StatusCode)
}

func Test_HTTP_CursorPagination(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	conv := env.conversation(t, "alice", "bob")

	for i := 0; i < 6; i++ {
		resp := env.request(t, http.MethodPost, "/api/v1/send-message", "alice",
			`{"conversation_id":"`+conv.ID+`","text":"message"}`)
		req.Equal(http.StatusOK, resp.StatusCode)
	}

	resp := env.request(t, http.MethodGet, "/api/v1/get-messages?conid="+conv.ID+"&limit=4", "alice", "")
	req.Equal(http.StatusOK, resp.StatusCode)
	var page1 []chat.Message
	req.NoError(json.NewDecoder(resp.Body).Decode(&page1))
	req.Len(page1, 4)

	cursor := page1[len(page1)-1].CreatedAt.Format(time.RFC3339Nano)
	resp = env.request(t, http.MethodGet, "/api/v1/get-messages?conid="+conv.ID+"&limit=4&cursor="+cursor, "alice", "")
	req.Equal(http.StatusOK, resp.StatusCode)
	var page2 []chat.Message
	req.NoError(json.NewDecoder(resp.Body).Decode(&page2))
	req.Len(page2, 2)
	for _, m := range page2 {
		req.True(m.CreatedAt.Before(page1[len(page1)-1].CreatedAt))
	}
}
