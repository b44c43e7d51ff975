package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swathi-reddy30/pulse-app/internal/adapters/secondary/presence"
	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

// stubIdentity accepts tokens of the form "tok-<userID>".
type stubIdentity struct{}

func (stubIdentity) Register(context.Context, ports.RegisterCmd) (*ports.AuthResponse, error) {
	return nil, nil
}

func (stubIdentity) Login(context.Context, ports.LoginCmd) (*ports.AuthResponse, error) {
	return nil, nil
}

func (stubIdentity) ValidateToken(_ context.Context, token string) (string, error) {
	if id, ok := strings.CutPrefix(token, "tok-"); ok {
		return id, nil
	}
	return "", domain.ErrInvalidToken
}

func (stubIdentity) GetUser(context.Context, string) (*domain.User, error) { return nil, nil }

func (stubIdentity) UpdateProfile(context.Context, ports.UpdateProfileCmd) (*domain.User, error) {
	return nil, nil
}

func (stubIdentity) SearchUsers(context.Context, string) ([]*domain.User, error) { return nil, nil }

func dialWS(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandler_RejectsBadToken(t *testing.T) {
	registry := presence.NewRegistry()
	server := httptest.NewServer(NewHandler(stubIdentity{}, registry, nil))
	defer server.Close()

	resp, err := http.Get(server.URL + "?token=garbage")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_ConnectRegistersAndPushDelivers(t *testing.T) {
	registry := presence.NewRegistry()
	server := httptest.NewServer(NewHandler(stubIdentity{}, registry, nil))
	defer server.Close()

	client := dialWS(t, server, "tok-alice")

	require.Eventually(t, func() bool {
		return len(registry.Lookup("alice")) == 1
	}, time.Second, 5*time.Millisecond)

	n := domain.NewNotification("alice", "bob", domain.KindLike, "post-1")
	for _, conn := range registry.Lookup("alice") {
		require.NoError(t, conn.Push(n))
	}

	client.SetReadDeadline(time.Now().Add(time.Second))
	_, frame, err := client.ReadMessage()
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(frame, &payload))
	assert.Equal(t, "newNotification", payload["type"])
	assert.Equal(t, "like", payload["kind"])
	assert.Equal(t, "bob", payload["sender"])
	assert.Equal(t, "post-1", payload["relatedPost"])
}

func TestHandler_DisconnectUnregisters(t *testing.T) {
	registry := presence.NewRegistry()
	server := httptest.NewServer(NewHandler(stubIdentity{}, registry, nil))
	defer server.Close()

	client := dialWS(t, server, "tok-alice")
	require.Eventually(t, func() bool {
		return len(registry.Lookup("alice")) == 1
	}, time.Second, 5*time.Millisecond)

	client.Close()

	require.Eventually(t, func() bool {
		return registry.Lookup("alice") == nil
	}, time.Second, 5*time.Millisecond)
}

func TestHandler_TwoDevicesBothReceive(t *testing.T) {
	registry := presence.NewRegistry()
	server := httptest.NewServer(NewHandler(stubIdentity{}, registry, nil))
	defer server.Close()

	phone := dialWS(t, server, "tok-alice")
	laptop := dialWS(t, server, "tok-alice")

	require.Eventually(t, func() bool {
		return len(registry.Lookup("alice")) == 2
	}, time.Second, 5*time.Millisecond)

	n := domain.NewNotification("alice", "bob", domain.KindFollow, "")
	for _, conn := range registry.Lookup("alice") {
		require.NoError(t, conn.Push(n))
	}

	for _, client := range []*websocket.Conn{phone, laptop} {
		client.SetReadDeadline(time.Now().Add(time.Second))
		_, frame, err := client.ReadMessage()
		require.NoError(t, err)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(frame, &payload))
		assert.Equal(t, "follow", payload["kind"])
		// A follow has no related post and the field is omitted entirely.
		_, present := payload["relatedPost"]
		assert.False(t, present)
	}
}

func TestConn_PushDropsWhenBufferFull(t *testing.T) {
	// No write pump running, so the buffer never drains.
	conn := newConn("alice", &websocket.Conn{})
	n := domain.NewNotification("alice", "bob", domain.KindLike, "post-1")

	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, conn.Push(n))
	}
	assert.ErrorIs(t, conn.Push(n), ErrSendBufferFull)
}
