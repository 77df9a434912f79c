package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/timetrack/internal/model"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		conn: nil,
		send: make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(c1)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c2)
	hub.Unregister(c2)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	stats := model.Stats{Users: 1, Categories: 5, Events: 10, Templates: 1}
	hub.Broadcast(NewMessage("dataset", "created", 42, &stats))

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Message
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, "dataset_created", got.Type)
			assert.Equal(t, int64(42), got.ID)
			require.NotNil(t, got.Stats)
			assert.Equal(t, stats, *got.Stats)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}
}

func TestBroadcastFullBufferDrops(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.Register(c)

	for i := range sendBufferSize + 3 {
		hub.Broadcast(NewMessage("event", "created", int64(i), nil))
	}
	assert.Len(t, c.send, sendBufferSize)
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.Register(c)

	hub.Close()
	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	_, ok := <-c.send
	assert.False(t, ok, "send channel should be closed")

	late := mockClient(hub)
	hub.Register(late)
	_, ok = <-late.send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount())

	// Unregister after Close must not double-close.
	assert.NotPanics(t, func() { hub.Unregister(c) })
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("database", "cleared", 0, nil)
	assert.Equal(t, "database_cleared", msg.Type)
	assert.Equal(t, "database", msg.Entity)
	assert.Equal(t, "cleared", msg.Action)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"id"`)
	assert.NotContains(t, string(data), `"stats"`)
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub)
			hub.Register(c)
			hub.Broadcast(NewMessage("user", "created", 0, nil))
			hub.Unregister(c)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
}

func TestHandleWebSocketDeliversBroadcasts(t *testing.T) {
	hub := NewHub(slog.Default())
	srv := httptest.NewServer(HandleWebSocket(hub, nil, slog.Default()))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(NewMessage("user", "created", 7, nil))

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var got Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "user_created", got.Type)
	assert.Equal(t, int64(7), got.ID)

	hub.Close()
	_, _, err = conn.Read(ctx)
	assert.Equal(t, ws.StatusGoingAway, ws.CloseStatus(err))
}

func TestSendSnapshot(t *testing.T) {
	hub := NewHub(slog.Default())
	stats := model.Stats{Users: 2, Categories: 10, Events: 20, Templates: 2}
	hub.SetSnapshot(func(context.Context) (model.Stats, error) { return stats, nil })

	c := mockClient(hub)
	hub.Register(c)
	hub.sendSnapshot(context.Background(), c)

	require.Len(t, c.send, 1)
	var got Message
	require.NoError(t, json.Unmarshal(<-c.send, &got))
	assert.Equal(t, "stats_snapshot", got.Type)
	assert.Equal(t, "stats", got.Entity)
	assert.Equal(t, "snapshot", got.Action)
	assert.Zero(t, got.ID)
	require.NotNil(t, got.Stats)
	assert.Equal(t, stats, *got.Stats)

	// Unregistered clients have a closed send channel and must be skipped.
	hub.Unregister(c)
	assert.NotPanics(t, func() { hub.sendSnapshot(context.Background(), c) })
}

func TestSendSnapshotSkipsOnError(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.Register(c)

	hub.sendSnapshot(context.Background(), c)
	assert.Empty(t, c.send)

	hub.SetSnapshot(func(context.Context) (model.Stats, error) {
		return model.Stats{}, errors.New("database closed")
	})
	hub.sendSnapshot(context.Background(), c)
	assert.Empty(t, c.send)
}

func TestHandleWebSocketSendsSnapshot(t *testing.T) {
	hub := NewHub(slog.Default())
	var users atomic.Int64
	users.Store(3)
	hub.SetSnapshot(func(context.Context) (model.Stats, error) {
		return model.Stats{Users: int(users.Load())}, nil
	})
	srv := httptest.NewServer(HandleWebSocket(hub, nil, slog.Default()))
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	readMessage := func() Message {
		t.Helper()
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	first := readMessage()
	assert.Equal(t, "stats_snapshot", first.Type)
	require.NotNil(t, first.Stats)
	assert.Equal(t, 3, first.Stats.Users)

	users.Store(4)
	require.NoError(t, conn.Write(ctx, ws.MessageText, []byte(`{"type":"refresh"}`)))

	second := readMessage()
	assert.Equal(t, "stats_snapshot", second.Type)
	require.NotNil(t, second.Stats)
	assert.Equal(t, 4, second.Stats.Users)
}
