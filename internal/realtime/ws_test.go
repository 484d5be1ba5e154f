package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betonit/internal/channel"
)

// newRelayServer serves /ws/{session} through a private RoomManager.
func newRelayServer(t *testing.T, manager *RoomManager) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := &Client{Conn: conn, SessionID: strings.TrimPrefix(r.URL.Path, "/ws/"), ID: r.RemoteAddr}
		manager.AddClient(client)
		defer func() {
			manager.RemoveClient(client)
			_ = conn.Close()
		}()
		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				return
			}
			manager.Broadcast(client.SessionID, client, frame)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, session string) *WSTransport {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + session
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tr, err := DialWS(ctx, url, WSOptions{QueueSize: 4, WriteTimeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestWSTransport_RelaysToPeersOnly(t *testing.T) {
	manager := NewRoomManager()
	srv := newRelayServer(t, manager)

	a := dial(t, srv, "s1")
	b := dial(t, srv, "s1")
	other := dial(t, srv, "s2")
	require.Eventually(t, func() bool {
		return manager.Count("s1") == 2 && manager.Count("s2") == 1
	}, 2*time.Second, 10*time.Millisecond)

	fromA := make(chan string, 4)
	fromB := make(chan string, 4)
	fromOther := make(chan string, 4)
	require.NoError(t, a.SetMessageReceivedCallback(channel.Namespace, func(_, m string) { fromA <- m }))
	require.NoError(t, b.SetMessageReceivedCallback(channel.Namespace, func(_, m string) { fromB <- m }))
	require.NoError(t, other.SetMessageReceivedCallback(channel.Namespace, func(_, m string) { fromOther <- m }))

	status := make(chan channel.Status, 1)
	a.SendMessage(channel.Namespace, `{"command":"guess","guess":3}`, func(s channel.Status) { status <- s })
	assert.True(t, (<-status).Success())

	select {
	case m := <-fromB:
		assert.Equal(t, `{"command":"guess","guess":3}`, m)
	case <-time.After(2 * time.Second):
		t.Fatal("peer did not receive message")
	}
	assert.Never(t, func() bool { return len(fromA) > 0 || len(fromOther) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestWSTransport_SendAfterClose(t *testing.T) {
	srv := newRelayServer(t, NewRoomManager())
	tr := dial(t, srv, "closed")
	require.NoError(t, tr.Close())
	<-tr.Done()

	var got channel.Status
	tr.SendMessage(channel.Namespace, `{"command":"leave"}`, func(s channel.Status) { got = s })
	assert.Equal(t, channel.StatusCanceled, got.Code)
	assert.NoError(t, tr.Close())
}

func TestWSTransport_CloseFlushesQueuedFrames(t *testing.T) {
	manager := NewRoomManager()
	srv := newRelayServer(t, manager)

	peer := dial(t, srv, "flush")
	received := make(chan string, 16)
	require.NoError(t, peer.SetMessageReceivedCallback(channel.Namespace, func(_, m string) { received <- m }))

	for i := 0; i < 10; i++ {
		sender := dial(t, srv, "flush")
		require.Eventually(t, func() bool { return manager.Count("flush") == 2 }, 2*time.Second, 10*time.Millisecond)

		status := make(chan channel.Status, 1)
		sender.SendMessage(channel.Namespace, `{"command":"leave"}`, func(s channel.Status) { status <- s })
		require.NoError(t, sender.Close())

		assert.True(t, (<-status).Success())
		select {
		case m := <-received:
			assert.Equal(t, `{"command":"leave"}`, m)
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d sent before close never reached the peer", i)
		}
		require.Eventually(t, func() bool { return manager.Count("flush") == 1 }, 2*time.Second, 10*time.Millisecond)
	}
}

func TestRoomManager_RemoveClient(t *testing.T) {
	m := NewRoomManager()
	a := &Client{SessionID: "s", ID: "a"}
	b := &Client{SessionID: "s", ID: "b"}
	m.AddClient(a)
	m.AddClient(b)
	assert.Equal(t, 2, m.Count("s"))

	m.RemoveClient(a)
	assert.Equal(t, 1, m.Count("s"))
	m.RemoveClient(b)
	assert.Equal(t, 0, m.Count("s"))
	assert.Equal(t, 0, m.Broadcast("s", nil, []byte("x")))
}
