package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serverConns returns a dial func yielding the server side of each socket.
func serverConns(t *testing.T) func() *websocket.Conn {
	t.Helper()
	conns := make(chan *websocket.Conn, 4)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return func() *websocket.Conn {
		client, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })
		select {
		case conn := <-conns:
			return conn
		case <-time.After(5 * time.Second):
			t.Fatal("server never accepted the socket")
			return nil
		}
	}
}

func TestCurrentConnectionAfterReconnect(t *testing.T) {
	next := serverConns(t)
	cm := NewConnectionManager()
	first, second := next(), next()

	cm.AddConnection("s1", first)
	assert.True(t, cm.IsCurrentConnection("s1", first))

	cm.AddConnection("s1", second)
	assert.False(t, cm.IsCurrentConnection("s1", first))
	assert.True(t, cm.IsCurrentConnection("s1", second))

	cm.RemoveConnectionIfMatching("s1", first)
	assert.True(t, cm.IsCurrentConnection("s1", second), "a stale socket must not evict the newer one")
	assert.Equal(t, 1, cm.Count())

	cm.RemoveConnectionIfMatching("s1", second)
	assert.False(t, cm.IsCurrentConnection("s1", second))
	assert.Zero(t, cm.Count())
}

func TestSendMessageWithoutSocket(t *testing.T) {
	cm := NewConnectionManager()
	assert.NoError(t, cm.SendMessage("nobody", map[string]string{"type": "state"}))
	assert.False(t, cm.IsCurrentConnection("nobody", nil))
}
