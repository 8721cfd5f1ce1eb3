package feed

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/mikeyg123/pi-alarm/pkg/msgs"
)

func waitClients(t *testing.T, h *Hub, n int) {
	deadline := time.Now().Add(5 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expect %d clients, got %d", n, h.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	url := "ws://" + strings.TrimPrefix(srv.URL, "http://") + "/"
	conn1, err := websocket.Dial(url, "", "http://localhost/")
	require.NoError(t, err)
	defer conn1.Close()
	conn2, err := websocket.Dial(url, "", "http://localhost/")
	require.NoError(t, err)
	waitClients(t, hub, 2)

	require.NoError(t, hub.SendEvent(context.Background(), &msgs.KeyPress{Code: '#', Name: "hash"}))
	for _, conn := range []*websocket.Conn{conn1, conn2} {
		var data []byte
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, websocket.Message.Receive(conn, &data))
		msg, err := msgs.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, &msgs.KeyPress{Code: '#', Name: "hash"}, msg)
	}

	conn2.Close()
	waitClients(t, hub, 1)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := &Hub{QueueSize: 1}
	fast, slow := hub.add("fast"), hub.add("slow")
	require.NoError(t, hub.SendEvent(context.Background(), &msgs.LcdText{Text: "1"}))
	<-fast.ch
	require.NoError(t, hub.SendEvent(context.Background(), &msgs.LcdText{Text: "2"}))
	assert.Equal(t, 1, hub.Clients())

	_, ok := <-slow.ch
	assert.True(t, ok)
	_, ok = <-slow.ch
	assert.False(t, ok)
	assert.Len(t, fast.ch, 1)

	hub.drop(fast)
	hub.drop(fast)
	assert.Zero(t, hub.Clients())
}

func TestHubRejectsNil(t *testing.T) {
	hub := NewHub()
	assert.Error(t, hub.SendEvent(context.Background(), nil))
}
