package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/smartcube"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	q := smartcube.Quaternion{W: 1}
	require.NoError(t, hub.PublishOrientation(context.Background(), q))

	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		assert.Equal(t, "orientation", f.Type)
		require.NotNil(t, f.Orientation)
		assert.Equal(t, q, *f.Orientation)
	}
}

func TestHubSendsLatestOnConnect(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	ctx := context.Background()
	require.NoError(t, hub.PublishState(ctx, smartcube.SolvedFacelets, smartcube.SolvedState()))
	require.NoError(t, hub.PublishOrientation(ctx, smartcube.DefaultHome))

	conn := dial(t, srv)
	state := readFrame(t, conn)
	assert.Equal(t, "state", state.Type)
	assert.Equal(t, smartcube.SolvedFacelets, state.Facelets)
	assert.True(t, state.Solved)
	require.NotNil(t, state.State)
	assert.Equal(t, smartcube.SolvedState(), *state.State)

	orient := readFrame(t, conn)
	assert.Equal(t, "orientation", orient.Type)
	assert.InDelta(t, smartcube.DefaultHome.W, orient.Orientation.W, 1e-12)
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, hub.PublishOrientation(context.Background(), smartcube.Identity()))
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", NewHub(nil)) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
}
