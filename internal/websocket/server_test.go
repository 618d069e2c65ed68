package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kelvin-ux/sailing-regates-route/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return log
}

func TestServer_BroadcastsEventToConnectedClient(t *testing.T) {
	srv := NewServer(testLogger(t))
	go srv.Run()

	httpSrv := httptest.NewServer(http.HandlerFunc(srv.HandleConnection))
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a moment to register the client before broadcasting.
	time.Sleep(50 * time.Millisecond)
	srv.Broadcast(Event{RouteID: "r1", Phase: PhaseStarted})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"route_id":"r1"`)
	assert.Contains(t, string(msg), `"phase":"started"`)
}
