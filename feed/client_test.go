package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jbrAvailable = `{"type":"Station Status","stationId":"tesla-supercharger-jbr","data":{"connectors":[{"id":"1","isAvailable":true}]},"timestamp":"2025-03-01T12:00:00Z","priority":"High"}`

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// feedServer sends messages to each connection, then either keeps it open
// or closes it.
func feedServer(t *testing.T, messages []string, keepOpen bool, connections *int32, tokens chan<- string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if connections != nil {
			atomic.AddInt32(connections, 1)
		}
		if tokens != nil {
			select {
			case tokens <- r.URL.Query().Get("token"):
			default:
			}
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		if !keepOpen {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestNewClient_URL(t *testing.T) {
	c, err := NewClient("", "secret", nil)
	require.NoError(t, err)
	assert.Equal(t, "wss://ws.evjourney.ae?token=secret", c.url)
	assert.Equal(t, StateDisconnected, c.State())

	c, err = NewClient("ws://localhost:8080/feed?region=dxb", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/feed?region=dxb", c.url)

	_, err = NewClient("https://api.evjourney.ae", "", nil)
	assert.Error(t, err)
}

func TestClient_AppliesUpdates(t *testing.T) {
	tokens := make(chan string, 1)
	srv := feedServer(t, []string{
		"not json",
		`{"type":"Traffic","routeId":"r1","data":{"delayMinutes":7},"timestamp":"2025-03-01T12:00:00Z","priority":"Low"}`,
		jbrAvailable,
	}, true, nil, tokens)
	defer srv.Close()

	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	store := NewStore(testStations(), m)
	snapshots := store.Subscribe()

	c, err := NewClient(wsURL(srv), "secret", store, WithMetrics(m))
	require.NoError(t, err)
	updates := c.Updates()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case token := <-tokens:
		assert.Equal(t, "secret", token)
	case <-time.After(5 * time.Second):
		t.Fatal("feed server was never dialed")
	}

	first := <-updates
	assert.Equal(t, UpdateTraffic, first.Type)
	assert.Equal(t, "r1", first.RouteID)
	second := <-updates
	assert.Equal(t, UpdateStationStatus, second.Type)

	select {
	case snap := <-snapshots:
		assert.True(t, snap.Stations[1].Connectors[0].Available)
		assert.Equal(t, 2, snap.AvailableStations())
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot published")
	}
	assert.Equal(t, StateConnected, c.State())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decodeErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connected))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, StateClosed, c.State())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.connected))

	_, ok := <-updates
	assert.False(t, ok)
}

func TestClient_Reconnects(t *testing.T) {
	var connections int32
	srv := feedServer(t, []string{jbrAvailable}, false, &connections, nil)
	defer srv.Close()

	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	c, err := NewClient(wsURL(srv), "", NewStore(testStations(), nil),
		WithMetrics(m), WithReconnectDelay(10*time.Millisecond, 40*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&connections) >= 3
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.reconnects), 2.0)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, c.State())
}

func TestClient_DialFailureBacksOff(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	c, err := NewClient(url, "", nil, WithReconnectDelay(time.Hour, time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool {
		return c.State() == StateBackoff
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, c.State())
}
