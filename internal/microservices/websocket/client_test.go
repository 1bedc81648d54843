package websocket_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"musichub/internal/command"
	"musichub/internal/events"
	ws "musichub/internal/microservices/websocket"
	"musichub/internal/player"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsFixture struct {
	bus    *events.Bus
	hub    *ws.Hub
	server *httptest.Server
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := events.NewBus(nil)
	registry := player.NewStaticRegistry()
	registry.Add(player.NewDemoPlayer("living_room", "Living Room", func(message string, details any) {
		bus.Publish(events.NewEnvelope(message, details))
	}))
	dispatcher := command.NewDispatcher(registry, nil)
	hub := ws.NewHub(nil)

	router := gin.New()
	router.GET("/ws", ws.Handler(hub, bus, dispatcher, registry, nil))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &wsFixture{bus: bus, hub: hub, server: server}
}

func (f *wsFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) events.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env events.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestClientPlayersListing(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("players")))
	env := readEnvelope(t, conn)
	assert.Equal(t, "players", env.Message)

	players, ok := env.Details.([]any)
	require.True(t, ok)
	assert.Len(t, players, 1)
}

func TestClientCommandRoundTrip(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("players/living_room/cmd/play")))

	// the state change is broadcast and the reply is queued behind it on
	// the same sink; collect both in either order
	var messages []string
	messages = append(messages, readEnvelope(t, conn).Message)
	messages = append(messages, readEnvelope(t, conn).Message)
	assert.ElementsMatch(t, []string{"player updated", "result"}, messages)
}

func TestClientMalformedFrame(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not/a/frame")))
	env := readEnvelope(t, conn)
	assert.Equal(t, "error", env.Message)

	// session must survive the bad frame
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("players")))
	assert.Equal(t, "players", readEnvelope(t, conn).Message)
}

func TestClientReceivesBroadcasts(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	require.Eventually(t, func() bool { return f.bus.Count() == 1 },
		2*time.Second, 10*time.Millisecond)

	f.bus.Publish(events.NewEnvelope("player updated", map[string]any{"player_id": "living_room"}))
	env := readEnvelope(t, conn)
	assert.Equal(t, "player updated", env.Message)
}

func TestClientUnregistersOnDisconnect(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	require.Eventually(t, func() bool { return f.bus.Count() == 1 },
		2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return f.bus.Count() == 0 },
		2*time.Second, 10*time.Millisecond,
		"subscription must not outlive the connection")
}

func TestClientCloseBeforeRun(t *testing.T) {
	bus := events.NewBus(nil)
	registry := player.NewStaticRegistry()
	dispatcher := command.NewDispatcher(registry, nil)

	upgraded := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		conn, err := up.Upgrade(w, r, nil)
		if err == nil {
			upgraded <- conn
		}
	}))
	defer server.Close()

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer peer.Close()

	// shutdown can close a client between construction and Run; it must
	// then never register with the bus
	client := ws.NewClient(<-upgraded, bus, dispatcher, registry, nil)
	client.Close()
	client.Run()

	assert.Equal(t, 0, bus.Count(), "closed client must not register a subscriber")
}

func TestHubCloseAllEndsSessions(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	require.Eventually(t, func() bool { return f.hub.Count() == 1 },
		2*time.Second, 10*time.Millisecond)

	f.hub.CloseAll()

	require.Eventually(t, func() bool { return f.bus.Count() == 0 },
		2*time.Second, 10*time.Millisecond,
		"subscription must be released when the hub closes the session")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "connection must be closed")
}

func TestTwoClientsBothReceiveEvents(t *testing.T) {
	f := newWSFixture(t)
	first := f.dial(t)
	second := f.dial(t)

	require.Eventually(t, func() bool { return f.bus.Count() == 2 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, first.WriteMessage(websocket.TextMessage, []byte("players/living_room/cmd/pause")))

	// the peer that did not send the command still sees the state change
	env := readEnvelope(t, second)
	assert.Equal(t, "player updated", env.Message)
}
