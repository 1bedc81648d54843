package tcp_test

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"musichub/internal/command"
	"musichub/internal/events"
	"musichub/internal/microservices/tcp"
	"musichub/internal/player"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tcpFixture struct {
	bus     *events.Bus
	session *tcp.Session
	peer    net.Conn
	reader  *bufio.Reader
}

func newTCPFixture(t *testing.T) *tcpFixture {
	t.Helper()

	bus := events.NewBus(nil)
	registry := player.NewStaticRegistry()
	registry.Add(player.NewDemoPlayer("living_room", "Living Room", func(message string, details any) {
		bus.Publish(events.NewEnvelope(message, details))
	}))
	dispatcher := command.NewDispatcher(registry, nil)

	server, client := net.Pipe()
	session := tcp.NewSession(server, bus, dispatcher, registry, nil)
	go session.Run()
	t.Cleanup(func() {
		client.Close()
		session.Close()
	})

	return &tcpFixture{
		bus:     bus,
		session: session,
		peer:    client,
		reader:  bufio.NewReader(client),
	}
}

func (f *tcpFixture) send(t *testing.T, line string) {
	t.Helper()
	f.peer.SetWriteDeadline(time.Now().Add(2 * time.Second))
	_, err := f.peer.Write([]byte(line + "\n"))
	require.NoError(t, err)
}

func (f *tcpFixture) read(t *testing.T) events.Envelope {
	t.Helper()
	f.peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := f.reader.ReadString('\n')
	require.NoError(t, err)
	var env events.Envelope
	require.NoError(t, json.Unmarshal([]byte(line), &env))
	return env
}

func TestSessionPlayersListing(t *testing.T) {
	f := newTCPFixture(t)

	f.send(t, "players")
	env := f.read(t)
	assert.Equal(t, "players", env.Message)

	players, ok := env.Details.([]any)
	require.True(t, ok)
	assert.Len(t, players, 1)
}

func TestSessionCommandRoundTrip(t *testing.T) {
	f := newTCPFixture(t)

	f.send(t, "players/living_room/cmd/volumeSet/64")

	var messages []string
	messages = append(messages, f.read(t).Message)
	messages = append(messages, f.read(t).Message)
	assert.ElementsMatch(t, []string{"player updated", "result"}, messages)
}

func TestSessionMalformedLine(t *testing.T) {
	f := newTCPFixture(t)

	f.send(t, "gibberish")
	env := f.read(t)
	assert.Equal(t, "error", env.Message)

	// the connection stays usable afterwards
	f.send(t, "players")
	assert.Equal(t, "players", f.read(t).Message)
}

func TestSessionUnknownPlayer(t *testing.T) {
	f := newTCPFixture(t)

	f.send(t, "players/ghost/cmd/play")
	env := f.read(t)
	assert.Equal(t, "error", env.Message)
}

func TestSessionBlankLinesIgnored(t *testing.T) {
	f := newTCPFixture(t)

	f.send(t, "")
	f.send(t, "   ")
	f.send(t, "players")
	assert.Equal(t, "players", f.read(t).Message)
}

func TestSessionReceivesBroadcasts(t *testing.T) {
	f := newTCPFixture(t)

	require.Eventually(t, func() bool { return f.bus.Count() == 1 },
		2*time.Second, 10*time.Millisecond)

	f.bus.Publish(events.NewEnvelope("player updated", map[string]any{"player_id": "living_room"}))
	env := f.read(t)
	assert.Equal(t, "player updated", env.Message)
}

func TestSessionUnregistersOnDisconnect(t *testing.T) {
	f := newTCPFixture(t)

	require.Eventually(t, func() bool { return f.bus.Count() == 1 },
		2*time.Second, 10*time.Millisecond)

	f.peer.Close()
	require.Eventually(t, func() bool { return f.bus.Count() == 0 },
		2*time.Second, 10*time.Millisecond,
		"subscription must not outlive the connection")
}

func TestSessionCloseBeforeRun(t *testing.T) {
	bus := events.NewBus(nil)
	registry := player.NewStaticRegistry()
	server, client := net.Pipe()
	defer client.Close()

	// shutdown can close a session after accept but before Run starts;
	// the session must then never register with the bus
	session := tcp.NewSession(server, bus, command.NewDispatcher(registry, nil), registry, nil)
	session.Close()
	session.Run()

	assert.Equal(t, 0, bus.Count(), "closed session must not register a subscriber")
}

func TestSessionManager(t *testing.T) {
	m := tcp.NewSessionManager(nil)

	server, client := net.Pipe()
	defer client.Close()

	bus := events.NewBus(nil)
	registry := player.NewStaticRegistry()
	session := tcp.NewSession(server, bus, command.NewDispatcher(registry, nil), registry, nil)

	m.Add(session)
	assert.Equal(t, 1, m.Count())

	m.Remove(session)
	m.Remove(session) // second removal is a no-op
	assert.Equal(t, 0, m.Count())

	m.Add(session)
	m.CloseAll()

	// the session's connection is really closed
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := bufio.NewReader(client).ReadString('\n')
	assert.Error(t, err)
}
