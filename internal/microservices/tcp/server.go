// Package tcp is the plain-socket control surface: the same one-command-
// per-frame text protocol as the websocket endpoint, newline-delimited,
// with broadcast events forwarded on the same connection.
package tcp

import (
	"fmt"
	"log/slog"
	"net"
	"sync"

	"musichub/internal/command"
	"musichub/internal/events"
	"musichub/internal/player"
)

// Server accepts control connections and runs one Session per client.
type Server struct {
	Addr    string
	Manager *SessionManager

	bus        *events.Bus
	dispatcher *command.Dispatcher
	registry   player.Registry
	logger     *slog.Logger

	listener net.Listener
	quit     chan struct{}
	wg       sync.WaitGroup
}

func NewServer(addr string, bus *events.Bus, dispatcher *command.Dispatcher, registry player.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Addr:       addr,
		Manager:    NewSessionManager(logger),
		bus:        bus,
		dispatcher: dispatcher,
		registry:   registry,
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Start listens and serves until Stop is called.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to start TCP control server: %w", err)
	}
	s.listener = listener
	s.logger.Info("tcp_server_started", "addr", s.Addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
				s.logger.Warn("tcp_accept_failed", "error", err.Error())
				continue
			}
		}

		s.wg.Add(1)
		go func(conn net.Conn) {
			defer s.wg.Done()
			s.handleConnection(conn)
		}(conn)
	}
}

// handleConnection runs one session's full lifecycle. Registration with
// the manager and the event bus is released on every exit path.
func (s *Server) handleConnection(conn net.Conn) {
	session := NewSession(conn, s.bus, s.dispatcher, s.registry, s.logger)
	s.Manager.Add(session)
	defer s.Manager.Remove(session)
	session.Run()
}

// Stop closes the listener, tears down every live session and waits for
// their goroutines.
func (s *Server) Stop() {
	close(s.quit)
	if s.listener != nil {
		s.listener.Close()
	}
	s.Manager.CloseAll()
	s.wg.Wait()
	s.logger.Info("tcp_server_stopped", "addr", s.Addr)
}
