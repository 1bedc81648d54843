package events

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Bus is the process-wide registry of event subscribers.
// Connection sessions register their outbound channel on open and must
// unregister it on their own teardown path; Publish never removes a
// subscriber, even when its channel is full or abandoned.
type Bus struct {
	mu     sync.RWMutex
	sinks  map[string]chan<- Envelope // subscription ID -> outbound channel
	logger *slog.Logger
}

// NewBus creates an empty bus. Construct once at startup and pass the
// handle to every session and event-producing collaborator.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		sinks:  make(map[string]chan<- Envelope),
		logger: logger,
	}
}

// Register stores the sink and returns a fresh subscription ID.
// It never blocks on the sink.
func (b *Bus) Register(sink chan<- Envelope) string {
	id := uuid.NewString()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks[id] = sink
	b.logger.Info("listener_registered",
		"subscription_id", id,
		"listeners", len(b.sinks),
	)
	return id
}

// Unregister removes the subscription if present. Removing an unknown or
// already-removed ID is a no-op; shutdown paths may race with normal
// teardown and both must be safe to run.
func (b *Bus) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.sinks[id]; !exists {
		return
	}
	delete(b.sinks, id)
	b.logger.Info("listener_removed",
		"subscription_id", id,
		"listeners", len(b.sinks),
	)
}

// Publish delivers the envelope to every currently registered sink.
// Sends are non-blocking: a subscriber whose buffer is full misses this
// envelope instead of stalling delivery to the others. Publish only reads
// the registry; removal stays with the owning session.
func (b *Bus) Publish(env Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, sink := range b.sinks {
		select {
		case sink <- env:
		default:
			b.logger.Warn("listener_send_dropped",
				"subscription_id", id,
				"message", env.Message,
			)
		}
	}
}

// Count returns the number of registered subscribers.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sinks)
}
