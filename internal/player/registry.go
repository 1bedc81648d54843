package player

import (
	"context"
	"sort"
	"sync"
)

// StaticRegistry is an in-memory Registry. It backs standalone runs and
// tests; production deployments swap in a provider-backed registry.
type StaticRegistry struct {
	mu      sync.RWMutex
	players map[string]Player
}

// NewStaticRegistry creates an empty registry.
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{players: make(map[string]Player)}
}

// Add registers a player under its own ID, replacing any previous entry.
func (r *StaticRegistry) Add(p Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.ID()] = p
}

// Remove drops a player from the registry.
func (r *StaticRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}

// Get resolves a player by ID, (nil, nil) when absent.
func (r *StaticRegistry) Get(_ context.Context, id string) (Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

// List returns all player descriptions ordered by name.
func (r *StaticRegistry) List(_ context.Context) ([]Info, error) {
	r.mu.RLock()
	infos := make([]Info, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, p.Info())
	}
	r.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
