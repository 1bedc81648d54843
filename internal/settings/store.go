// Package settings is the configuration-persistence collaborator: a
// get/set key-value surface the gateway exposes over REST. Values are
// grouped by section key and subkey (e.g. player_settings / <player_id>).
package settings

import (
	"context"
	"sync"
)

// SaveResult describes what a Set changed, mirrored verbatim in the REST
// reply.
type SaveResult struct {
	Success         bool `json:"success"`
	RestartRequired bool `json:"restart_required"`
	SettingsChanged bool `json:"settings_changed"`
}

// Store is the get/set key-value contract.
type Store interface {
	// Get returns the full settings tree.
	Get(ctx context.Context) (map[string]map[string]any, error)
	// Set stores value under key/subkey and reports whether anything
	// changed. Changes outside player_settings require a restart.
	Set(ctx context.Context, key, subkey string, value any) (SaveResult, error)
}

// sectionNeedsRestart reports whether changing a section requires a
// process restart. Player settings are applied live.
func sectionNeedsRestart(key string) bool {
	return key != "player_settings"
}

// MemoryStore keeps settings in process memory. Used for tests and for
// running without redis; contents are lost on shutdown.
type MemoryStore struct {
	mu       sync.RWMutex
	sections map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sections: make(map[string]map[string]any)}
}

func (s *MemoryStore) Get(_ context.Context) (map[string]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]any, len(s.sections))
	for key, section := range s.sections {
		sub := make(map[string]any, len(section))
		for k, v := range section {
			sub[k] = v
		}
		out[key] = sub
	}
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key, subkey string, value any) (SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	section, ok := s.sections[key]
	if !ok {
		section = make(map[string]any)
		s.sections[key] = section
	}

	result := SaveResult{Success: true}
	if current, exists := section[subkey]; exists && equalValues(current, value) {
		return result, nil
	}
	section[subkey] = value
	result.SettingsChanged = true
	result.RestartRequired = sectionNeedsRestart(key)
	return result, nil
}
