package settings_test

import (
	"context"
	"testing"

	"musichub/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetAndGet(t *testing.T) {
	store := settings.NewMemoryStore()
	ctx := context.Background()

	result, err := store.Set(ctx, "player_settings", "living_room", map[string]any{"crossfade": 5})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.SettingsChanged)
	assert.False(t, result.RestartRequired, "player settings apply live")

	tree, err := store.Get(ctx)
	require.NoError(t, err)
	require.Contains(t, tree, "player_settings")
	assert.Contains(t, tree["player_settings"], "living_room")
}

func TestMemoryStoreUnchangedValue(t *testing.T) {
	store := settings.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Set(ctx, "player_settings", "p1", "gapless")
	require.NoError(t, err)

	result, err := store.Set(ctx, "player_settings", "p1", "gapless")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.SettingsChanged, "identical value is a no-op")
	assert.False(t, result.RestartRequired)
}

func TestMemoryStoreRestartRequired(t *testing.T) {
	store := settings.NewMemoryStore()

	result, err := store.Set(context.Background(), "providers", "spotify", map[string]any{"enabled": true})
	require.NoError(t, err)
	assert.True(t, result.SettingsChanged)
	assert.True(t, result.RestartRequired, "non-player sections need a restart")
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := settings.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Set(ctx, "player_settings", "p1", "a")
	require.NoError(t, err)

	tree, err := store.Get(ctx)
	require.NoError(t, err)
	tree["player_settings"]["p1"] = "tampered"

	fresh, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", fresh["player_settings"]["p1"])
}
