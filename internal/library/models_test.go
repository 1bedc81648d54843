package library_test

import (
	"testing"

	"musichub/internal/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMediaType(t *testing.T) {
	cases := map[string]library.MediaType{
		"artist":    library.MediaArtist,
		"artists":   library.MediaArtist,
		"album":     library.MediaAlbum,
		"albums":    library.MediaAlbum,
		"track":     library.MediaTrack,
		"tracks":    library.MediaTrack,
		"playlist":  library.MediaPlaylist,
		"playlists": library.MediaPlaylist,
		"radio":     library.MediaRadio,
		"radios":    library.MediaRadio,
	}
	for segment, want := range cases {
		got, err := library.ParseMediaType(segment)
		require.NoError(t, err, segment)
		assert.Equal(t, want, got)
	}

	_, err := library.ParseMediaType("podcast")
	assert.Error(t, err)
}

func TestListOptionsNormalize(t *testing.T) {
	opts := library.ListOptions{}.Normalize()
	assert.Equal(t, 50, opts.Limit)
	assert.Equal(t, 0, opts.Offset)
	assert.Equal(t, "name", opts.OrderBy)

	opts = library.ListOptions{Limit: 2000, Offset: -5, OrderBy: "name; DROP TABLE media_items"}.Normalize()
	assert.Equal(t, 50, opts.Limit)
	assert.Equal(t, 0, opts.Offset)
	assert.Equal(t, "name", opts.OrderBy)

	opts = library.ListOptions{Limit: 10, OrderBy: "position"}.Normalize()
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, "position", opts.OrderBy)
}
