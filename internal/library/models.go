// Package library is the music catalog collaborator consumed by the
// gateway's REST surface. The gateway only delegates queries here; the
// catalog's indexing design is not its concern.
package library

import (
	"fmt"
	"time"
)

// MediaType classifies catalog items.
type MediaType string

const (
	MediaArtist   MediaType = "artist"
	MediaAlbum    MediaType = "album"
	MediaTrack    MediaType = "track"
	MediaPlaylist MediaType = "playlist"
	MediaRadio    MediaType = "radio"
)

// ParseMediaType maps URL path segments (singular or plural) onto a
// MediaType.
func ParseMediaType(s string) (MediaType, error) {
	switch s {
	case "artist", "artists":
		return MediaArtist, nil
	case "album", "albums":
		return MediaAlbum, nil
	case "track", "tracks":
		return MediaTrack, nil
	case "playlist", "playlists":
		return MediaPlaylist, nil
	case "radio", "radios":
		return MediaRadio, nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// MediaItem is one catalog record. All media types share the shape; type
// specific relations (album -> artist, track -> album) go through the
// parent columns.
type MediaItem struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Type       MediaType  `json:"media_type" gorm:"index;size:16;not null"`
	Provider   *string    `json:"provider,omitempty" gorm:"index;size:64"`
	Name       string     `json:"name" gorm:"not null"`
	SortName   *string    `json:"sort_name,omitempty"`
	ArtistID   *int64     `json:"artist_id,omitempty" gorm:"index"`
	AlbumID    *int64     `json:"album_id,omitempty" gorm:"index"`
	PlaylistID *int64     `json:"playlist_id,omitempty" gorm:"index"`
	Duration   *int       `json:"duration,omitempty"` // seconds
	Position   *int       `json:"position,omitempty"` // track/playlist position
	URI        *string    `json:"uri,omitempty"`
	InLibrary  bool       `json:"in_library" gorm:"index"`
	CreatedAt  *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`
}

func (MediaItem) TableName() string {
	return "media_items"
}

// ListOptions carries the common query knobs of listing endpoints.
type ListOptions struct {
	Limit    int
	Offset   int
	OrderBy  string
	Provider string
}

// Normalize applies the endpoint defaults (limit 50, ordered by name)
// and guards against hostile values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 || o.Limit > 500 {
		o.Limit = 50
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	switch o.OrderBy {
	case "name", "sort_name", "created_at", "position":
	default:
		o.OrderBy = "name"
	}
	return o
}
