package library

import (
	"context"
	"fmt"
	"strings"
)

// Service is the opaque catalog query interface the REST handlers
// delegate to.
type Service interface {
	Items(ctx context.Context, mediaType MediaType, opts ListOptions) ([]MediaItem, error)
	Item(ctx context.Context, mediaType MediaType, id int64) (*MediaItem, error)
	Search(ctx context.Context, query string, mediaTypes []MediaType, limit int) ([]MediaItem, error)
	ArtistTopTracks(ctx context.Context, artistID int64) ([]MediaItem, error)
	ArtistAlbums(ctx context.Context, artistID int64) ([]MediaItem, error)
	AlbumTracks(ctx context.Context, albumID int64) ([]MediaItem, error)
	PlaylistTracks(ctx context.Context, playlistID int64, opts ListOptions) ([]MediaItem, error)
}

type service struct {
	repo  *Repository
	cache *Cache // may be nil
}

// NewService wires the repository with an optional cache.
func NewService(repo *Repository, cache *Cache) Service {
	return &service{repo: repo, cache: cache}
}

func (s *service) Items(ctx context.Context, mediaType MediaType, opts ListOptions) ([]MediaItem, error) {
	opts = opts.Normalize()
	key := fmt.Sprintf("library:items:%s:%d:%d:%s:%s",
		mediaType, opts.Limit, opts.Offset, opts.OrderBy, opts.Provider)
	if items, ok := s.cache.GetItems(ctx, key); ok {
		return items, nil
	}

	items, err := s.repo.Items(ctx, mediaType, opts)
	if err != nil {
		return nil, err
	}
	s.cache.SetItems(ctx, key, items)
	return items, nil
}

func (s *service) Item(ctx context.Context, mediaType MediaType, id int64) (*MediaItem, error) {
	return s.repo.Item(ctx, mediaType, id)
}

func (s *service) Search(ctx context.Context, query string, mediaTypes []MediaType, limit int) ([]MediaItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []MediaItem{}, nil
	}
	if len(mediaTypes) == 0 {
		mediaTypes = []MediaType{MediaArtist, MediaAlbum, MediaTrack, MediaPlaylist, MediaRadio}
	}

	names := make([]string, 0, len(mediaTypes))
	for _, mt := range mediaTypes {
		names = append(names, string(mt))
	}
	key := fmt.Sprintf("library:search:%s:%s:%d", query, strings.Join(names, ","), limit)
	if items, ok := s.cache.GetItems(ctx, key); ok {
		return items, nil
	}

	items, err := s.repo.Search(ctx, query, mediaTypes, limit)
	if err != nil {
		return nil, err
	}
	s.cache.SetItems(ctx, key, items)
	return items, nil
}

func (s *service) ArtistTopTracks(ctx context.Context, artistID int64) ([]MediaItem, error) {
	return s.repo.ChildItems(ctx, MediaTrack, "artist_id", artistID, ListOptions{OrderBy: "name"})
}

func (s *service) ArtistAlbums(ctx context.Context, artistID int64) ([]MediaItem, error) {
	return s.repo.ChildItems(ctx, MediaAlbum, "artist_id", artistID, ListOptions{OrderBy: "name"})
}

func (s *service) AlbumTracks(ctx context.Context, albumID int64) ([]MediaItem, error) {
	return s.repo.ChildItems(ctx, MediaTrack, "album_id", albumID, ListOptions{OrderBy: "position"})
}

func (s *service) PlaylistTracks(ctx context.Context, playlistID int64, opts ListOptions) ([]MediaItem, error) {
	return s.repo.PlaylistTracks(ctx, playlistID, opts)
}
