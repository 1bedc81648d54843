package library

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository is the gorm-backed catalog store.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Items returns library items of one media type with paging and
// ordering applied.
func (r *Repository) Items(ctx context.Context, mediaType MediaType, opts ListOptions) ([]MediaItem, error) {
	opts = opts.Normalize()
	q := r.db.WithContext(ctx).
		Where("type = ? AND in_library = ?", mediaType, true).
		Order(opts.OrderBy).
		Limit(opts.Limit).
		Offset(opts.Offset)
	if opts.Provider != "" {
		q = q.Where("provider = ?", opts.Provider)
	}

	var items []MediaItem
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s items: %w", mediaType, err)
	}
	return items, nil
}

// Item returns one catalog record by type and ID, (nil, nil) when absent.
func (r *Repository) Item(ctx context.Context, mediaType MediaType, id int64) (*MediaItem, error) {
	var item MediaItem
	err := r.db.WithContext(ctx).
		Where("type = ?", mediaType).
		First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", mediaType, id, err)
	}
	return &item, nil
}

// Search matches item names against query for the given media types.
func (r *Repository) Search(ctx context.Context, query string, mediaTypes []MediaType, limit int) ([]MediaItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 5
	}
	var items []MediaItem
	err := r.db.WithContext(ctx).
		Where("type IN ?", mediaTypes).
		Where("name ILIKE ?", "%"+query+"%").
		Order("name").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return items, nil
}

// ChildItems returns items related to a parent record: an artist's
// albums, an album's tracks, and so on.
func (r *Repository) ChildItems(ctx context.Context, childType MediaType, parentColumn string, parentID int64, opts ListOptions) ([]MediaItem, error) {
	switch parentColumn {
	case "artist_id", "album_id":
	default:
		return nil, fmt.Errorf("unsupported parent column %q", parentColumn)
	}
	opts = opts.Normalize()

	var items []MediaItem
	err := r.db.WithContext(ctx).
		Where("type = ?", childType).
		Where(parentColumn+" = ?", parentID).
		Order(opts.OrderBy).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list %s of %s=%d: %w", childType, parentColumn, parentID, err)
	}
	return items, nil
}

// PlaylistTracks returns the tracks of a playlist ordered by position.
func (r *Repository) PlaylistTracks(ctx context.Context, playlistID int64, opts ListOptions) ([]MediaItem, error) {
	opts = opts.Normalize()
	var items []MediaItem
	err := r.db.WithContext(ctx).
		Where("type = ? AND playlist_id = ?", MediaTrack, playlistID).
		Order("position").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("playlist %d tracks: %w", playlistID, err)
	}
	return items, nil
}
