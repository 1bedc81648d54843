package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"musichub/internal/library"

	"github.com/gin-gonic/gin"
)

// LibraryHandler exposes the catalog query endpoints. Every endpoint is
// single-call delegation to the library service.
type LibraryHandler struct {
	svc library.Service
}

func NewLibraryHandler(svc library.Service) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

func (h *LibraryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/artists/:artist_id/toptracks", h.ArtistTopTracks)
	rg.GET("/artists/:artist_id/albums", h.ArtistAlbums)
	rg.GET("/albums/:album_id/tracks", h.AlbumTracks)
	rg.GET("/playlists/:playlist_id/tracks", h.PlaylistTracks)
}

// RegisterItemRoutes binds the catch-all media-type routes. They live on
// their own group so concrete sibling routes are registered first.
func (h *LibraryHandler) RegisterItemRoutes(rg *gin.RouterGroup) {
	rg.GET("/:media_type", h.Items)
	rg.GET("/:media_type/:media_id", h.Item)
}

func listOptions(c *gin.Context) library.ListOptions {
	opts := library.ListOptions{Limit: 50, OrderBy: "name"}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		opts.Offset = v
	}
	if v := c.Query("orderby"); v != "" {
		opts.OrderBy = v
	}
	opts.Provider = c.Query("provider")
	return opts.Normalize()
}

// Items lists library items of one media type.
func (h *LibraryHandler) Items(c *gin.Context) {
	mediaType, err := library.ParseMediaType(c.Param("media_type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.svc.Items(ctx, mediaType, listOptions(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Item returns one catalog record with full details.
func (h *LibraryHandler) Item(c *gin.Context) {
	mediaType, err := library.ParseMediaType(c.Param("media_type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := strconv.ParseInt(c.Param("media_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.svc.Item(ctx, mediaType, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// Search matches the query against the requested media types
// (?media_types=artists,tracks; all types when absent).
func (h *LibraryHandler) Search(c *gin.Context) {
	query := c.Query("query")
	limit := 5
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	var mediaTypes []library.MediaType
	if raw := c.Query("media_types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			mt, err := library.ParseMediaType(strings.TrimSpace(part))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			mediaTypes = append(mediaTypes, mt)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.svc.Search(ctx, query, mediaTypes, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *LibraryHandler) ArtistTopTracks(c *gin.Context) {
	h.childItems(c, "artist_id", h.svc.ArtistTopTracks)
}

func (h *LibraryHandler) ArtistAlbums(c *gin.Context) {
	h.childItems(c, "artist_id", h.svc.ArtistAlbums)
}

func (h *LibraryHandler) AlbumTracks(c *gin.Context) {
	h.childItems(c, "album_id", h.svc.AlbumTracks)
}

func (h *LibraryHandler) PlaylistTracks(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("playlist_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.svc.PlaylistTracks(ctx, id, listOptions(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *LibraryHandler) childItems(c *gin.Context, param string, fetch func(context.Context, int64) ([]library.MediaItem, error)) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := fetch(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}
