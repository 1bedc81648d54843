package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"musichub/internal/command"
	"musichub/internal/library"
	"musichub/internal/player"

	"github.com/gin-gonic/gin"
)

// PlayerHandler exposes the player listing and command endpoints. Command
// requests flow through the shared normalizer and dispatcher; the handler
// itself only translates HTTP.
type PlayerHandler struct {
	registry   player.Registry
	dispatcher *command.Dispatcher
	catalog    library.Service // may be nil when no catalog is configured
}

func NewPlayerHandler(registry player.Registry, dispatcher *command.Dispatcher, catalog library.Service) *PlayerHandler {
	return &PlayerHandler{
		registry:   registry,
		dispatcher: dispatcher,
		catalog:    catalog,
	}
}

func (h *PlayerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/players", h.List)
	rg.GET("/players/:player_id", h.Get)
	rg.GET("/players/:player_id/cmd/:cmd", h.Command)
	rg.GET("/players/:player_id/cmd/:cmd/:cmd_args", h.Command)
	rg.GET("/players/:player_id/queue", h.Queue)
	rg.GET("/players/:player_id/play_media/:media_type/:media_id", h.PlayMedia)
	rg.GET("/players/:player_id/play_media/:media_type/:media_id/:queue_opt", h.PlayMedia)
}

// List returns all players ordered by name.
func (h *PlayerHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	players, err := h.registry.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, players)
}

// Get returns a single player description.
func (h *PlayerHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.registry.Get(ctx, c.Param("player_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	c.JSON(http.StatusOK, p.Info())
}

// Command dispatches one player command and returns the result payload.
func (h *PlayerHandler) Command(c *gin.Context) {
	cmd, err := command.ParsePath(c.Param("player_id"), c.Param("cmd"), c.Param("cmd_args"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid command"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		writeDispatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Queue returns the player's current play queue.
func (h *PlayerHandler) Queue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.registry.Get(ctx, c.Param("player_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	viewer, ok := p.(player.QueueViewer)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player has no queue"})
		return
	}

	items, err := viewer.QueueItems(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// PlayMedia resolves a catalog item and hands it to the player's queue.
func (h *PlayerHandler) PlayMedia(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
		return
	}

	mediaType, err := library.ParseMediaType(c.Param("media_type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mediaID, err := strconv.ParseInt(c.Param("media_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	item, err := h.catalog.Item(ctx, mediaType, mediaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "media item not found"})
		return
	}

	p, err := h.registry.Get(ctx, c.Param("player_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	queue, ok := p.(player.MediaQueue)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player cannot queue media"})
		return
	}

	result, err := queue.PlayMedia(ctx, item, c.Param("queue_opt"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeDispatchError maps the dispatch failure taxonomy onto HTTP.
func writeDispatchError(c *gin.Context, err error) {
	var invErr *command.InvocationError
	switch {
	case errors.Is(err, command.ErrUnknownTarget):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, command.ErrUnknownCommand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &invErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
