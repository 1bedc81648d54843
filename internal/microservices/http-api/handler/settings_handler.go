package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"musichub/internal/settings"

	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes the configuration get/set endpoints backed by
// the settings store collaborator.
type SettingsHandler struct {
	store  settings.Store
	logger *slog.Logger
}

func NewSettingsHandler(store settings.Store, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{store: store, logger: logger}
}

func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/config", h.Get)
	rg.POST("/config/:key/:subkey", h.Save)
}

// Get returns the full settings tree.
func (h *SettingsHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tree, err := h.store.Get(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Save stores a partial settings update and reports whether a restart is
// needed to apply it.
func (h *SettingsHandler) Save(c *gin.Context) {
	key := c.Param("key")
	subkey := c.Param("subkey")

	var value any
	if err := c.ShouldBindJSON(&value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.store.Set(ctx, key, subkey, value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Debug("settings_saved",
		"key", key,
		"subkey", subkey,
		"changed", result.SettingsChanged,
	)
	c.JSON(http.StatusOK, result)
}
