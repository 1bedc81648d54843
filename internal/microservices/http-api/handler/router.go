package handler

import (
	"log/slog"

	"musichub/internal/command"
	"musichub/internal/library"
	"musichub/internal/microservices/http-api/middleware"
	"musichub/internal/player"
	"musichub/internal/settings"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries everything the HTTP surface needs. Catalog may be
// nil (no database configured); WSHandler is the websocket upgrade
// handler mounted at /ws.
type RouterConfig struct {
	Registry   player.Registry
	Dispatcher *command.Dispatcher
	Catalog    library.Service
	Settings   settings.Store
	WSHandler  gin.HandlerFunc
	JWTSecret  string
	Logger     *slog.Logger
}

// NewRouter assembles the gin engine: the /api surface (optionally JWT
// protected), the websocket endpoint and the open legacy jsonrpc
// endpoint.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	auth := middleware.Auth(cfg.JWTSecret)

	api := r.Group("/api", auth)
	NewPlayerHandler(cfg.Registry, cfg.Dispatcher, cfg.Catalog).RegisterRoutes(api)
	NewSettingsHandler(cfg.Settings, cfg.Logger).RegisterRoutes(api)
	if cfg.Catalog != nil {
		lh := NewLibraryHandler(cfg.Catalog)
		lh.RegisterRoutes(api)
		lh.RegisterItemRoutes(api)
	}

	if cfg.WSHandler != nil {
		r.GET("/ws", auth, cfg.WSHandler)
	}

	// legacy surface stays open; third-party LMS controllers cannot send
	// bearer tokens
	NewJSONRPCHandler(cfg.Dispatcher, cfg.Logger).RegisterRoutes(r)

	return r
}
