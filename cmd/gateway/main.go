package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"musichub/database"
	"musichub/internal/command"
	"musichub/internal/config"
	"musichub/internal/events"
	"musichub/internal/library"
	"musichub/internal/microservices/http-api/handler"
	"musichub/internal/microservices/tcp"
	"musichub/internal/microservices/websocket"
	"musichub/internal/player"
	"musichub/internal/settings"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Event bus: the only shared mutable structure; constructed once and
	// passed by handle everywhere.
	bus := events.NewBus(logger)

	// Player registry. Standalone runs get demo players wired straight
	// to the bus; deployments replace this with provider registries.
	registry := player.NewStaticRegistry()
	publish := func(message string, details any) {
		bus.Publish(events.NewEnvelope(message, details))
	}
	registry.Add(player.NewDemoPlayer("living_room", "Living Room", publish))
	registry.Add(player.NewDemoPlayer("kitchen", "Kitchen", publish))

	dispatcher := command.NewDispatcher(registry, logger)

	// Optional redis: settings persistence + catalog cache.
	var settingsStore settings.Store = settings.NewMemoryStore()
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		settingsStore = settings.NewRedisStore(redisClient)
	}

	// Optional catalog database.
	var catalog library.Service
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL, logger)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		var cache *library.Cache
		if redisClient != nil {
			cache = library.NewCache(redisClient, cfg.CacheTTL, logger)
		}
		catalog = library.NewService(library.NewRepository(db), cache)
	}

	wsHub := websocket.NewHub(logger)
	router := handler.NewRouter(handler.RouterConfig{
		Registry:   registry,
		Dispatcher: dispatcher,
		Catalog:    catalog,
		Settings:   settingsStore,
		WSHandler:  websocket.Handler(wsHub, bus, dispatcher, registry, logger),
		JWTSecret:  cfg.JWTSecret,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}
	tcpServer := tcp.NewServer(fmt.Sprintf(":%d", cfg.TCPPort), bus, dispatcher, registry, logger)

	errChan := make(chan error, 2)
	go func() {
		logger.Info("http_server_started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	go func() {
		if err := tcpServer.Start(); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http_shutdown_error", "error", err.Error())
	}
	wsHub.CloseAll()
	tcpServer.Stop()
	logger.Info("gateway_stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
