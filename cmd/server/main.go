package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mcoot/skyduel-server/internal/api"
	"github.com/mcoot/skyduel-server/internal/factory"
	redistranscript "github.com/mcoot/skyduel-server/internal/transcript/redis"
	"github.com/mcoot/skyduel-server/internal/transport/tcp"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:            logger,
		TranscriptBackend: os.Getenv("TRANSCRIPT_BACKEND"),
	}

	// Configure Redis if the transcript backend is redis
	if cfg.TranscriptBackend == factory.TranscriptRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when TRANSCRIPT_BACKEND=redis")
			os.Exit(1)
		}
		redisCfg := redistranscript.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create the game wire server
	tcpCfg := tcp.DefaultConfig()
	if addr := os.Getenv("SKYDUEL_LISTEN"); addr != "" {
		tcpCfg.Addr = addr
	}
	tcpServer := tcp.NewServer(tcpCfg, app.Registry, app.ChatManager, app.GameManager, app.Random, logger)

	// The lobby sweep abandons stale snapshots when the registry
	// shrinks mid-pass.
	app.Registry.OnRemove(tcpServer.RegistryModified)

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		ChatManager:    app.ChatManager,
		GameManager:    app.GameManager,
		Transcript:     app.Transcript,
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
	})

	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("SKYDUEL_HTTP"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid SKYDUEL_HTTP port", slog.String("value", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	httpServer := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start both servers
	errCh := make(chan error, 2)
	go func() {
		errCh <- tcpServer.Start()
	}()
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info("server started",
		slog.String("wire_addr", tcpCfg.Addr),
		slog.String("http_addr", httpServer.Addr()),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		// Running games are told the server is going down before the
		// listeners close.
		app.GameManager.ForceEndAllGames(true)
		shutdownCtx := context.Background()
		if err := tcpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("wire shutdown error", slog.String("error", err.Error()))
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
