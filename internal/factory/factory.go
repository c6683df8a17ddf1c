// Package factory wires the application components together.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/skyduel-server/internal/dependencies/clock"
	"github.com/mcoot/skyduel-server/internal/dependencies/random"
	"github.com/mcoot/skyduel-server/internal/registry"
	"github.com/mcoot/skyduel-server/internal/services/chat"
	"github.com/mcoot/skyduel-server/internal/services/game"
	"github.com/mcoot/skyduel-server/internal/transcript"
	"github.com/mcoot/skyduel-server/internal/transcript/memory"
	redistranscript "github.com/mcoot/skyduel-server/internal/transcript/redis"
	"github.com/mcoot/skyduel-server/internal/transport"
)

// Transcript backend constants
const (
	TranscriptMemory = "memory"
	TranscriptRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Registry   *registry.Registry
	Sender     transport.Sender
	Transcript transcript.Sink

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Managers
	ChatManager *chat.Manager
	GameManager *game.Manager
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// TranscriptBackend selects the transcript store ("memory" or "redis")
	// If empty, defaults to "memory"
	TranscriptBackend string
	// RedisConfig holds Redis settings (required if TranscriptBackend is "redis")
	RedisConfig *redistranscript.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var sink transcript.Sink
	backend := cfg.TranscriptBackend
	if backend == "" {
		backend = TranscriptMemory
	}

	switch backend {
	case TranscriptMemory:
		sink = memory.New(0)
	case TranscriptRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when TranscriptBackend is redis")
		}
		redisSink, err := redistranscript.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		sink = redisSink
	default:
		return nil, errors.New("invalid TranscriptBackend: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(sink, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(sink transcript.Sink, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	reg := registry.New()
	sender := transport.NewWireSender(logger)
	chatManager := chat.NewManager(reg, sender, sink, clk, rnd, logger)
	gameManager := game.NewManager(reg, sender, rnd, logger)

	return &App{
		Registry:    reg,
		Sender:      sender,
		Transcript:  sink,
		Clock:       clk,
		Random:      rnd,
		ChatManager: chatManager,
		GameManager: gameManager,
	}
}
