package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/skyduel-server/internal/model"
	"github.com/mcoot/skyduel-server/internal/transcript"
)

// Sink is a Redis-backed transcript implementation. Entries live in a
// capped list so the transcript survives server restarts without
// growing without bound.
type Sink struct {
	client *redis.Client
	cfg    Config
}

// New creates a Redis sink and verifies the connection.
func New(cfg Config) (*Sink, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Sink{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis sink with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Sink {
	return &Sink{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Sink) Close() error {
	return s.client.Close()
}

// Ensure Sink implements the interface
var _ transcript.Sink = (*Sink)(nil)

// Record appends the entry and trims the list to MaxEntries.
func (s *Sink) Record(ctx context.Context, entry model.TranscriptEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, s.cfg.Key, data)
	if s.cfg.MaxEntries > 0 {
		pipe.LTrim(ctx, s.cfg.Key, int64(-s.cfg.MaxEntries), -1)
	}
	if s.cfg.TTL > 0 {
		pipe.Expire(ctx, s.cfg.Key, s.cfg.TTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to n entries, oldest first.
func (s *Sink) Recent(ctx context.Context, n int) ([]model.TranscriptEntry, error) {
	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}
	raw, err := s.client.LRange(ctx, s.cfg.Key, start, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.TranscriptEntry, 0, len(raw))
	for _, item := range raw {
		var entry model.TranscriptEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
