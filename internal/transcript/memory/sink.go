package memory

import (
	"context"
	"sync"

	"github.com/mcoot/skyduel-server/internal/model"
	"github.com/mcoot/skyduel-server/internal/transcript"
)

// DefaultMaxEntries bounds the in-memory transcript ring.
const DefaultMaxEntries = 1000

// Sink is an in-memory transcript implementation keeping the most
// recent entries.
type Sink struct {
	mu         sync.RWMutex
	entries    []model.TranscriptEntry
	maxEntries int
}

// New creates a memory sink. maxEntries <= 0 selects DefaultMaxEntries.
func New(maxEntries int) *Sink {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Sink{maxEntries: maxEntries}
}

// Ensure Sink implements the interface
var _ transcript.Sink = (*Sink)(nil)

// Record appends an entry, evicting the oldest past the cap.
func (s *Sink) Record(ctx context.Context, entry model.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[len(s.entries)-s.maxEntries:]
	}
	return nil
}

// Recent returns up to n entries, oldest first.
func (s *Sink) Recent(ctx context.Context, n int) ([]model.TranscriptEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]model.TranscriptEntry, n)
	copy(out, s.entries[len(s.entries)-n:])
	return out, nil
}
