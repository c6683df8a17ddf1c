// Package transcript defines the chat transcript sink: the external
// collaborator that records every rendered chat line for audit.
package transcript

import (
	"context"

	"github.com/mcoot/skyduel-server/internal/model"
)

// Sink receives rendered chat lines. Recording is best-effort from the
// chat manager's point of view; a failed record never fails the send.
type Sink interface {
	Record(ctx context.Context, entry model.TranscriptEntry) error
	Recent(ctx context.Context, n int) ([]model.TranscriptEntry, error)
}
