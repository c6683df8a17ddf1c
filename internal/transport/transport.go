// Package transport defines the contracts between the session managers
// and the connection-handling layer, plus the default wire sender.
package transport

import (
	"log/slog"

	"github.com/mcoot/skyduel-server/internal/protocol"
)

// Conn is an opaque handle to a connected client. The managers never
// read from it; they only hand it payloads and compare it by identity.
type Conn interface {
	// Send attempts delivery of a framed payload. Implementations must
	// not retain the slice after returning.
	Send(data []byte) error
	// RemoteAddr describes the peer for logging.
	RemoteAddr() string
}

// Sender delivers pre-built payloads to connections. Sends are
// fire-and-forget: a failed or unresolvable target is a benign
// disconnect race, never retried. Send does not release the buffer;
// that stays with the caller, which may fan the same buffer out to
// many connections first.
type Sender interface {
	Send(conn Conn, buf *protocol.Buffer)
	SendResponse(conn Conn, ok bool)
}

// WireSender is the production Sender. Delivery failures are logged at
// debug and otherwise ignored.
type WireSender struct {
	logger *slog.Logger
}

// NewWireSender creates a WireSender.
func NewWireSender(logger *slog.Logger) *WireSender {
	return &WireSender{logger: logger}
}

var _ Sender = (*WireSender)(nil)

// Send writes the payload to the connection, ignoring failures.
func (s *WireSender) Send(conn Conn, buf *protocol.Buffer) {
	if conn == nil {
		return
	}
	if err := conn.Send(buf.Bytes()); err != nil {
		s.logger.Debug("send failed",
			slog.String("remote", conn.RemoteAddr()),
			slog.String("error", err.Error()),
		)
	}
}

// SendResponse writes a boolean acknowledgement to the connection.
func (s *WireSender) SendResponse(conn Conn, ok bool) {
	buf := protocol.BuildResponse(ok)
	defer buf.Release()
	s.Send(conn, buf)
}
