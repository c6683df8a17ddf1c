package mocks

import (
	"errors"

	"github.com/mcoot/skyduel-server/internal/protocol"
	"github.com/mcoot/skyduel-server/internal/transport"
)

// FakeConn is an in-memory connection handle for tests. Identity
// comparisons work by pointer, matching production conns.
type FakeConn struct {
	Addr    string
	Sent    [][]byte
	FailAll bool
}

var _ transport.Conn = (*FakeConn)(nil)

// NewFakeConn creates a FakeConn with the given address label.
func NewFakeConn(addr string) *FakeConn {
	return &FakeConn{Addr: addr}
}

// Send records the payload, copying it since buffers are reused.
func (c *FakeConn) Send(data []byte) error {
	if c.FailAll {
		return errors.New("connection closed")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.Sent = append(c.Sent, cp)
	return nil
}

// RemoteAddr returns the address label.
func (c *FakeConn) RemoteAddr() string {
	return c.Addr
}

// SentCommand decodes the i-th recorded payload.
func (c *FakeConn) SentCommand(i int) (byte, []string, error) {
	return protocol.Parse(c.Sent[i])
}

// RecordedSend is one delivery captured by MockSender.
type RecordedSend struct {
	Conn transport.Conn
	Cmd  byte
	Args []string
}

// MockSender records every delivery and acknowledgement for assertions.
type MockSender struct {
	Sends     []RecordedSend
	Responses []struct {
		Conn transport.Conn
		OK   bool
	}
}

var _ transport.Sender = (*MockSender)(nil)

// NewMockSender creates a new MockSender
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Send records the decoded payload against the target connection.
func (s *MockSender) Send(conn transport.Conn, buf *protocol.Buffer) {
	cmd, args, err := protocol.Parse(buf.Bytes())
	if err != nil {
		cmd, args = 0, nil
	}
	s.Sends = append(s.Sends, RecordedSend{Conn: conn, Cmd: cmd, Args: args})
}

// SendResponse records the acknowledgement.
func (s *MockSender) SendResponse(conn transport.Conn, ok bool) {
	s.Responses = append(s.Responses, struct {
		Conn transport.Conn
		OK   bool
	}{Conn: conn, OK: ok})
}

// SendsTo returns the deliveries recorded for one connection.
func (s *MockSender) SendsTo(conn transport.Conn) []RecordedSend {
	var out []RecordedSend
	for _, rec := range s.Sends {
		if rec.Conn == conn {
			out = append(out, rec)
		}
	}
	return out
}
