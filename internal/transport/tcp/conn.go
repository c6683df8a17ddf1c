package tcp

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/mcoot/skyduel-server/internal/protocol"
)

// maxPayload bounds a single inbound frame.
const maxPayload = 64 * 1024

// wireConn adapts a net.Conn to the transport.Conn contract. Writes are
// serialized so concurrent fan-outs cannot interleave frames.
type wireConn struct {
	mu sync.Mutex
	nc net.Conn

	writeTimeout time.Duration
}

func newWireConn(nc net.Conn, writeTimeout time.Duration) *wireConn {
	return &wireConn{nc: nc, writeTimeout: writeTimeout}
}

// Send writes one framed payload. A slow or dead peer surfaces as an
// error, which the sender treats as a benign disconnect race.
func (c *wireConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		if err := c.nc.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := c.nc.Write(data)
	return err
}

// RemoteAddr describes the peer.
func (c *wireConn) RemoteAddr() string {
	return c.nc.RemoteAddr().String()
}

// readCommand reads one inbound frame and decodes its command byte and
// arguments.
func (c *wireConn) readCommand() (byte, []string, error) {
	var header [4]byte
	if _, err := io.ReadFull(c.nc, header[:]); err != nil {
		return 0, nil, err
	}
	size := binary.BigEndian.Uint32(header[:])
	if size == 0 || size > maxPayload {
		return 0, nil, fmt.Errorf("frame size %d out of range", size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(c.nc, body); err != nil {
		return 0, nil, err
	}
	return protocol.ParseBody(body)
}

func (c *wireConn) close() error {
	return c.nc.Close()
}
