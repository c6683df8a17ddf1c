// Package protocol builds and parses the command-byte payloads exchanged
// with game clients. Payloads are opaque to the session managers beyond
// being single-use sendable units.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

// Command bytes understood by clients.
const (
	CmdChat byte = iota + 1
	CmdAddMember
	CmdRemoveMember
	CmdLeaveChatRoom
	CmdServerMessage
	CmdResponse

	// Client-originated commands.
	CmdHello
	CmdCreateRoom
	CmdJoinRoom
	CmdLeaveRoom
	CmdCreateGame
	CmdJoinGame
	CmdJoinFFA
	CmdPrivate
)

var (
	ErrShortPayload = errors.New("payload too short")
	ErrBadFrame     = errors.New("malformed frame")
)

// Buffer is a single-use payload. The party that performs the final send
// attempt must call Release exactly once; the bytes must not be used
// afterwards.
type Buffer struct {
	b []byte
}

var bufPool = sync.Pool{
	New: func() any { return &Buffer{b: make([]byte, 0, 256)} },
}

// Bytes returns the framed payload ready to write to a connection.
func (b *Buffer) Bytes() []byte {
	return b.b
}

// Release returns the buffer to the pool. The buffer must not be used
// after Release.
func (b *Buffer) Release() {
	b.b = b.b[:0]
	bufPool.Put(b)
}

// BuildCommand frames a command byte with string arguments. Each
// argument is length-prefixed; the whole payload carries a u32 frame
// header so it can be written to a stream as-is.
func BuildCommand(cmd byte, args ...string) *Buffer {
	buf := bufPool.Get().(*Buffer)
	// Frame header placeholder, patched below.
	buf.b = append(buf.b, 0, 0, 0, 0)
	buf.b = append(buf.b, cmd)
	for _, arg := range args {
		buf.b = binary.BigEndian.AppendUint16(buf.b, uint16(len(arg)))
		buf.b = append(buf.b, arg...)
	}
	binary.BigEndian.PutUint32(buf.b[:4], uint32(len(buf.b)-4))
	return buf
}

// BuildChat frames a chat message with its message-type byte, the shape
// clients render directly.
func BuildChat(messageType byte, message string) *Buffer {
	return BuildCommand(CmdChat, string(messageType), message)
}

// BuildResponse frames a boolean acknowledgement.
func BuildResponse(ok bool) *Buffer {
	if ok {
		return BuildCommand(CmdResponse, "1")
	}
	return BuildCommand(CmdResponse, "0")
}

// Parse decodes a framed payload (including the u32 header) into its
// command byte and arguments.
func Parse(data []byte) (byte, []string, error) {
	if len(data) < 5 {
		return 0, nil, ErrShortPayload
	}
	size := binary.BigEndian.Uint32(data[:4])
	if int(size) != len(data)-4 {
		return 0, nil, fmt.Errorf("%w: header says %d bytes, have %d", ErrBadFrame, size, len(data)-4)
	}
	return ParseBody(data[4:])
}

// ParseBody decodes a payload body (command byte plus arguments) whose
// frame header has already been consumed by the stream reader.
func ParseBody(body []byte) (byte, []string, error) {
	if len(body) < 1 {
		return 0, nil, ErrShortPayload
	}
	cmd := body[0]
	rest := body[1:]
	var args []string
	for len(rest) > 0 {
		if len(rest) < 2 {
			return 0, nil, fmt.Errorf("%w: truncated argument length", ErrBadFrame)
		}
		n := int(binary.BigEndian.Uint16(rest[:2]))
		rest = rest[2:]
		if len(rest) < n {
			return 0, nil, fmt.Errorf("%w: argument runs past payload", ErrBadFrame)
		}
		args = append(args, string(rest[:n]))
		rest = rest[n:]
	}
	return cmd, args, nil
}
