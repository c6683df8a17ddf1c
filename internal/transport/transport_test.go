package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/skyduel-server/internal/dependencies/mocks"
	"github.com/mcoot/skyduel-server/internal/protocol"
	"github.com/mcoot/skyduel-server/internal/testutil"
	"github.com/mcoot/skyduel-server/internal/transport"
)

func TestWireSenderDeliversPayload(t *testing.T) {
	sender := transport.NewWireSender(testutil.NopLogger())
	conn := mocks.NewFakeConn("peer")

	buf := protocol.BuildCommand(protocol.CmdServerMessage, "ping")
	sender.Send(conn, buf)
	buf.Release()

	require.Len(t, conn.Sent, 1)
	cmd, args, err := conn.SentCommand(0)
	require.NoError(t, err)
	assert.Equal(t, protocol.CmdServerMessage, cmd)
	assert.Equal(t, []string{"ping"}, args)
}

func TestWireSenderIgnoresFailedDelivery(t *testing.T) {
	sender := transport.NewWireSender(testutil.NopLogger())
	conn := mocks.NewFakeConn("peer")
	conn.FailAll = true

	buf := protocol.BuildCommand(protocol.CmdServerMessage, "ping")
	assert.NotPanics(t, func() { sender.Send(conn, buf) })
	buf.Release()
	assert.Empty(t, conn.Sent)
}

func TestWireSenderNilConn(t *testing.T) {
	sender := transport.NewWireSender(testutil.NopLogger())

	buf := protocol.BuildCommand(protocol.CmdServerMessage, "ping")
	assert.NotPanics(t, func() { sender.Send(nil, buf) })
	buf.Release()
}

func TestSendResponseFrames(t *testing.T) {
	sender := transport.NewWireSender(testutil.NopLogger())
	conn := mocks.NewFakeConn("peer")

	sender.SendResponse(conn, true)
	sender.SendResponse(conn, false)

	require.Len(t, conn.Sent, 2)
	cmd, args, err := conn.SentCommand(0)
	require.NoError(t, err)
	assert.Equal(t, protocol.CmdResponse, cmd)
	assert.Equal(t, []string{"1"}, args)

	_, args, err = conn.SentCommand(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, args)
}
