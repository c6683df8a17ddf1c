package protocol

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ProtocolSuite struct {
	suite.Suite
}

func TestProtocolSuite(t *testing.T) {
	suite.Run(t, new(ProtocolSuite))
}

func (s *ProtocolSuite) TestBuildAndParseRoundTrip() {
	buf := BuildCommand(CmdAddMember, "tag1234", "Maverick")
	defer buf.Release()

	cmd, args, err := Parse(buf.Bytes())
	s.Require().NoError(err)
	s.Equal(CmdAddMember, cmd)
	s.Equal([]string{"tag1234", "Maverick"}, args)
}

func (s *ProtocolSuite) TestBuildCommandWithNoArgs() {
	buf := BuildCommand(CmdLeaveChatRoom)
	defer buf.Release()

	cmd, args, err := Parse(buf.Bytes())
	s.Require().NoError(err)
	s.Equal(CmdLeaveChatRoom, cmd)
	s.Empty(args)
}

func (s *ProtocolSuite) TestBuildCommandWithEmptyArg() {
	buf := BuildCommand(CmdChat, "", "hello")
	defer buf.Release()

	_, args, err := Parse(buf.Bytes())
	s.Require().NoError(err)
	s.Equal([]string{"", "hello"}, args)
}

func (s *ProtocolSuite) TestFrameHeaderCoversBody() {
	buf := BuildCommand(CmdChat, "hi")
	defer buf.Release()

	data := buf.Bytes()
	s.Require().GreaterOrEqual(len(data), 4)
	size := binary.BigEndian.Uint32(data[:4])
	s.Equal(len(data)-4, int(size))
}

func (s *ProtocolSuite) TestBuildChatCarriesMessageType() {
	buf := BuildChat(3, "pilot down")
	defer buf.Release()

	cmd, args, err := Parse(buf.Bytes())
	s.Require().NoError(err)
	s.Equal(CmdChat, cmd)
	s.Require().Len(args, 2)
	s.Equal(byte(3), args[0][0])
	s.Equal("pilot down", args[1])
}

func (s *ProtocolSuite) TestBuildResponse() {
	okBuf := BuildResponse(true)
	defer okBuf.Release()
	cmd, args, err := Parse(okBuf.Bytes())
	s.Require().NoError(err)
	s.Equal(CmdResponse, cmd)
	s.Equal([]string{"1"}, args)

	noBuf := BuildResponse(false)
	defer noBuf.Release()
	_, args, err = Parse(noBuf.Bytes())
	s.Require().NoError(err)
	s.Equal([]string{"0"}, args)
}

func (s *ProtocolSuite) TestParseShortPayload() {
	_, _, err := Parse([]byte{0, 0})
	s.ErrorIs(err, ErrShortPayload)
}

func (s *ProtocolSuite) TestParseHeaderMismatch() {
	buf := BuildCommand(CmdChat, "hi")
	defer buf.Release()

	data := make([]byte, len(buf.Bytes()))
	copy(data, buf.Bytes())
	binary.BigEndian.PutUint32(data[:4], 999)

	_, _, err := Parse(data)
	s.ErrorIs(err, ErrBadFrame)
}

func (s *ProtocolSuite) TestParseBodyTruncatedArgument() {
	// Argument claims 10 bytes but only 2 follow.
	body := []byte{CmdChat, 0, 10, 'h', 'i'}
	_, _, err := ParseBody(body)
	s.ErrorIs(err, ErrBadFrame)
}

func (s *ProtocolSuite) TestParseBodyEmpty() {
	_, _, err := ParseBody(nil)
	s.ErrorIs(err, ErrShortPayload)
}

func (s *ProtocolSuite) TestReleasedBufferIsReusable() {
	buf := BuildCommand(CmdChat, "first")
	buf.Release()

	again := BuildCommand(CmdServerMessage, "second")
	defer again.Release()

	cmd, args, err := Parse(again.Bytes())
	s.Require().NoError(err)
	s.Equal(CmdServerMessage, cmd)
	s.Equal([]string{"second"}, args)
}
