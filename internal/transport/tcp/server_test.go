package tcp

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/skyduel-server/internal/dependencies/mocks"
	"github.com/mcoot/skyduel-server/internal/model"
	"github.com/mcoot/skyduel-server/internal/protocol"
	"github.com/mcoot/skyduel-server/internal/registry"
	"github.com/mcoot/skyduel-server/internal/services/chat"
	"github.com/mcoot/skyduel-server/internal/services/game"
	"github.com/mcoot/skyduel-server/internal/testutil"
	"github.com/mcoot/skyduel-server/internal/transcript/memory"
)

type ServerSuite struct {
	suite.Suite
	registry *registry.Registry
	sender   *mocks.MockSender
	random   *mocks.MockRandom
	chat     *chat.Manager
	games    *game.Manager
	server   *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.registry = registry.New()
	s.sender = mocks.NewMockSender()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.chat = chat.NewManager(s.registry, s.sender, memory.New(0), clk, s.random, logger)
	s.games = game.NewManager(s.registry, s.sender, s.random, logger)

	cfg := DefaultConfig()
	cfg.SweepInterval = 0
	s.server = NewServer(cfg, s.registry, s.chat, s.games, s.random, logger)
	s.registry.OnRemove(s.server.RegistryModified)
}

// startConn attaches a handler to one end of a pipe and returns the
// client end.
func (s *ServerSuite) startConn() net.Conn {
	client, serverSide := net.Pipe()
	s.server.wg.Add(1)
	go s.server.handleConn(serverSide)
	s.T().Cleanup(func() { _ = client.Close() })
	return client
}

func (s *ServerSuite) writeFrame(conn net.Conn, cmd byte, args ...string) {
	buf := protocol.BuildCommand(cmd, args...)
	defer buf.Release()
	_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, err := conn.Write(buf.Bytes())
	s.Require().NoError(err)
}

func (s *ServerSuite) readFrame(conn net.Conn) (byte, []string) {
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var header [4]byte
	_, err := io.ReadFull(conn, header[:])
	s.Require().NoError(err)
	body := make([]byte, binary.BigEndian.Uint32(header[:]))
	_, err = io.ReadFull(conn, body)
	s.Require().NoError(err)

	cmd, args, err := protocol.ParseBody(body)
	s.Require().NoError(err)
	return cmd, args
}

// hello performs the handshake and returns the allocated tag.
func (s *ServerSuite) hello(conn net.Conn, name string, modeArgs ...string) model.PlayerTag {
	args := append([]string{name}, modeArgs...)
	s.writeFrame(conn, protocol.CmdHello, args...)

	cmd, ackArgs := s.readFrame(conn)
	s.Require().Equal(protocol.CmdHello, cmd)
	s.Require().Len(ackArgs, 1)
	return model.PlayerTag(ackArgs[0])
}

func (s *ServerSuite) eventually(cond func() bool) {
	s.Require().Eventually(cond, time.Second, 5*time.Millisecond)
}

func (s *ServerSuite) TestHandshakeRegistersPlayer() {
	conn := s.startConn()
	tag := s.hello(conn, "Maverick")

	p, ok := s.registry.Get(tag)
	s.Require().True(ok)
	s.Equal("Maverick", p.Name)
	s.Equal(model.EntryOpen, p.EntryMode)
}

func (s *ServerSuite) TestRestrictedHandshake() {
	conn := s.startConn()
	tag := s.hello(conn, "Goose", "restricted")

	p, ok := s.registry.Get(tag)
	s.Require().True(ok)
	s.Equal(model.EntryRestricted, p.EntryMode)
}

func (s *ServerSuite) TestHandshakeRequiresHello() {
	client, serverSide := net.Pipe()
	defer client.Close()

	done := make(chan struct{})
	s.server.wg.Add(1)
	go func() {
		s.server.handleConn(serverSide)
		close(done)
	}()

	s.writeFrame(client, protocol.CmdChat, "hi")

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("handler did not reject the connection")
	}
	s.Equal(0, s.registry.Len())
}

func (s *ServerSuite) TestDisconnectRemovesSession() {
	conn := s.startConn()
	tag := s.hello(conn, "Maverick")

	_ = conn.Close()

	s.eventually(func() bool {
		_, ok := s.registry.Get(tag)
		return !ok
	})
}

func (s *ServerSuite) TestJoinRoomCommandAcks() {
	conn := s.startConn()
	tag := s.hello(conn, "Maverick")

	var hangar *model.ChatRoom
	for _, r := range s.chat.GetPublicRooms() {
		if r.FriendlyName == "The Hangar" {
			hangar = r
		}
	}
	s.Require().NotNil(hangar)

	s.writeFrame(conn, protocol.CmdJoinRoom, string(hangar.ID), "")
	cmd, args := s.readFrame(conn)
	s.Equal(protocol.CmdResponse, cmd)
	s.Equal([]string{"1"}, args)
	// The ack is written after the join mutates the room.
	s.True(hangar.Has(tag))
}

func (s *ServerSuite) TestCreateGameCommandTransfersPlayer() {
	conn := s.startConn()
	tag := s.hello(conn, "Maverick")

	s.writeFrame(conn, protocol.CmdCreateGame)

	s.eventually(func() bool {
		_, inRegistry := s.registry.Get(tag)
		return !inRegistry && s.games.GameCount() == 2
	})
}

func (s *ServerSuite) TestJoinFFACommand() {
	conn := s.startConn()
	tag := s.hello(conn, "Maverick")

	s.writeFrame(conn, protocol.CmdJoinFFA)

	s.eventually(func() bool {
		_, inRegistry := s.registry.Get(tag)
		return !inRegistry
	})
	var ffa *model.Game
	for _, g := range s.games.GetGames() {
		if g.Type == model.GameFreeForAll {
			ffa = g
		}
	}
	s.Require().NotNil(ffa)
	s.Equal(1, ffa.MemberCount())
}

// sweepLobby tests

func (s *ServerSuite) TestSweepPingsOnlyLobbyPlayers() {
	lobbyConn := mocks.NewFakeConn("lobby")
	roomID := model.RoomID("R1")
	roomConn := mocks.NewFakeConn("room")
	s.registry.Add(&model.Player{Tag: "p1", Name: "Maverick", Conn: lobbyConn})
	resident := &model.Player{Tag: "p2", Name: "Goose", Conn: roomConn}
	resident.SetChatRoomID(&roomID)
	s.registry.Add(resident)

	s.server.sweepLobby()

	s.Require().Len(lobbyConn.Sent, 1)
	cmd, args, err := lobbyConn.SentCommand(0)
	s.Require().NoError(err)
	s.Equal(protocol.CmdServerMessage, cmd)
	s.Equal([]string{"ping"}, args)
	s.Empty(roomConn.Sent)
}

func (s *ServerSuite) TestSweepSurvivesFailedSends() {
	dead := mocks.NewFakeConn("dead")
	dead.FailAll = true
	live := mocks.NewFakeConn("live")
	s.registry.Add(&model.Player{Tag: "p1", Name: "Maverick", Conn: dead})
	s.registry.Add(&model.Player{Tag: "p2", Name: "Goose", Conn: live})

	s.NotPanics(func() { s.server.sweepLobby() })
	s.Len(live.Sent, 1)
}

// Run under the race detector this covers the sweep reading room
// associations while the chat manager rewrites them.
func (s *ServerSuite) TestSweepConcurrentWithRoomChanges() {
	s.registry.Add(&model.Player{Tag: "p1", Name: "Maverick", Conn: mocks.NewFakeConn("p1")})
	s.registry.Add(&model.Player{Tag: "p2", Name: "Goose", Conn: mocks.NewFakeConn("p2")})

	var hangar *model.ChatRoom
	for _, r := range s.chat.GetPublicRooms() {
		if r.FriendlyName == "The Hangar" {
			hangar = r
		}
	}
	s.Require().NotNil(hangar)
	// Parking p2 in the room keeps it from retiring while p1 churns.
	s.Require().True(s.chat.JoinChatRoom(context.Background(), "p2", hangar.ID, ""))

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx := context.Background()
		for i := 0; i < 500; i++ {
			s.chat.JoinChatRoom(ctx, "p1", hangar.ID, "")
			s.chat.LeaveRoom(ctx, "p1", true)
		}
	}()
	for {
		s.server.sweepLobby()
		select {
		case <-done:
			return
		default:
		}
	}
}

func (s *ServerSuite) TestHandshakeRetriesClaimedTag() {
	first := s.hello(s.startConn(), "Maverick")

	s.random.QueueString(string(first), "fresh123")

	second := s.hello(s.startConn(), "Goose")

	s.Equal(model.PlayerTag("fresh123"), second)
	p, ok := s.registry.Get(first)
	s.Require().True(ok)
	s.Equal("Maverick", p.Name)
}
