// Package tcp is the connection-handling layer: it accepts game
// clients, registers their sessions, and dispatches inbound commands
// into the session managers.
package tcp

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mcoot/skyduel-server/internal/dependencies/random"
	"github.com/mcoot/skyduel-server/internal/model"
	"github.com/mcoot/skyduel-server/internal/protocol"
	"github.com/mcoot/skyduel-server/internal/registry"
	"github.com/mcoot/skyduel-server/internal/services/chat"
	"github.com/mcoot/skyduel-server/internal/services/game"
)

const tagLength = 8

// Config holds configuration for the TCP server
type Config struct {
	Addr          string
	WriteTimeout  time.Duration
	SweepInterval time.Duration
}

// DefaultConfig returns sensible defaults for the TCP server
func DefaultConfig() Config {
	return Config{
		Addr:          ":4567",
		WriteTimeout:  5 * time.Second,
		SweepInterval: 30 * time.Second,
	}
}

// Server accepts client connections and feeds the managers. Each
// connection gets a reader goroutine; the managers serialize state
// internally.
type Server struct {
	cfg      Config
	registry *registry.Registry
	chat     *chat.Manager
	games    *game.Manager
	random   random.Random
	logger   *slog.Logger

	listener net.Listener
	wg       sync.WaitGroup
	done     chan struct{}

	// dirty flips when the registry loses an entry, telling the sweep
	// loop its current snapshot is stale.
	dirty atomic.Bool
}

// NewServer creates a TCP server.
func NewServer(
	cfg Config,
	reg *registry.Registry,
	chatMgr *chat.Manager,
	gameMgr *game.Manager,
	rnd random.Random,
	logger *slog.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		registry: reg,
		chat:     chatMgr,
		games:    gameMgr,
		random:   rnd,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// RegistryModified is the registry's structural-removal hook. The
// sweep loop must not keep iterating a snapshot taken before a removal.
func (s *Server) RegistryModified() {
	s.dirty.Store(true)
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.listener = ln
	s.logger.Info("game server listening", slog.String("addr", ln.Addr().String()))

	s.wg.Add(1)
	go s.sweepLoop()

	for {
		nc, err := ln.Accept()
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
				return err
			}
		}
		s.wg.Add(1)
		go s.handleConn(nc)
	}
}

// Addr returns the bound listen address once Start has taken effect,
// or the configured address before that.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Shutdown stops accepting, closes the listener, and waits for
// connection handlers to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.done)
	if s.listener != nil {
		_ = s.listener.Close()
	}

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleConn(nc net.Conn) {
	defer s.wg.Done()

	conn := newWireConn(nc, s.cfg.WriteTimeout)
	defer func() { _ = conn.close() }()

	p, err := s.handshake(conn)
	if err != nil {
		s.logger.Debug("handshake failed",
			slog.String("remote", conn.RemoteAddr()),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("player connected",
		slog.String("tag", string(p.Tag)),
		slog.String("name", p.Name),
		slog.String("remote", conn.RemoteAddr()),
	)

	ctx := context.Background()
	for {
		cmd, args, err := conn.readCommand()
		if err != nil {
			break
		}
		s.dispatch(ctx, p, conn, cmd, args)
	}

	// Connection is gone: leave any room without writing to the dead
	// socket, then drop the session. A player owned by a game is no
	// longer in the registry and both calls no-op.
	s.chat.LeaveRoom(ctx, p.Tag, false)
	s.registry.Remove(p.Tag)
	s.logger.Info("player disconnected", slog.String("tag", string(p.Tag)))
}

// handshake expects a hello frame carrying the display name and entry
// mode, registers the session, and acknowledges with the new tag.
func (s *Server) handshake(conn *wireConn) (*model.Player, error) {
	cmd, args, err := conn.readCommand()
	if err != nil {
		return nil, err
	}
	if cmd != protocol.CmdHello || len(args) < 1 {
		return nil, errors.New("expected hello")
	}

	mode := model.EntryOpen
	if len(args) > 1 && args[1] == "restricted" {
		mode = model.EntryRestricted
	}

	p := &model.Player{
		Name:      args[0],
		Conn:      conn,
		EntryMode: mode,
	}
	s.registerWithFreshTag(p)

	buf := protocol.BuildCommand(protocol.CmdHello, string(p.Tag))
	err = conn.Send(buf.Bytes())
	buf.Release()
	if err != nil {
		s.registry.Remove(p.Tag)
		return nil, err
	}
	return p, nil
}

func (s *Server) dispatch(ctx context.Context, p *model.Player, conn *wireConn, cmd byte, args []string) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	switch cmd {
	case protocol.CmdChat:
		s.chat.SendChatMessage(ctx, string(p.Tag), arg(0), model.MessageNormal, false)
	case protocol.CmdCreateRoom:
		s.chat.CreateChatRoom(ctx, chat.RoomParams{
			FriendlyName: arg(0),
			Tag1:         p.Tag,
			Password:     arg(1),
		})
	case protocol.CmdJoinRoom:
		ok := s.chat.JoinChatRoom(ctx, p.Tag, model.RoomID(arg(0)), arg(1))
		s.sendResponse(conn, ok)
	case protocol.CmdLeaveRoom:
		s.chat.LeaveRoom(ctx, p.Tag, true)
	case protocol.CmdCreateGame:
		s.games.CreateNewGame(p.Tag, model.GameCustom)
	case protocol.CmdJoinGame:
		s.games.JoinGame(p.Tag, model.GameID(arg(0)))
	case protocol.CmdJoinFFA:
		if !s.games.JoinFFA(p.Tag) {
			s.sendResponse(conn, false)
		}
	case protocol.CmdPrivate:
		s.chat.SendPrivateChatMessage(p.Tag, model.PlayerTag(arg(0)), arg(1))
	default:
		s.logger.Debug("unknown command",
			slog.Int("cmd", int(cmd)),
			slog.String("tag", string(p.Tag)),
		)
	}
}

func (s *Server) sendResponse(conn *wireConn, ok bool) {
	buf := protocol.BuildResponse(ok)
	defer buf.Release()
	_ = conn.Send(buf.Bytes())
}

// sweepLoop periodically writes a keepalive to lobby players. It
// iterates registry snapshots; when the modified signal fires mid-scan
// the snapshot is stale and the sweep abandons it rather than continue
// over a container that just lost an entry.
func (s *Server) sweepLoop() {
	defer s.wg.Done()

	if s.cfg.SweepInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweepLobby()
		}
	}
}

func (s *Server) sweepLobby() {
	for {
		s.dirty.Store(false)
		snapshot := s.registry.Snapshot()
		abandoned := false

		buf := protocol.BuildCommand(protocol.CmdServerMessage, "ping")
		for _, p := range snapshot {
			if s.dirty.Load() {
				abandoned = true
				break
			}
			if p.ChatRoomID() != nil {
				continue
			}
			if err := p.Conn.Send(buf.Bytes()); err != nil {
				continue // disconnect race
			}
		}
		buf.Release()

		if !abandoned {
			return
		}
	}
}

// registerWithFreshTag claims an unused tag for the player. Claiming
// and registering are a single registry operation so two concurrent
// handshakes cannot allocate the same tag.
func (s *Server) registerWithFreshTag(p *model.Player) {
	for {
		p.Tag = model.PlayerTag(s.random.String(tagLength, "abcdefghijklmnopqrstuvwxyz0123456789"))
		if s.registry.AddIfAbsent(p) {
			return
		}
	}
}
