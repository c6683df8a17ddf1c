// Package chat implements the chat manager: room lifecycle and message
// routing between the lobby and live rooms.
package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/skyduel-server/internal/dependencies/clock"
	"github.com/mcoot/skyduel-server/internal/dependencies/random"
	"github.com/mcoot/skyduel-server/internal/model"
	"github.com/mcoot/skyduel-server/internal/protocol"
	"github.com/mcoot/skyduel-server/internal/registry"
	"github.com/mcoot/skyduel-server/internal/transcript"
	"github.com/mcoot/skyduel-server/internal/transport"
)

const (
	// RoomIDLength is the length of generated room ids
	RoomIDLength = 6
	// IDAlphabet is the characters used in generated ids (avoid confusing chars)
	IDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// LobbyScope is the transcript scope for messages with no room.
	LobbyScope = "Lobby"
)

// Default rooms seeded at startup: two open rooms and the passworded
// control-tower room for admins.
const (
	defaultRoomHangar    = "The Hangar"
	defaultRoomReadyRoom = "Ready Room"
	adminRoomName        = "Tower"
	adminRoomPassword    = "towerrules"
)

// RoomParams are the named optional fields of room creation. Positional
// shapes over these fields are ambiguous (friendly-name+tag vs
// tag+tag), so callers state their intent explicitly.
type RoomParams struct {
	FriendlyName string
	Tag1         model.PlayerTag // enrolled and notified "Room created"
	Tag2         model.PlayerTag // enrolled silently
	Password     string
}

// Manager owns the room registry and routes chat traffic. All entry
// points are serialized through one mutex; nothing here blocks on
// remote acknowledgement.
type Manager struct {
	mu         sync.Mutex
	rooms      map[model.RoomID]*model.ChatRoom
	registry   *registry.Registry
	sender     transport.Sender
	transcript transcript.Sink
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
}

// NewManager creates the chat manager and seeds the default rooms.
func NewManager(
	reg *registry.Registry,
	sender transport.Sender,
	sink transcript.Sink,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Manager {
	m := &Manager{
		rooms:      make(map[model.RoomID]*model.ChatRoom),
		registry:   reg,
		sender:     sender,
		transcript: sink,
		clock:      clk,
		random:     rnd,
		logger:     logger,
	}
	m.CreateChatRoom(context.Background(), RoomParams{FriendlyName: defaultRoomHangar})
	m.CreateChatRoom(context.Background(), RoomParams{FriendlyName: defaultRoomReadyRoom})
	m.CreateChatRoom(context.Background(), RoomParams{FriendlyName: adminRoomName, Password: adminRoomPassword})
	return m
}

// CreateChatRoom allocates a fresh id, constructs the room, and
// optionally auto-enrolls up to two players. Tag1 additionally receives
// a "Room created" notification.
func (m *Manager) CreateChatRoom(ctx context.Context, params RoomParams) *model.ChatRoom {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.allocateRoomIDLocked()
	room := model.NewChatRoom(id, params.FriendlyName, params.Password, params.Tag1 != "")
	m.rooms[id] = room

	if params.Tag2 != "" {
		if p, ok := m.registry.Get(params.Tag2); ok {
			room.Add(params.Tag2)
			p.SetChatRoomID(roomRef(id))
		}
	}
	if params.Tag1 != "" {
		if p, ok := m.registry.Get(params.Tag1); ok {
			room.Add(params.Tag1)
			p.SetChatRoomID(roomRef(id))

			buf := protocol.BuildChat(byte(model.MessageEnterRoom), "Room created")
			m.sender.Send(p.Conn, buf)
			buf.Release()
			m.record(ctx, model.TranscriptEntry{
				Scope: room.FriendlyName,
				Body:  "Room created",
				At:    m.clock.Now(),
			})
		}
	}

	m.logger.Info("chat room created",
		slog.String("room_id", string(id)),
		slog.String("name", room.FriendlyName),
		slog.String("type", string(room.Type())),
	)
	return room
}

// JoinChatRoom adds a player to a room. It fails without mutation when
// the room is unknown, the password does not match exactly, or the
// player has vanished mid-request.
func (m *Manager) JoinChatRoom(ctx context.Context, tag model.PlayerTag, id model.RoomID, password string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[id]
	if !ok {
		return false
	}
	if room.Password != "" && password != room.Password {
		return false
	}
	p, ok := m.registry.Get(tag)
	if !ok {
		return false
	}

	m.logger.Info("player joined chat room",
		slog.String("player", p.Name),
		slog.String("room", room.FriendlyName),
	)
	m.sendChatMessageLocked(ctx, string(id), p.Name+" has joined the room!", model.MessageEnterRoom, true)

	buf := protocol.BuildCommand(protocol.CmdAddMember, string(tag), p.Name)
	m.sendToRoomLocked(id, buf)

	room.Add(tag)
	p.SetChatRoomID(roomRef(id))
	return true
}

// LeaveRoom removes a player from its room, retiring the room if it
// empties. Leaving while outside any room is a silent no-op, which
// guards against duplicate leave requests. playerAlive controls whether
// the leave directive is written to the player's own connection; it is
// false when the player is known to be disconnecting.
func (m *Manager) LeaveRoom(ctx context.Context, tag model.PlayerTag, playerAlive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.registry.Get(tag)
	if !ok {
		return
	}
	ref := p.ChatRoomID()
	if ref == nil {
		return
	}
	room, ok := m.rooms[*ref]
	if !ok {
		return
	}
	id := room.ID

	if room.Remove(tag) {
		delete(m.rooms, id)
		m.logger.Info("chat room closed because the last member left",
			slog.String("room", room.FriendlyName),
		)
	}
	m.logger.Info("player left chat room",
		slog.String("player", p.Name),
		slog.String("room", room.FriendlyName),
	)

	if playerAlive {
		buf := protocol.BuildCommand(protocol.CmdLeaveChatRoom)
		m.sender.Send(p.Conn, buf)
		buf.Release()
	}
	p.SetChatRoomID(nil)

	m.sendChatMessageLocked(ctx, string(id), p.Name+" has left the room!", model.MessageLeaveRoom, true)
	buf := protocol.BuildCommand(protocol.CmdRemoveMember, string(tag))
	m.sendToRoomLocked(id, buf)
}

// SendToRoom fans a payload out to every member of a room, skipping
// members whose connection no longer resolves. The buffer is released
// regardless of how many recipients were reachable.
func (m *Manager) SendToRoom(id model.RoomID, buf *protocol.Buffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendToRoomLocked(id, buf)
}

func (m *Manager) sendToRoomLocked(id model.RoomID, buf *protocol.Buffer) {
	defer buf.Release()
	room, ok := m.rooms[id]
	if !ok {
		return
	}
	for _, tag := range room.Members() {
		if p, ok := m.registry.Get(tag); ok {
			m.sender.Send(p.Conn, buf)
		}
	}
}

// IsPassworded reports whether a room exists and is password-protected.
func (m *Manager) IsPassworded(id model.RoomID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	return ok && room.Type() == model.RoomPassword
}

// SendChatMessage routes one chat message. For server messages the
// sender is a room id, or empty for the lobby; otherwise the sender is
// a player tag whose room association resolves the scope, and the text
// is prefixed with the player's display name. A scope pointing at a
// vanished room is reconciled by directing the sender to leave its
// phantom room client-side.
func (m *Manager) SendChatMessage(ctx context.Context, sender, message string, mt model.MessageType, fromServer bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendChatMessageLocked(ctx, sender, message, mt, fromServer)
}

func (m *Manager) sendChatMessageLocked(ctx context.Context, sender, message string, mt model.MessageType, fromServer bool) {
	var (
		p      *model.Player
		chatID *model.RoomID
		room   *model.ChatRoom
	)
	if fromServer {
		if sender != "" {
			chatID = roomRef(model.RoomID(sender))
		}
	} else {
		var ok bool
		p, ok = m.registry.Get(model.PlayerTag(sender))
		if !ok {
			return // sender disconnected mid-flight
		}
		chatID = p.ChatRoomID()
		message = p.Name + ": " + message
	}

	if chatID == nil {
		// Lobby scope: everyone in the registry with no room, excluding
		// the originating connection by identity.
		buf := protocol.BuildChat(byte(mt), message)
		for _, lp := range m.registry.Snapshot() {
			if lp.ChatRoomID() != nil {
				continue
			}
			if p != nil && lp.Conn == p.Conn {
				continue
			}
			m.sender.Send(lp.Conn, buf)
		}
		buf.Release()
	} else {
		var ok bool
		room, ok = m.rooms[*chatID]
		if !ok {
			// Stale reference: the room vanished under the sender.
			if p != nil {
				buf := protocol.BuildCommand(protocol.CmdLeaveChatRoom)
				m.sender.Send(p.Conn, buf)
				buf.Release()
			}
			return
		}
		buf := protocol.BuildChat(byte(mt), message)
		for _, tag := range room.Members() {
			if !fromServer && tag == model.PlayerTag(sender) {
				continue // sender doesn't get their own message
			}
			if recipient, ok := m.registry.Get(tag); ok {
				m.sender.Send(recipient.Conn, buf)
			}
		}
		buf.Release()
	}

	scope := LobbyScope
	if room != nil {
		scope = room.FriendlyName
	}
	entry := model.TranscriptEntry{
		Scope: scope,
		Body:  message,
		At:    m.clock.Now(),
	}
	if p != nil {
		entry.SenderName = p.Name
		entry.SenderTag = p.Tag
	}
	m.record(ctx, entry)
}

// SendPrivateChatMessage delivers a whisper directly to one player.
// Either end having disconnected makes it a silent no-op.
func (m *Manager) SendPrivateChatMessage(senderTag, recipientTag model.PlayerTag, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recipient, ok := m.registry.Get(recipientTag)
	if !ok {
		return
	}
	sender, ok := m.registry.Get(senderTag)
	if !ok {
		return
	}

	buf := protocol.BuildChat(byte(model.MessagePrivate), sender.Name+" (private): "+message)
	m.sender.Send(recipient.Conn, buf)
	buf.Release()
}

// GetPublicRooms returns the rooms eligible for public listing.
func (m *Manager) GetPublicRooms() []*model.ChatRoom {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ChatRoom
	for _, room := range m.rooms {
		if room.Type() != model.RoomClosed {
			out = append(out, room)
		}
	}
	return out
}

// GetAllRooms returns every live room, administrative rooms included.
func (m *Manager) GetAllRooms() []*model.ChatRoom {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ChatRoom, 0, len(m.rooms))
	for _, room := range m.rooms {
		out = append(out, room)
	}
	return out
}

// GetRoom looks up one room by id.
func (m *Manager) GetRoom(id model.RoomID) (*model.ChatRoom, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	return room, ok
}

// RoomCount returns the number of live rooms.
func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

func (m *Manager) allocateRoomIDLocked() model.RoomID {
	for {
		id := model.RoomID(m.random.String(RoomIDLength, IDAlphabet))
		if _, exists := m.rooms[id]; !exists {
			return id
		}
	}
}

func (m *Manager) record(ctx context.Context, entry model.TranscriptEntry) {
	if err := m.transcript.Record(ctx, entry); err != nil {
		m.logger.Error("transcript record failed",
			slog.String("scope", entry.Scope),
			slog.String("error", err.Error()),
		)
	}
}

func roomRef(id model.RoomID) *model.RoomID {
	return &id
}

// Interface for dependency injection
type ManagerInterface interface {
	CreateChatRoom(ctx context.Context, params RoomParams) *model.ChatRoom
	JoinChatRoom(ctx context.Context, tag model.PlayerTag, id model.RoomID, password string) bool
	LeaveRoom(ctx context.Context, tag model.PlayerTag, playerAlive bool)
	SendToRoom(id model.RoomID, buf *protocol.Buffer)
	IsPassworded(id model.RoomID) bool
	SendChatMessage(ctx context.Context, sender, message string, mt model.MessageType, fromServer bool)
	SendPrivateChatMessage(senderTag, recipientTag model.PlayerTag, message string)
	GetPublicRooms() []*model.ChatRoom
	GetAllRooms() []*model.ChatRoom
	GetRoom(id model.RoomID) (*model.ChatRoom, bool)
}

var _ ManagerInterface = (*Manager)(nil)
