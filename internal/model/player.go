package model

import (
	"sync/atomic"

	"github.com/mcoot/skyduel-server/internal/transport"
)

// PlayerTag uniquely identifies a connected player's session and keys
// the player registry.
type PlayerTag string

// EntryMode is the policy value consulted when a player tries to join a
// game.
type EntryMode int

const (
	// EntryOpen players join any game with room.
	EntryOpen EntryMode = iota
	// EntryRestricted players refuse occupied custom games; they only
	// enter the free-for-all or games they start themselves.
	EntryRestricted
)

// Player is a connected session. While its room association is nil and
// the player has not been transferred into a game, the registry is its
// sole owner; joining a game hands ownership to that game.
type Player struct {
	Tag       PlayerTag
	Name      string
	Conn      transport.Conn
	EntryMode EntryMode

	// chatID is written under the chat manager's lock but read by the
	// lobby sweep goroutine, so access goes through the atomic.
	chatID atomic.Pointer[RoomID]
}

// ChatRoomID returns the id of the room the player is chatting in, or
// nil while the player is in the lobby.
func (p *Player) ChatRoomID() *RoomID {
	return p.chatID.Load()
}

// SetChatRoomID records the player's room association.
func (p *Player) SetChatRoomID(id *RoomID) {
	p.chatID.Store(id)
}
