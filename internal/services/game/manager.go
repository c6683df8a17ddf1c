// Package game implements the game manager: the directory of running
// games and the membership transfer of players out of the lobby
// registry into game ownership.
package game

import (
	"log/slog"
	"sync"

	"github.com/mcoot/skyduel-server/internal/dependencies/random"
	"github.com/mcoot/skyduel-server/internal/model"
	"github.com/mcoot/skyduel-server/internal/registry"
	"github.com/mcoot/skyduel-server/internal/transport"
)

const (
	// GameIDLength is the length of generated game ids
	GameIDLength = 6
	// IDAlphabet is the characters used in generated ids
	IDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// serverProblemReason is shown to players when games are force-ended
// outside a graceful reboot.
const serverProblemReason = "there was a problem with the server."

// Manager owns the game directory. All entry points are serialized
// through one mutex. Exactly one free-for-all game exists at all times;
// it is created here at startup.
type Manager struct {
	mu       sync.Mutex
	games    map[model.GameID]*model.Game
	registry *registry.Registry
	sender   transport.Sender
	random   random.Random
	logger   *slog.Logger
}

// NewManager creates the game manager and the standing free-for-all.
func NewManager(
	reg *registry.Registry,
	sender transport.Sender,
	rnd random.Random,
	logger *slog.Logger,
) *Manager {
	m := &Manager{
		games:    make(map[model.GameID]*model.Game),
		registry: reg,
		sender:   sender,
		random:   rnd,
		logger:   logger,
	}
	m.CreateNewGame("", model.GameFreeForAll)
	return m
}

// CreateNewGame allocates a fresh id, constructs the game, and
// subscribes the one-shot completion handler that retires it. With a
// tag, that player is transferred out of the registry into the new
// game; with no tag this creates the standing free-for-all.
func (m *Manager) CreateNewGame(tag model.PlayerTag, gt model.GameType) *model.Game {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tag != "" {
		if p, ok := m.registry.Get(tag); ok {
			m.logger.Info("player creating game",
				slog.String("player", p.Name),
				slog.String("type", string(gt)),
			)
		}
	} else {
		m.logger.Info("creating free-for-all game")
	}

	id := m.allocateGameIDLocked()
	g := model.NewGame(id, gt, 0)
	g.OnFinished(m.gameFinished)
	m.games[id] = g

	if tag != "" {
		if p, ok := m.registry.Get(tag); ok {
			g.Add(p)
			// Remove fires the registry-modified signal synchronously.
			m.registry.Remove(tag)
		}
	}

	m.logger.Debug("game created", slog.String("game_id", string(id)))
	return g
}

// gameFinished is the one-shot completion handler. The game guarantees
// at-most-once invocation, so a finished game cannot leak a
// subscription or be retired twice.
func (m *Manager) gameFinished(g *model.Game) {
	m.mu.Lock()
	delete(m.games, g.ID)
	m.mu.Unlock()
	m.logger.Debug("game retired", slog.String("game_id", string(g.ID)))
}

// JoinGame evaluates the game's join policy for the player. The caller
// gets a positive or negative acknowledgement on its connection; on
// acceptance the player is transferred out of the registry and the
// game's display name is returned.
func (m *Manager) JoinGame(tag model.PlayerTag, id model.GameID) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.registry.Get(tag)
	if !ok {
		return "", false // disconnected mid-request
	}
	m.logger.Info("player attempting to join game",
		slog.String("player", p.Name),
		slog.String("game_id", string(id)),
	)

	g, ok := m.games[id]
	if !ok {
		m.logger.Error("join for unknown game id", slog.String("game_id", string(id)))
		m.sender.SendResponse(p.Conn, false)
		return "", false
	}
	name := g.DisplayName()
	if !g.IsOpen(tag, p.EntryMode) {
		m.sender.SendResponse(p.Conn, false)
		return "", false
	}

	m.sender.SendResponse(p.Conn, true)
	g.Add(p)
	m.registry.Remove(tag)
	m.logger.Debug("player joined game",
		slog.String("player", p.Name),
		slog.String("game_id", string(id)),
	)
	return name, true
}

// JoinFFA transfers a player into the standing free-for-all. It returns
// false only if no free-for-all currently exists, which should not
// occur under normal operation.
func (m *Manager) JoinFFA(tag model.PlayerTag) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range m.games {
		if g.Type != model.GameFreeForAll {
			continue
		}
		p, ok := m.registry.Get(tag)
		if !ok {
			return false
		}
		g.Add(p)
		m.registry.Remove(tag)
		return true
	}
	return false
}

// ForceEndAllGames signals every running game to terminate. A reboot
// carries no message; anything else shows the generic failure reason.
func (m *Manager) ForceEndAllGames(isRebooting bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reason := serverProblemReason
	if isRebooting {
		reason = ""
	}
	for _, g := range m.games {
		g.ForceEnd(reason)
	}
	m.logger.Info("force-ended all games",
		slog.Int("count", len(m.games)),
		slog.Bool("rebooting", isRebooting),
	)
}

// QueueCriticalMessageInGames broadcasts an urgent message to every
// running game unconditionally.
func (m *Manager) QueueCriticalMessageInGames(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.games {
		g.QueueCriticalMessage(message)
	}
}

// GameCount returns the number of live games.
func (m *Manager) GameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

// GetGames returns every live game.
func (m *Manager) GetGames() []*model.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Game, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, g)
	}
	return out
}

// GetGame looks up one game by id.
func (m *Manager) GetGame(id model.GameID) (*model.Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	return g, ok
}

func (m *Manager) allocateGameIDLocked() model.GameID {
	for {
		id := model.GameID(m.random.String(GameIDLength, IDAlphabet))
		if _, exists := m.games[id]; !exists {
			return id
		}
	}
}

// Interface for dependency injection
type ManagerInterface interface {
	CreateNewGame(tag model.PlayerTag, gt model.GameType) *model.Game
	JoinGame(tag model.PlayerTag, id model.GameID) (string, bool)
	JoinFFA(tag model.PlayerTag) bool
	ForceEndAllGames(isRebooting bool)
	QueueCriticalMessageInGames(message string)
	GameCount() int
	GetGames() []*model.Game
	GetGame(id model.GameID) (*model.Game, bool)
}

var _ ManagerInterface = (*Manager)(nil)
