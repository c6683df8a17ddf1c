package model

import (
	"fmt"
	"sync"
)

// GameID identifies a live game. IDs are unique only among live games.
type GameID string

// GameType distinguishes the standing free-for-all from player-created
// games.
type GameType string

const (
	GameFreeForAll GameType = "ffa"
	GameCustom     GameType = "custom"
)

// DefaultGameCapacity bounds membership for games that do not specify
// their own limit.
const DefaultGameCapacity = 16

// Game is one game session's membership and join policy. Turn logic and
// win conditions live in the simulation layer; this type only owns the
// membership lifecycle and the completion signal.
type Game struct {
	ID       GameID
	Type     GameType
	capacity int

	mu         sync.Mutex
	members    map[PlayerTag]*Player
	order      []PlayerTag
	closed     bool
	forceEnded bool
	endReason  string
	critical   []string

	finishOnce sync.Once
	onFinished func(*Game)
}

// NewGame constructs a game. capacity <= 0 selects DefaultGameCapacity.
func NewGame(id GameID, gt GameType, capacity int) *Game {
	if capacity <= 0 {
		capacity = DefaultGameCapacity
	}
	return &Game{
		ID:       id,
		Type:     gt,
		capacity: capacity,
		members:  make(map[PlayerTag]*Player),
	}
}

// DisplayName renders the name shown in join acknowledgements and
// listings.
func (g *Game) DisplayName() string {
	if g.Type == GameFreeForAll {
		return "Free for all"
	}
	return fmt.Sprintf("Custom game %s", g.ID)
}

// IsOpen evaluates the join policy for a candidate. The free-for-all
// accepts anyone under capacity; custom games additionally refuse
// restricted-mode candidates once another pilot is present.
func (g *Game) IsOpen(tag PlayerTag, mode EntryMode) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.forceEnded {
		return false
	}
	if len(g.members) >= g.capacity {
		return false
	}
	if _, already := g.members[tag]; already {
		return false
	}
	if g.Type != GameFreeForAll && mode == EntryRestricted && len(g.members) > 0 {
		return false
	}
	return true
}

// Add takes ownership of a player. The caller is responsible for having
// removed the player from the registry.
func (g *Game) Add(p *Player) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.members[p.Tag]; ok {
		return
	}
	g.members[p.Tag] = p
	g.order = append(g.order, p.Tag)
}

// Members returns the players in join order.
func (g *Game) Members() []*Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Player, 0, len(g.order))
	for _, tag := range g.order {
		out = append(out, g.members[tag])
	}
	return out
}

// MemberCount returns the number of owned players.
func (g *Game) MemberCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}

// OnFinished registers the completion handler. It fires at most once,
// when Finish is called.
func (g *Game) OnFinished(fn func(*Game)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFinished = fn
}

// Finish fires the one-shot completion signal. The simulation calls
// this after returning its members to the registry (or closing their
// connections); repeated calls are ignored.
func (g *Game) Finish() {
	g.finishOnce.Do(func() {
		g.mu.Lock()
		fn := g.onFinished
		g.onFinished = nil
		g.mu.Unlock()
		if fn != nil {
			fn(g)
		}
	})
}

// ForceEnd signals the simulation to terminate. An empty reason marks a
// graceful server reboot; a non-empty reason is shown to players.
// Interpretation of the signal is the simulation's responsibility.
func (g *Game) ForceEnd(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.forceEnded = true
	g.endReason = reason
}

// ForceEnded reports whether termination was signalled, and the reason.
func (g *Game) ForceEnded() (bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.forceEnded, g.endReason
}

// QueueCriticalMessage enqueues an urgent message for the simulation to
// deliver to its players.
func (g *Game) QueueCriticalMessage(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.critical = append(g.critical, message)
}

// DrainCriticalMessages returns and clears the queued urgent messages.
func (g *Game) DrainCriticalMessages() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := g.critical
	g.critical = nil
	return out
}
