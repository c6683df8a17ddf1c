// Package registry holds the shared player registry: every connected
// player not currently owned by a game, keyed by session tag. The
// registry is the lobby; a player with no chat room association is a
// lobby player.
package registry

import (
	"sync"

	"github.com/mcoot/skyduel-server/internal/model"
)

// Registry is safe for concurrent use. Structural removals fire the
// registered removal hook synchronously, exactly once per removal,
// before Remove returns; collaborators iterating a snapshot use it to
// abandon the iteration and re-snapshot.
type Registry struct {
	mu       sync.RWMutex
	players  map[model.PlayerTag]*model.Player
	onRemove func()
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		players: make(map[model.PlayerTag]*model.Player),
	}
}

// OnRemove registers the structural-removal hook. It is not a lock: it
// is a notification that an entry just left the registry.
func (r *Registry) OnRemove(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRemove = fn
}

// Add registers a player under its tag, replacing any stale entry.
func (r *Registry) Add(p *model.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.Tag] = p
}

// AddIfAbsent registers a player only when its tag is unclaimed,
// reporting whether the registration happened. Tag allocators use it so
// a check-then-add cannot race across two lock acquisitions.
func (r *Registry) AddIfAbsent(p *model.Player) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.players[p.Tag]; exists {
		return false
	}
	r.players[p.Tag] = p
	return true
}

// Get resolves a tag to its live player.
func (r *Registry) Get(tag model.PlayerTag) (*model.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[tag]
	return p, ok
}

// Remove deletes a tag and fires the removal hook. Removing an unknown
// tag is a no-op and does not fire the hook.
func (r *Registry) Remove(tag model.PlayerTag) (*model.Player, bool) {
	r.mu.Lock()
	p, ok := r.players[tag]
	if ok {
		delete(r.players, tag)
	}
	hook := r.onRemove
	r.mu.Unlock()

	if ok && hook != nil {
		hook()
	}
	return p, ok
}

// Snapshot returns the current players. The slice is a copy; the hook
// tells iterating collaborators when a snapshot has gone stale.
func (r *Registry) Snapshot() []*model.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	return out
}

// Len returns the number of registered players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
