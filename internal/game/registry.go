package game

import (
	"log"
	"sync"
	"time"

	"munch-arena/internal/config"
)

// Registry is the process-wide map from session id to State.
//
// Sessions are created lazily on first resolve and self-prune when
// their last player leaves. The registry map has its own short-lived
// lock, distinct from the per-session locks: resolving session A never
// blocks on an operation running inside session B.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*State

	cfg     config.GameConfig
	settler Settler
	events  *EventLog
}

// SessionInfo is a registry-level summary of one session.
type SessionInfo struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	Food    int    `json:"food"`
}

// NewRegistry creates an empty registry. One registry is created at
// process start; it needs no teardown since sessions self-prune.
func NewRegistry(cfg config.GameConfig, settler Settler, events *EventLog) *Registry {
	return &Registry{
		sessions: make(map[string]*State),
		cfg:      cfg,
		settler:  settler,
		events:   events,
	}
}

// GetOrCreate resolves the session for the given id, creating an empty
// one on first use.
func (r *Registry) GetOrCreate(id string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}

	s := newState(id, r.cfg, r.settler, r.events, r, time.Now().UnixNano())
	r.sessions[id] = s
	sessionsActive.Inc()

	log.Printf("🎮 session %s created", id)
	r.events.EmitSimple(EventTypeSessionCreated, id, "", nil)
	return s
}

// Get returns the session for the given id, or nil.
func (r *Registry) Get(id string) *State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// RemoveIfEmpty prunes the session iff it currently has zero players.
// The session is marked closed under both locks so a Join racing with
// the prune observes ErrSessionClosed and re-resolves instead of
// landing in an orphaned world.
func (r *Registry) RemoveIfEmpty(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return
	}

	s.mu.Lock()
	empty := len(s.players) == 0
	if empty {
		s.closed = true
	}
	s.mu.Unlock()

	if !empty {
		return
	}

	delete(r.sessions, id)
	sessionsActive.Dec()

	log.Printf("🧹 session %s pruned (empty)", id)
	r.events.EmitSimple(EventTypeSessionClosed, id, "", nil)
}

// Sessions returns a summary of every live session.
func (r *Registry) Sessions() []SessionInfo {
	r.mu.RLock()
	states := make([]*State, 0, len(r.sessions))
	for _, s := range r.sessions {
		states = append(states, s)
	}
	r.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(states))
	for _, s := range states {
		s.mu.Lock()
		infos = append(infos, SessionInfo{
			ID:      s.id,
			Players: len(s.players),
			Food:    len(s.food),
		})
		s.mu.Unlock()
	}
	return infos
}
