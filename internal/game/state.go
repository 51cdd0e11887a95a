package game

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"munch-arena/internal/config"
)

// ErrSessionClosed is returned by Join when the session has already been
// pruned from the registry. Callers should re-resolve the session id.
var ErrSessionClosed = errors.New("session closed")

// State is the authoritative world of one game session.
//
// Every mutating operation (Join, Move, Leave) runs start-to-finish under
// the session mutex, so operations on one session are strictly serialized
// while different sessions stay fully independent. The player and food
// maps are only ever touched under that lock; no reference to an entity
// outlives its removal.
type State struct {
	id string

	mu      sync.Mutex
	players map[string]*Player
	food    map[string]*Food
	conns   map[Conn]struct{}
	closed  bool

	cfg      config.GameConfig
	spawner  *Spawner
	settler  Settler
	events   *EventLog
	registry *Registry
}

// newState is called by the registry; sessions are never created directly.
func newState(id string, cfg config.GameConfig, settler Settler, events *EventLog, registry *Registry, seed int64) *State {
	return &State{
		id:       id,
		players:  make(map[string]*Player),
		food:     make(map[string]*Food),
		conns:    make(map[Conn]struct{}),
		cfg:      cfg,
		spawner:  NewSpawner(cfg, seed),
		settler:  settler,
		events:   events,
		registry: registry,
	}
}

// ID returns the opaque session id.
func (s *State) ID() string {
	return s.id
}

// Join inserts a new player at the spawn point with score 0 and
// attaches its connection to the broadcast set. If the food pool is
// empty it is repopulated with a full batch first, so the very first
// broadcast a player receives already contains food.
func (s *State) Join(name, wallet string, conn Conn) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverOp("join")

	if s.closed {
		return nil, ErrSessionClosed
	}

	p := &Player{
		ID:     uuid.NewString(),
		Name:   name,
		X:      s.cfg.SpawnX,
		Y:      s.cfg.SpawnY,
		Score:  0,
		Wallet: wallet,
		Conn:   conn,
	}
	s.players[p.ID] = p
	if conn != nil {
		s.conns[conn] = struct{}{}
	}
	playersActive.Inc()

	if len(s.food) == 0 {
		for _, f := range s.spawner.Batch() {
			s.food[f.ID] = f
		}
		log.Printf("🍒 session %s: spawned %d food", s.id, len(s.food))
	}

	log.Printf("👤 session %s: %s joined (wallet %s)", s.id, name, wallet)
	s.events.EmitSimple(EventTypePlayerJoin, s.id, p.ID, PlayerJoinPayload{
		PlayerID: p.ID,
		Name:     p.Name,
		Wallet:   p.Wallet,
	})

	s.broadcastLocked()
	return p, nil
}

// Move updates a player's position and resolves all collisions the move
// produces. Unknown player ids are ignored: the move simply raced with
// a deletion and the world has already moved on. Coordinates are
// clamped to the world bounds; this is a local policy of this server,
// not part of the connection contract.
func (s *State) Move(playerID string, x, y float64) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverOp("move")

	p, ok := s.players[playerID]
	if !ok {
		return
	}

	p.X = clamp(x, 0, s.cfg.WorldWidth)
	p.Y = clamp(y, 0, s.cfg.WorldHeight)

	s.resolveCollisions(p)
	s.broadcastLocked()

	moveDuration.Observe(time.Since(start).Seconds())
}

// Leave removes the player (if still present) and detaches the
// connection, then asks the registry to prune the session if it is now
// empty. An already-eaten player still has its connection detached.
func (s *State) Leave(playerID string, conn Conn) {
	s.leave(playerID, conn)

	if s.registry != nil {
		s.registry.RemoveIfEmpty(s.id)
	}
}

func (s *State) leave(playerID string, conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverOp("leave")

	if p, ok := s.players[playerID]; ok {
		delete(s.players, playerID)
		playersActive.Dec()
		log.Printf("👋 session %s: %s left", s.id, p.Name)
		s.events.EmitSimple(EventTypePlayerLeave, s.id, p.ID, PlayerLeavePayload{
			PlayerID: p.ID,
			Name:     p.Name,
		})
	}
	if conn != nil {
		delete(s.conns, conn)
	}

	s.broadcastLocked()
}

// HasPlayer reports whether the player is still alive in the session.
func (s *State) HasPlayer(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.players[playerID]
	return ok
}

// PlayerCount returns the number of live players.
func (s *State) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// FoodCount returns the number of live food entities.
func (s *State) FoodCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.food)
}

// recoverOp isolates a panic to the operation that raised it. The
// operation is dropped, the session lock is still released by the outer
// defer, and the session keeps serving subsequent operations.
func (s *State) recoverOp(op string) {
	if r := recover(); r != nil {
		log.Printf("⚠️ session %s: panic in %s dropped: %v", s.id, op, r)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
