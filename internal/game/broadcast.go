package game

import (
	"encoding/json"
	"log"
)

// PlayerSnapshot is the wire form of a live player.
type PlayerSnapshot struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Score  int     `json:"score"`
	Wallet string  `json:"walletAddress"`
}

// FoodSnapshot is the wire form of a live food entity.
type FoodSnapshot struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score int     `json:"score"`
}

// StateMessage is the full-state broadcast payload. There is no delta
// encoding: state is small (players + at most one food batch), so every
// mutating operation pushes the whole world to every attached
// connection, including the one that caused the mutation.
type StateMessage struct {
	Type    string           `json:"type"`
	Players []PlayerSnapshot `json:"players"`
	Food    []FoodSnapshot   `json:"food"`
}

// Snapshot returns the current full state. Used by the REST surface;
// the broadcast path uses snapshotLocked directly.
func (s *State) Snapshot() StateMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() StateMessage {
	msg := StateMessage{
		Type:    "state",
		Players: make([]PlayerSnapshot, 0, len(s.players)),
		Food:    make([]FoodSnapshot, 0, len(s.food)),
	}
	for _, p := range s.players {
		msg.Players = append(msg.Players, PlayerSnapshot{
			ID:     p.ID,
			Name:   p.Name,
			X:      p.X,
			Y:      p.Y,
			Score:  p.Score,
			Wallet: p.Wallet,
		})
	}
	for _, f := range s.food {
		msg.Food = append(msg.Food, FoodSnapshot{
			ID:    f.ID,
			X:     f.X,
			Y:     f.Y,
			Score: f.Score,
		})
	}
	return msg
}

// broadcastLocked serializes the full state once and enqueues it on
// every attached connection. Enqueue never blocks, so a slow consumer
// cannot stall the session. Must be called with the session lock held.
func (s *State) broadcastLocked() {
	if len(s.conns) == 0 {
		return
	}

	payload, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		log.Printf("⚠️ session %s: broadcast marshal failed: %v", s.id, err)
		return
	}

	for conn := range s.conns {
		conn.Enqueue(payload)
	}
	broadcastsTotal.Inc()
}
