package game

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	EventBufferSize    = 1024                   // Pending events before drops kick in
	MaxEventsPerSec    = 5000                   // Global rate limit
	BatchFlushInterval = 100 * time.Millisecond // How often the writer flushes
)

// EventVersion for backwards compatibility when reading old logs.
const EventVersion uint8 = 1

// EventType enum for audit event classification.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeSessionCreated
	EventTypeSessionClosed
	EventTypePlayerJoin
	EventTypePlayerLeave
	EventTypeFoodEaten
	EventTypePlayerEaten
)

// String returns the human-readable event type.
func (t EventType) String() string {
	switch t {
	case EventTypeSessionCreated:
		return "session_created"
	case EventTypeSessionClosed:
		return "session_closed"
	case EventTypePlayerJoin:
		return "player_join"
	case EventTypePlayerLeave:
		return "player_leave"
	case EventTypeFoodEaten:
		return "food_eaten"
	case EventTypePlayerEaten:
		return "player_eaten"
	default:
		return "unknown"
	}
}

// Event is one line in the JSONL audit log.
type Event struct {
	Version   uint8           `json:"version"`
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp"` // Unix nano
	SessionID string          `json:"sessionId"`
	PlayerID  string          `json:"playerId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Typed payloads for the event log.

type PlayerJoinPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Wallet   string `json:"wallet"`
}

type PlayerLeavePayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type FoodEatenPayload struct {
	PlayerID string `json:"playerId"`
	FoodID   string `json:"foodId"`
	Amount   int    `json:"amount"`
	NewScore int    `json:"newScore"`
}

type PlayerEatenPayload struct {
	WinnerID    string `json:"winnerId"`
	LoserID     string `json:"loserId"`
	Amount      int    `json:"amount"`
	WinnerScore int    `json:"winnerScore"`
}

// EventLog is a bounded, rate-limited audit log with an async writer.
//
// Emit never blocks the game loop: when the buffer is full or the rate
// limit trips, the event is counted as dropped and gameplay continues.
// A nil *EventLog is valid and discards everything, so wiring it up is
// optional.
type EventLog struct {
	limiter *rate.Limiter
	ch      chan Event

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	file *os.File

	droppedCount atomic.Uint64
	totalCount   atomic.Uint64
}

// NewEventLog creates an event log. It stays inert until Start is called.
func NewEventLog() *EventLog {
	return &EventLog{
		limiter:  rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		ch:       make(chan Event, EventBufferSize),
		stopChan: make(chan struct{}),
	}
}

// Start opens the output file and begins the async writer goroutine.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	el.file = file

	el.running.Store(true)
	el.writerWg.Add(1)
	go el.writerLoop()

	return nil
}

// Stop drains pending events, flushes and closes the file. Safe to call
// more than once.
func (el *EventLog) Stop() {
	if el == nil {
		return
	}
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()
		if el.file != nil {
			el.file.Close()
		}
	})
}

// EmitSimple marshals the payload and emits an event. Drops silently if
// the log is nil, not running, rate-limited or full.
func (el *EventLog) EmitSimple(t EventType, sessionID, playerID string, payload any) {
	if el == nil || !el.running.Load() {
		return
	}

	if !el.limiter.Allow() {
		el.droppedCount.Add(1)
		return
	}

	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			el.droppedCount.Add(1)
			return
		}
		raw = b
	}

	ev := Event{
		Version:   EventVersion,
		Type:      t.String(),
		Timestamp: time.Now().UnixNano(),
		SessionID: sessionID,
		PlayerID:  playerID,
		Payload:   raw,
	}

	select {
	case el.ch <- ev:
		el.totalCount.Add(1)
	default:
		// Buffer full: dropping is intentional, gameplay never waits.
		el.droppedCount.Add(1)
	}
}

// writerLoop batches events to the file, flushing on an interval and on
// shutdown.
func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	w := bufio.NewWriter(el.file)
	enc := json.NewEncoder(w)
	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-el.ch:
			_ = enc.Encode(ev)

		case <-ticker.C:
			_ = w.Flush()

		case <-el.stopChan:
			// Drain whatever is still buffered, then flush and exit.
			for {
				select {
				case ev := <-el.ch:
					_ = enc.Encode(ev)
				default:
					_ = w.Flush()
					return
				}
			}
		}
	}
}

// Stats returns counters for monitoring.
func (el *EventLog) Stats() map[string]uint64 {
	if el == nil {
		return map[string]uint64{"total": 0, "dropped": 0}
	}
	return map[string]uint64{
		"total":   el.totalCount.Load(),
		"dropped": el.droppedCount.Load(),
	}
}
