package game

// Conn is the outbound half of a session connection.
// The transport layer (internal/api) implements it over a WebSocket;
// tests implement it with an in-memory recorder.
//
// Enqueue must never block: a slow consumer drops frames, it does not
// stall the session.
type Conn interface {
	Enqueue(msg []byte)
}

// Player is a live entity inside one session. All fields except ID,
// Wallet and Conn are mutated by session operations; every mutation
// happens under the owning session's lock.
type Player struct {
	ID     string
	Name   string
	X, Y   float64
	Score  int
	Wallet string // Immutable join key into the external ledger

	Conn Conn
}

// Food is a consumable entity inside one session.
type Food struct {
	ID    string
	X, Y  float64
	Score int
}
