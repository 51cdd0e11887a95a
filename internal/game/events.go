package game

// Consumption events carry everything the settlement layer needs as
// plain values. They are snapshots taken at resolution time: by the
// moment a settler sees one, the entities it names may already be gone
// from the session.

// FoodEaten records a player absorbing a food item.
type FoodEaten struct {
	SessionID   string
	EaterID     string
	EaterWallet string
	FoodID      string
	Amount      int // The removed food's score
}

// PlayerEaten records a player absorbing another player.
type PlayerEaten struct {
	SessionID    string
	WinnerID     string
	WinnerWallet string
	LoserID      string
	LoserWallet  string
	Amount       int // The loser's score at the moment of consumption
}

// Settler receives consumption events from the game loop.
//
// Implementations must return immediately: any external calls they make
// (ledger, webhooks) run on their own goroutines. The game loop never
// waits on a settler and never rolls back state on settlement failure.
type Settler interface {
	SettleFoodEaten(ev FoodEaten)
	SettlePlayerEaten(ev PlayerEaten)
}
