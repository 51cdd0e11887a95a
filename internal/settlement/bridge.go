package settlement

import (
	"log"
	"sync"

	"munch-arena/internal/game"
)

// Bridge translates consumption events into ledger and notifier calls.
//
// It implements game.Settler. Every dispatch spawns its own goroutine,
// so the serialized session operation that emitted the event returns
// immediately. Outcomes are logged and counted; a failed settlement
// never touches in-memory game state — the local score economy has
// already advanced and stays authoritative for gameplay.
type Bridge struct {
	ledger   Ledger
	notifier Notifier

	wg sync.WaitGroup
}

// NewBridge wires a ledger and a notifier into a bridge.
func NewBridge(ledger Ledger, notifier Notifier) *Bridge {
	return &Bridge{
		ledger:   ledger,
		notifier: notifier,
	}
}

// SettleFoodEaten issues one redistribution call and one notification,
// each on its own goroutine. The notification goes out regardless of
// the ledger outcome.
func (b *Bridge) SettleFoodEaten(ev game.FoodEaten) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.ledger.RedistributeForFood(int64(ev.Amount), ev.EaterWallet); err != nil {
			settlementFailures.WithLabelValues("redistribute").Inc()
			log.Printf("⚠️ settlement: redistribute %d for %s failed: %v", ev.Amount, ev.EaterWallet, err)
			return
		}
		settlementTotal.WithLabelValues("redistribute").Inc()
		log.Printf("💰 settlement: redistributed %d to %s (session %s)", ev.Amount, ev.EaterWallet, ev.SessionID)
	}()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		err := b.notifier.Notify(Notification{
			SessionID: ev.SessionID,
			Player:    ev.EaterID,
			Food:      ev.FoodID,
			Amount:    ev.Amount,
		})
		if err != nil {
			notifierFailures.Inc()
			log.Printf("⚠️ settlement: notify for %s failed: %v", ev.EaterID, err)
		}
	}()
}

// SettlePlayerEaten issues one full-share transfer from the loser's
// wallet to the winner's.
func (b *Bridge) SettlePlayerEaten(ev game.PlayerEaten) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.ledger.TransferShare(ev.LoserWallet, ev.WinnerWallet); err != nil {
			settlementFailures.WithLabelValues("transfer").Inc()
			log.Printf("⚠️ settlement: transfer %s -> %s failed: %v", ev.LoserWallet, ev.WinnerWallet, err)
			return
		}
		settlementTotal.WithLabelValues("transfer").Inc()
		log.Printf("💰 settlement: transferred full share %s -> %s (session %s)", ev.LoserWallet, ev.WinnerWallet, ev.SessionID)
	}()
}

// Wait blocks until all in-flight settlement calls have finished.
// Used by graceful shutdown and by tests; the game loop never calls it.
func (b *Bridge) Wait() {
	b.wg.Wait()
}
