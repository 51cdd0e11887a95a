package settlement

import (
	"fmt"
	"sync"
)

// MemoryLedger is an in-process Ledger used in dev mode and tests.
// It carries the same accounting policy the external service applies:
// integer share units, proportional redistribution truncated toward
// zero, and hard rejection instead of partial updates.
type MemoryLedger struct {
	mu     sync.Mutex
	shares map[string]int64
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		shares: make(map[string]int64),
	}
}

// Credit seeds an address with shares. Used for bootstrapping dev
// environments and tests; the real ledger mints shares elsewhere.
func (l *MemoryLedger) Credit(addr string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shares[addr] += amount
}

// Balance returns the current share balance of an address.
func (l *MemoryLedger) Balance(addr string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shares[addr]
}

// TransferShare moves the loser's entire share to the winner. A
// zero-share loser is rejected: there is nothing to move, and silently
// succeeding would hide a divergence between game and ledger economies.
// A self-transfer (both players on one wallet) is the identity: the
// share already sits where it must end up.
func (l *MemoryLedger) TransferShare(from, to string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	v := l.shares[from]
	if v <= 0 {
		return fmt.Errorf("transfer from %s rejected: zero share", from)
	}
	if from == to {
		return nil
	}

	l.shares[to] += v
	l.shares[from] = 0
	return nil
}

// RedistributeForFood adds amount to the eater's share and scales every
// other address's share by (othersTotal-amount)/othersTotal, truncating
// toward zero. If amount exceeds othersTotal the whole redistribution
// is rejected; no partial update occurs.
func (l *MemoryLedger) RedistributeForFood(amount int64, eater string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var othersTotal int64
	for addr, v := range l.shares {
		if addr != eater {
			othersTotal += v
		}
	}

	if amount > othersTotal {
		return fmt.Errorf("redistribute %d for %s rejected: exceeds others' total %d", amount, eater, othersTotal)
	}

	if othersTotal > 0 {
		for addr, v := range l.shares {
			if addr == eater {
				continue
			}
			l.shares[addr] = v * (othersTotal - amount) / othersTotal
		}
	}
	l.shares[eater] += amount
	return nil
}
