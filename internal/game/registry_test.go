package game

import (
	"fmt"
	"sync"
	"testing"
)

// TestGetOrCreateReturnsSameState verifies resolving an id twice yields
// the same session
func TestGetOrCreateReturnsSameState(t *testing.T) {
	reg := newTestRegistry(nil)

	a := reg.GetOrCreate("g1")
	b := reg.GetOrCreate("g1")
	if a != b {
		t.Error("GetOrCreate should return the existing session")
	}

	c := reg.GetOrCreate("g2")
	if c == a {
		t.Error("Different ids must resolve to different sessions")
	}
}

// TestRemoveIfEmptyKeepsNonEmpty verifies only empty sessions are pruned
func TestRemoveIfEmptyKeepsNonEmpty(t *testing.T) {
	reg := newTestRegistry(nil)
	state := reg.GetOrCreate("g1")
	state.Join("alice", "0xA", &fakeConn{})

	reg.RemoveIfEmpty("g1")

	if reg.Get("g1") == nil {
		t.Error("Non-empty session must not be pruned")
	}

	// Unknown ids are a no-op.
	reg.RemoveIfEmpty("never-existed")
}

// TestSessionsSummary verifies the registry-level listing
func TestSessionsSummary(t *testing.T) {
	reg := newTestRegistry(nil)
	state := reg.GetOrCreate("g1")
	state.Join("alice", "0xA", &fakeConn{})
	state.Join("bob", "0xB", &fakeConn{})

	infos := reg.Sessions()
	if len(infos) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(infos))
	}
	if infos[0].ID != "g1" || infos[0].Players != 2 || infos[0].Food != 20 {
		t.Errorf("Unexpected summary: %+v", infos[0])
	}
}

// TestConcurrentGetOrCreate verifies the registry map is safe under
// concurrent resolution of the same and different ids
func TestConcurrentGetOrCreate(t *testing.T) {
	reg := newTestRegistry(nil)

	var wg sync.WaitGroup
	states := make([]*State, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i] = reg.GetOrCreate("shared")
			reg.GetOrCreate(fmt.Sprintf("own-%d", i))
		}(i)
	}
	wg.Wait()

	for i := 1; i < 50; i++ {
		if states[i] != states[0] {
			t.Fatal("Concurrent GetOrCreate produced distinct sessions for one id")
		}
	}
}

// TestConcurrentSessionsAreIndependent verifies operations on different
// sessions can run in parallel without corrupting either
func TestConcurrentSessionsAreIndependent(t *testing.T) {
	reg := newTestRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state := reg.GetOrCreate(fmt.Sprintf("g%d", i))
			p, err := state.Join("p", "0x1", &fakeConn{})
			if err != nil {
				t.Errorf("Join failed: %v", err)
				return
			}
			for j := 0; j < 100; j++ {
				state.Move(p.ID, float64(j), float64(j))
			}
			state.Leave(p.ID, nil)
		}(i)
	}
	wg.Wait()

	if got := len(reg.Sessions()); got != 0 {
		t.Errorf("All sessions should have self-pruned, %d remain", got)
	}
}
