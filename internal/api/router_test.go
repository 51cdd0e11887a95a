package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"munch-arena/internal/config"
	"munch-arena/internal/game"
)

// nopConn satisfies game.Conn for REST-only tests.
type nopConn struct{}

func (nopConn) Enqueue([]byte) {}

func newTestRouter(t *testing.T) (*game.Registry, *httptest.Server) {
	t.Helper()

	registry := game.NewRegistry(config.DefaultGame(), nil, nil)
	router := NewRouter(RouterConfig{
		Registry: registry,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
		},
		DisableLogging: true,
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return registry, ts
}

func TestHealthz(t *testing.T) {
	_, ts := newTestRouter(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestListSessions(t *testing.T) {
	registry, ts := newTestRouter(t)

	resp, err := http.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions failed: %v", err)
	}
	var listing struct {
		Sessions []game.SessionInfo `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	resp.Body.Close()
	if len(listing.Sessions) != 0 {
		t.Errorf("Expected no sessions, got %d", len(listing.Sessions))
	}

	state := registry.GetOrCreate("g1")
	state.Join("alice", "0xA", nopConn{})

	resp, err = http.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions failed: %v", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(listing.Sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(listing.Sessions))
	}
	info := listing.Sessions[0]
	if info.ID != "g1" || info.Players != 1 || info.Food != 20 {
		t.Errorf("Unexpected session summary: %+v", info)
	}
}

func TestSessionStateNotFound(t *testing.T) {
	_, ts := newTestRouter(t)

	resp, err := http.Get(ts.URL + "/api/sessions/missing/state")
	if err != nil {
		t.Fatalf("GET session state failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", resp.StatusCode)
	}
}

func TestSessionState(t *testing.T) {
	registry, ts := newTestRouter(t)

	state := registry.GetOrCreate("g1")
	state.Join("alice", "0xA", nopConn{})

	resp, err := http.Get(ts.URL + "/api/sessions/g1/state")
	if err != nil {
		t.Fatalf("GET session state failed: %v", err)
	}
	defer resp.Body.Close()

	var snapshot game.StateMessage
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if snapshot.Type != "state" {
		t.Errorf("Expected message type state, got %q", snapshot.Type)
	}
	if len(snapshot.Players) != 1 {
		t.Fatalf("Expected 1 player in snapshot, got %d", len(snapshot.Players))
	}
	p := snapshot.Players[0]
	if p.Name != "alice" || p.Wallet != "0xA" || p.Score != 0 {
		t.Errorf("Unexpected player snapshot: %+v", p)
	}
	if p.X != 500 || p.Y != 500 {
		t.Errorf("Expected player at spawn (500,500), got (%v,%v)", p.X, p.Y)
	}
	if len(snapshot.Food) != 20 {
		t.Errorf("Expected 20 food in snapshot, got %d", len(snapshot.Food))
	}
}

// TestRateLimitExceeded verifies the middleware answers 429 with a
// Retry-After header once the per-IP budget is spent
func TestRateLimitExceeded(t *testing.T) {
	registry := game.NewRegistry(config.DefaultGame(), nil, nil)
	router := NewRouter(RouterConfig{
		Registry: registry,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
		},
		DisableLogging: true,
	})
	ts := httptest.NewServer(router)
	defer ts.Close()

	var last *http.Response
	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + "/healthz")
		if err != nil {
			t.Fatalf("GET /healthz failed: %v", err)
		}
		resp.Body.Close()
		last = resp
	}

	if last.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 after exhausting the budget, got %d", last.StatusCode)
	}
	if last.Header.Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on 429 responses")
	}
}
