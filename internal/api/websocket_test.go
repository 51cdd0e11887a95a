package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"munch-arena/internal/config"
	"munch-arena/internal/game"
)

func newWSTestServer(t *testing.T) (*game.Registry, *httptest.Server) {
	t.Helper()

	registry := game.NewRegistry(config.DefaultGame(), nil, nil)
	srv := NewServer(registry)
	t.Cleanup(srv.Stop)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return registry, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	return ws
}

func readState(t *testing.T, ws *websocket.Conn) game.StateMessage {
	t.Helper()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	var msg game.StateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("Broadcast is not valid JSON: %v", err)
	}
	return msg
}

// TestWebSocketJoinMoveDisconnect drives the full connection lifecycle
// over a real socket: join broadcasts the world, move updates it, and
// closing the socket removes the player and prunes the session.
func TestWebSocketJoinMoveDisconnect(t *testing.T) {
	registry, ts := newWSTestServer(t)

	ws := dialWS(t, ts)
	defer ws.Close()

	err := ws.WriteJSON(map[string]string{
		"type":          "join",
		"sessionId":     "g1",
		"displayName":   "alice",
		"walletAddress": "0xA",
	})
	if err != nil {
		t.Fatalf("Write join failed: %v", err)
	}

	msg := readState(t, ws)
	if msg.Type != "state" {
		t.Fatalf("Expected state broadcast, got %q", msg.Type)
	}
	if len(msg.Players) != 1 {
		t.Fatalf("Expected 1 player after join, got %d", len(msg.Players))
	}
	p := msg.Players[0]
	if p.Name != "alice" || p.Wallet != "0xA" || p.Score != 0 {
		t.Errorf("Unexpected joined player: %+v", p)
	}
	if p.X != 500 || p.Y != 500 {
		t.Errorf("Expected spawn at (500,500), got (%v,%v)", p.X, p.Y)
	}
	if len(msg.Food) != 20 {
		t.Errorf("Expected a full food batch of 20, got %d", len(msg.Food))
	}

	err = ws.WriteJSON(map[string]interface{}{
		"type": "move",
		"x":    1.0,
		"y":    1.0,
	})
	if err != nil {
		t.Fatalf("Write move failed: %v", err)
	}

	msg = readState(t, ws)
	if len(msg.Players) != 1 {
		t.Fatalf("Expected 1 player after move, got %d", len(msg.Players))
	}
	if msg.Players[0].X != 1 || msg.Players[0].Y != 1 {
		t.Errorf("Expected player at (1,1), got (%v,%v)", msg.Players[0].X, msg.Players[0].Y)
	}

	ws.Close()

	// Disconnect is handled on the server goroutine; wait for the prune.
	deadline := time.Now().Add(2 * time.Second)
	for registry.Get("g1") != nil {
		if time.Now().After(deadline) {
			t.Fatal("Session was not pruned after the last player disconnected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestWebSocketBroadcastReachesAllConnections verifies one player's join
// is pushed to every connection in the session, including earlier ones.
func TestWebSocketBroadcastReachesAllConnections(t *testing.T) {
	_, ts := newWSTestServer(t)

	ws1 := dialWS(t, ts)
	defer ws1.Close()
	ws2 := dialWS(t, ts)
	defer ws2.Close()

	join := func(ws *websocket.Conn, name, wallet string) {
		err := ws.WriteJSON(map[string]string{
			"type":          "join",
			"sessionId":     "g1",
			"displayName":   name,
			"walletAddress": wallet,
		})
		if err != nil {
			t.Fatalf("Write join failed: %v", err)
		}
	}

	join(ws1, "alice", "0xA")
	readState(t, ws1)

	join(ws2, "bob", "0xB")

	// ws1 sees bob arrive without sending anything itself.
	msg := readState(t, ws1)
	if len(msg.Players) != 2 {
		t.Errorf("Expected 2 players in the broadcast to ws1, got %d", len(msg.Players))
	}

	msg = readState(t, ws2)
	if len(msg.Players) != 2 {
		t.Errorf("Expected 2 players in the broadcast to ws2, got %d", len(msg.Players))
	}
}

// TestWebSocketJoinWithoutWalletIgnored verifies a join with no wallet
// address has no session effect and a later valid join still works.
func TestWebSocketJoinWithoutWalletIgnored(t *testing.T) {
	registry, ts := newWSTestServer(t)

	ws := dialWS(t, ts)
	defer ws.Close()

	err := ws.WriteJSON(map[string]string{
		"type":        "join",
		"sessionId":   "g1",
		"displayName": "ghost",
	})
	if err != nil {
		t.Fatalf("Write join failed: %v", err)
	}

	err = ws.WriteJSON(map[string]string{
		"type":          "join",
		"sessionId":     "g1",
		"displayName":   "alice",
		"walletAddress": "0xA",
	})
	if err != nil {
		t.Fatalf("Write join failed: %v", err)
	}

	// The only broadcast is the valid join's.
	msg := readState(t, ws)
	if len(msg.Players) != 1 || msg.Players[0].Name != "alice" {
		t.Errorf("Expected only the walleted join to take effect, got %+v", msg.Players)
	}

	state := registry.Get("g1")
	if state == nil {
		t.Fatal("Valid join should have created the session")
	}
	if state.PlayerCount() != 1 {
		t.Errorf("Expected 1 player in the session, got %d", state.PlayerCount())
	}
}

// TestWebSocketRejoinAfterRemoval verifies a connection whose player was
// removed from the session can join again without reconnecting.
func TestWebSocketRejoinAfterRemoval(t *testing.T) {
	registry, ts := newWSTestServer(t)

	ws := dialWS(t, ts)
	defer ws.Close()

	err := ws.WriteJSON(map[string]string{
		"type":          "join",
		"sessionId":     "g1",
		"displayName":   "alice",
		"walletAddress": "0xA",
	})
	if err != nil {
		t.Fatalf("Write join failed: %v", err)
	}

	msg := readState(t, ws)
	if len(msg.Players) != 1 {
		t.Fatalf("Expected 1 player after join, got %d", len(msg.Players))
	}
	playerID := msg.Players[0].ID

	// Remove the player server-side, as being eaten would. The
	// connection stays attached and sees the removal broadcast.
	state := registry.Get("g1")
	if state == nil {
		t.Fatal("Session should exist after join")
	}
	state.Leave(playerID, nil)

	msg = readState(t, ws)
	if len(msg.Players) != 0 {
		t.Fatalf("Expected removal broadcast with 0 players, got %d", len(msg.Players))
	}

	err = ws.WriteJSON(map[string]string{
		"type":          "join",
		"sessionId":     "g1",
		"displayName":   "alice",
		"walletAddress": "0xA",
	})
	if err != nil {
		t.Fatalf("Write rejoin failed: %v", err)
	}

	msg = readState(t, ws)
	if len(msg.Players) != 1 || msg.Players[0].Name != "alice" {
		t.Errorf("Expected the rejoin to take effect, got %+v", msg.Players)
	}
	if msg.Players[0].ID == playerID {
		t.Error("Rejoin should create a fresh player")
	}
}

// TestWebSocketMalformedPayloadIgnored verifies garbage frames neither
// mutate the session nor kill the connection.
func TestWebSocketMalformedPayloadIgnored(t *testing.T) {
	_, ts := newWSTestServer(t)

	ws := dialWS(t, ts)
	defer ws.Close()

	if err := ws.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	err := ws.WriteJSON(map[string]string{
		"type":          "join",
		"sessionId":     "g1",
		"displayName":   "alice",
		"walletAddress": "0xA",
	})
	if err != nil {
		t.Fatalf("Write join failed: %v", err)
	}

	msg := readState(t, ws)
	if msg.Type != "state" || len(msg.Players) != 1 {
		t.Errorf("Connection should survive a malformed frame, got %+v", msg)
	}
}
