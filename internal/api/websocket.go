package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"munch-arena/internal/game"
)

const (
	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP.
	MaxWSConnectionsPerIP = 10

	sendQueueSize = 64
	writeWait     = 5 * time.Second
	pongWait      = 60 * time.Second
	maxMessageLen = 4096 // join/move payloads are tiny
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) {
			return true
		}
		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// isAllowedOrigin accepts non-browser clients (empty origin), localhost,
// and the origin configured via ALLOWED_ORIGIN.
func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	if strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1") {
		return true
	}
	if allowed := os.Getenv("ALLOWED_ORIGIN"); allowed != "" && origin == allowed {
		return true
	}
	return false
}

// inboundMessage is the transport-agnostic per-connection contract:
// join {sessionId, displayName, walletAddress} and move {x, y}.
// Disconnect is implicit in the socket closing.
type inboundMessage struct {
	Type      string  `json:"type"`
	SessionID string  `json:"sessionId,omitempty"`
	Name      string  `json:"displayName,omitempty"`
	Wallet    string  `json:"walletAddress,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
}

// sessionConn adapts a WebSocket to game.Conn. Outbound broadcasts go
// through a buffered queue drained by writePump; when the queue is full
// the frame is dropped so the session never blocks on a slow client.
type sessionConn struct {
	ws        *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func newSessionConn(ws *websocket.Conn) *sessionConn {
	return &sessionConn{
		ws:   ws,
		send: make(chan []byte, sendQueueSize),
	}
}

// Enqueue implements game.Conn. Never blocks.
func (c *sessionConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		RecordBroadcastDropped()
	}
}

// close ends the write pump. Safe to call more than once.
func (c *sessionConn) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// writePump drains the send queue onto the socket.
func (c *sessionConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// WSHandler upgrades connections and feeds their messages into the
// game registry.
type WSHandler struct {
	registry  *game.Registry
	limiter   *WebSocketRateLimiter
	connCount atomic.Int64
}

// NewWSHandler creates the WebSocket entry point.
func NewWSHandler(registry *game.Registry) *WSHandler {
	return &WSHandler{
		registry: registry,
		limiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// HandleWS is the /ws endpoint.
func (h *WSHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)
	if !h.limiter.Allow(ip) {
		RecordConnectionRejected("ws_limit")
		http.Error(w, "Too Many Connections", http.StatusTooManyRequests)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.limiter.Release(ip)
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}

	UpdateWSConnections(int(h.connCount.Add(1)))

	conn := newSessionConn(ws)
	go conn.writePump()

	h.readPump(conn)

	conn.close()
	h.limiter.Release(ip)
	UpdateWSConnections(int(h.connCount.Add(-1)))
}

// readPump reads inbound messages until the socket closes, then runs
// the implicit disconnect. Malformed payloads are silently ignored: no
// session mutation, no error surfaced.
func (h *WSHandler) readPump(conn *sessionConn) {
	var (
		state  *game.State
		player *game.Player
	)

	ws := conn.ws
	ws.SetReadLimit(maxMessageLen)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			break
		}
		ws.SetReadDeadline(time.Now().Add(pongWait))

		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "join":
			// At most one live player per connection. A slot whose
			// player was eaten (or otherwise removed) is reusable.
			if player != nil {
				if state.HasPlayer(player.ID) {
					continue
				}
				state, player = nil, nil
			}
			// A join without a wallet address has no session effect.
			if msg.SessionID == "" || strings.TrimSpace(msg.Wallet) == "" {
				continue
			}
			state, player = h.join(msg, conn)

		case "move":
			if player == nil {
				continue
			}
			state.Move(player.ID, msg.X, msg.Y)
		}
	}

	if state != nil && player != nil {
		state.Leave(player.ID, conn)
	}
}

// join resolves the session and inserts the player. The resolve+join
// pair can race with the session being pruned; on ErrSessionClosed the
// id is simply resolved again.
func (h *WSHandler) join(msg inboundMessage, conn *sessionConn) (*game.State, *game.Player) {
	for attempts := 0; attempts < 3; attempts++ {
		state := h.registry.GetOrCreate(msg.SessionID)
		player, err := state.Join(msg.Name, msg.Wallet, conn)
		if err == nil {
			return state, player
		}
	}
	log.Printf("⚠️ join to session %s kept racing with prune, giving up", msg.SessionID)
	return nil, nil
}
