package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"munch-arena/internal/game"
)

// Server is the HTTP API server with WebSocket support.
type Server struct {
	registry    *game.Registry
	router      *chi.Mux
	wsHandler   *WSHandler
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// Constructing the server opens no listeners; for testing HTTP endpoints
// without WebSocket support, use NewRouter() directly.
func NewServer(registry *game.Registry) *Server {
	s := &Server{
		registry:  registry,
		wsHandler: NewWSHandler(registry),
	}

	// Track the rate limiter so Stop can shut down its cleanup loop.
	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Registry:    registry,
		RateLimiter: s.rateLimiter,
	})

	// WebSocket route needs the handler instance, so it can't be part
	// of the generic NewRouter factory.
	s.router.Get("/ws", s.wsHandler.HandleWS)

	return s
}

// Start begins serving. Blocks until the listener fails.
func (s *Server) Start(addr string) error {
	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("🎮 WebSocket endpoint: ws://localhost%s/ws", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
