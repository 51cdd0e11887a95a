package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality (no per-player or per-session labels).
var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_sessions_active",
		Help: "Current number of live game sessions",
	})

	playersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_players_active",
		Help: "Current number of live players across all sessions",
	})

	foodEatenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_food_eaten_total",
		Help: "Total food consumption events",
	})

	playersEatenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_players_eaten_total",
		Help: "Total player consumption events",
	})

	broadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_broadcasts_total",
		Help: "Total full-state broadcasts",
	})

	moveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "game_move_duration_seconds",
		Help:    "Time spent inside a serialized Move operation",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05},
	})
)
