package settlement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Bounded labels only: "transfer", "redistribute".
var (
	settlementTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_calls_total",
		Help: "Successful ledger settlement calls",
	}, []string{"op"})

	settlementFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_failures_total",
		Help: "Failed ledger settlement calls",
	}, []string{"op"})

	notifierFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_failures_total",
		Help: "Failed analytics webhook deliveries",
	})
)
