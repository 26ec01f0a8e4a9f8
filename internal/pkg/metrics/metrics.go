// Package metrics exposes the Prometheus collectors used across the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "yolodash"

var (
	// BridgeCalls counts bridge calls by bridge name and decoded outcome.
	BridgeCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bridge_calls_total",
		Help:      "Bridge calls by bridge and outcome.",
	}, []string{"bridge", "outcome"})

	// BridgeDuration observes how long bridge calls take.
	BridgeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bridge_call_duration_seconds",
		Help:      "Bridge call latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"bridge"})

	// StaleWalletResults counts wallet responses discarded because the user
	// connected or disconnected while the call was in flight.
	StaleWalletResults = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_wallet_results_total",
		Help:      "Wallet responses discarded after a connect/disconnect.",
	})

	// Connected is 1 while the dashboard shows a connected wallet.
	Connected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "wallet_connected",
		Help:      "1 while a wallet is connected.",
	})

	// Actions counts user actions by name.
	Actions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "User actions handled.",
	}, []string{"action"})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry.
// Calling it more than once is a no-op.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(BridgeCalls, BridgeDuration, StaleWalletResults, Connected, Actions)
	})
}

// SetConnected updates the connection gauge.
func SetConnected(connected bool) {
	if connected {
		Connected.Set(1)
		return
	}
	Connected.Set(0)
}
