package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionsTotal tracks user-triggered actions by kind and outcome
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletdemo_actions_total",
			Help: "Total number of user-triggered actions",
		},
		[]string{"action", "outcome"},
	)

	// RPCCallsTotal tracks chain RPC calls per method
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletdemo_rpc_calls_total",
			Help: "Total number of chain RPC calls",
		},
		[]string{"method"},
	)

	// RPCErrorsTotal tracks chain RPC errors per method
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletdemo_rpc_errors_total",
			Help: "Total number of chain RPC errors",
		},
		[]string{"method"},
	)

	// RPCLatency tracks chain RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "walletdemo_rpc_latency_seconds",
			Help:    "Chain RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// BalanceLamports tracks the last queried balance per holder
	BalanceLamports = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "walletdemo_balance_lamports",
			Help: "Last queried balance in lamports",
		},
		[]string{"holder"},
	)

	// GateBusy reports whether an action is currently in flight
	GateBusy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "walletdemo_gate_busy",
			Help: "1 while an action holds the processing gate",
		},
	)
)
