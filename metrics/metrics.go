package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	SignRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cheqd_wallet_sign_requests",
			Help: ": number of signing requests handled by each wallet backend",
		},
		[]string{"backend", "kind", "result"},
	)

	BroadcastTxs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cheqd_wallet_broadcast_txs",
			Help: ": number of broadcast transactions by final state",
		},
		[]string{"state"},
	)

	RpcLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cheqd_wallet_rpc_latency_seconds",
			Help:    ": latency of node rpc calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	SearchResults = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cheqd_wallet_search_results",
			Help: ": number of transactions returned by the last search",
		})
)

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveRpc records the duration of an rpc call started at start.
func ObserveRpc(method string, start time.Time) {
	RpcLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
