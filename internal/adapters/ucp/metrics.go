package ucp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Outbound gateway calls
	gatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ucp_gateway_requests_total",
		Help: "Total number of requests sent to the UCP gateway",
	}, []string{
		"operation", // sign_in, process_transaction, transaction_detail, activity
		"status",    // success, http_4xx, http_5xx, network_error
	})

	gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "ucp_gateway_request_duration_seconds",
		Help: "Duration of UCP gateway requests in seconds",
		// Buckets: 50ms to 30s (the default request timeout)
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})

	signInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ucp_sign_ins_total",
		Help: "Total sign-in attempts against the UCP gateway",
	}, []string{"result"})
)

func statusLabel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "http_5xx"
	case statusCode >= 400:
		return "http_4xx"
	default:
		return "success"
	}
}
