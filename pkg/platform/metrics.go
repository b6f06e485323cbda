package platform

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	platformRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentilo_platform_request_duration_seconds",
			Help:    "Duration of platform API requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15},
		},
		[]string{"operation"}, // get_sensors, register_sensors, send_observations
	)

	platformRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilo_platform_requests_total",
			Help: "Total number of platform API requests",
		},
		[]string{"operation", "status"}, // success or error
	)
)
