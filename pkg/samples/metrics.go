package samples

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	samplesRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentilo_samples_run_duration_seconds",
			Help:    "Duration of a sample execution in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
		},
	)

	samplesRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilo_samples_run_total",
			Help: "Total number of sample executions",
		},
		[]string{"status", "code"}, // success or error; error code, empty on success
	)

	samplesSensorRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentilo_samples_sensor_registered_total",
			Help: "Total number of sensor registrations issued because the sensor was missing from the catalog",
		},
	)
)
