package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	NotesOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_operations_total",
			Help: "Total number of note operations",
		},
		[]string{"operation"}, // list, create, update, delete
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type", "reason"},
	)

	UsernameCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "username_cache_lookups_total",
			Help: "Username cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)
)

// TrackDBOperation starts a timer for a database call. Call ObserveDuration
// when the call returns.
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

func TrackNoteOperation(operation string) {
	NotesOperationsTotal.WithLabelValues(operation).Inc()
}

func TrackError(errorType, reason string) {
	ErrorsTotal.WithLabelValues(errorType, reason).Inc()
}

func TrackUsernameCache(result string) {
	UsernameCacheLookups.WithLabelValues(result).Inc()
}
