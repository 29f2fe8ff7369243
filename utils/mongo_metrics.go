package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/event"
)

var (
	MongoConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mongo_pool_connections_in_use",
			Help: "Connections currently checked out of the MongoDB pool",
		},
	)

	MongoConnectionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mongo_pool_connections_created_total",
			Help: "Connections opened by the MongoDB pool",
		},
	)

	MongoConnectionsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mongo_pool_connections_closed_total",
			Help: "Connections closed by the MongoDB pool",
		},
	)
)

// MongoPoolMonitor feeds the pool gauges from driver pool events.
func MongoPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				MongoConnectionsCreated.Inc()
			case event.ConnectionClosed:
				MongoConnectionsClosed.Inc()
			case event.GetSucceeded:
				MongoConnectionsInUse.Inc()
			case event.ConnectionReturned:
				MongoConnectionsInUse.Dec()
			}
		},
	}
}
