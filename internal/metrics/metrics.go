// Package metrics holds the service's prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrcafe_orders_created_total",
		Help: "Orders accepted and persisted.",
	})
	StatusUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrcafe_order_status_updates_total",
		Help: "Order status transitions applied.",
	})
	StatusConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrcafe_order_status_conflicts_total",
		Help: "Conditional status updates rejected by the concurrency guard.",
	})
	SnapshotPushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrcafe_snapshot_pushes_total",
		Help: "Snapshot fan-out cycles completed.",
	})
	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "qrcafe_snapshot_subscribers",
		Help: "Currently registered live subscriber connections.",
	})
)

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
