/*
metrics.go - Prometheus counters for the API surface

PURPOSE:
  Operational counters only. The engine packages stay metric-free; the
  API layer counts what crosses its boundary.
*/
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_events_imported_total",
		Help: "Punches accepted by the import endpoint after bounce filtering.",
	})
	eventsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_events_discarded_total",
		Help: "Punches dropped by the double-punch filter at import.",
	})
	paystubsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_paystubs_built_total",
		Help: "Paystub computations served (JSON and PDF).",
	})
	dashboardsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_dashboards_built_total",
		Help: "Weekly dashboard computations served.",
	})
)
