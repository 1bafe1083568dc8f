package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCatalogMetrics() {
	r.CatalogOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgraph_catalog_operations_total",
			Help: "Total number of catalog operations",
		},
		[]string{"operation", "status"},
	)

	r.CatalogOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelgraph_catalog_operation_duration_seconds",
			Help:    "Catalog operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"operation"},
	)

	r.ArchiveUploadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgraph_archive_uploads_total",
			Help: "Total number of archive uploads to object storage",
		},
		[]string{"status"},
	)
}
