package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the extraction pipeline
type Registry struct {
	// Extraction metrics
	ExtractionsTotal       *prometheus.CounterVec
	ExtractionDuration     *prometheus.HistogramVec
	NetworksExtractedTotal prometheus.Counter
	NetworkVertices        prometheus.Histogram
	NetworkEdges           prometheus.Histogram

	// Catalog metrics
	CatalogOperationsTotal   *prometheus.CounterVec
	CatalogOperationDuration *prometheus.HistogramVec
	ArchiveUploadsTotal      *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a metrics registry with all metrics registered
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initExtractionMetrics()
	r.initCatalogMetrics()
	return r
}

// Gatherer exposes the underlying prometheus registry for scraping
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
