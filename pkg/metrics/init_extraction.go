package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initExtractionMetrics() {
	r.ExtractionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgraph_extractions_total",
			Help: "Total number of model extractions",
		},
		[]string{"mode", "status"},
	)

	r.ExtractionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelgraph_extraction_duration_seconds",
			Help:    "Model extraction duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"mode"},
	)

	r.NetworksExtractedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "modelgraph_networks_extracted_total",
			Help: "Total number of networks produced, including subgraphs and function bodies",
		},
	)

	r.NetworkVertices = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modelgraph_network_vertices",
			Help:    "Vertex count per extracted network",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	r.NetworkEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modelgraph_network_edges",
			Help:    "Edge count per extracted network",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
}
