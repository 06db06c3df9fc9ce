package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records chatbot activity on a private Prometheus registry.
type Collector struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	selectionsTotal    *prometheus.CounterVec
	storageCount       *prometheus.GaugeVec
	registry           *prometheus.Registry
}

// NewCollector creates the collector and registers every series.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	resolutionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqbot_resolutions_total",
			Help: "Processed chat messages by resolution outcome",
		},
		[]string{"outcome"},
	)

	resolutionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "faqbot_resolution_duration_seconds",
			Help:    "Time spent resolving a chat message",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5},
		},
		[]string{"outcome"},
	)

	selectionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqbot_selections_total",
			Help: "Suggested question selections by status",
		},
		[]string{"status"},
	)

	storageCount := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "faqbot_storage_count",
			Help: "Current count of stored records by collection",
		},
		[]string{"collection"},
	)

	registry.MustRegister(resolutionsTotal)
	registry.MustRegister(resolutionDuration)
	registry.MustRegister(selectionsTotal)
	registry.MustRegister(storageCount)

	return &Collector{
		resolutionsTotal:   resolutionsTotal,
		resolutionDuration: resolutionDuration,
		selectionsTotal:    selectionsTotal,
		storageCount:       storageCount,
		registry:           registry,
	}
}

// ObserveResolution counts one resolve call and its latency.
func (c *Collector) ObserveResolution(outcome string, elapsed time.Duration) {
	c.resolutionsTotal.WithLabelValues(outcome).Inc()
	c.resolutionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveSelection counts one suggested question selection.
func (c *Collector) ObserveSelection(status string) {
	c.selectionsTotal.WithLabelValues(status).Inc()
}

// SetStorageCounts publishes the latest collection sizes.
func (c *Collector) SetStorageCounts(pairs, associations int) {
	c.storageCount.WithLabelValues("qa_pairs").Set(float64(pairs))
	c.storageCount.WithLabelValues("question_associations").Set(float64(associations))
}

// Registry returns the Prometheus registry for HTTP exposure.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
