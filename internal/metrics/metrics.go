// Package metrics exposes Prometheus counters for the upload service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Collector holds the service metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registry      *prometheus.Registry
	uploads       *prometheus.CounterVec
	uploadedBytes prometheus.Counter
	listRequests  *prometheus.CounterVec
}

// New creates a Collector with its own registry, so several servers can
// coexist in one process (tests).
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uploader",
			Name:      "uploads_total",
			Help:      "Upload attempts by outcome.",
		}, []string{"outcome"}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uploader",
			Name:      "uploaded_bytes_total",
			Help:      "Bytes written to the upload volume.",
		}),
		listRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uploader",
			Name:      "list_requests_total",
			Help:      "File listing requests by result.",
		}, []string{"result"}),
	}
	c.registry.MustRegister(
		c.uploads,
		c.uploadedBytes,
		c.listRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// RecordUpload counts one upload attempt.
func (c *Collector) RecordUpload(outcome string, bytes int64) {
	if c == nil {
		return
	}
	c.uploads.WithLabelValues(outcome).Inc()
	if bytes > 0 {
		c.uploadedBytes.Add(float64(bytes))
	}
}

// RecordList counts one listing request.
func (c *Collector) RecordList(ok bool) {
	if c == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	c.listRequests.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler for the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
