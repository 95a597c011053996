package pdfctx

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Hit-count buckets cover the usual topK range (default 5) plus large scans.
var searchResultBuckets = []float64{0, 1, 2, 5, 10, 25, 50, 100}

// sdkMetrics are the client-side counterparts of the server's route metrics.
type sdkMetrics struct {
	calls         *prometheus.CounterVec   // operation, status
	latency       *prometheus.HistogramVec // operation
	searchResults prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	calls, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pdfctx",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "Dataset queries issued through the SDK by operation and status.",
	}, []string{"operation", "status"}))
	if err != nil {
		return nil, err
	}
	latency, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pdfctx",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "Time to load the dataset and answer a query.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"}))
	if err != nil {
		return nil, err
	}
	results, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pdfctx",
		Subsystem: "sdk",
		Name:      "search_results",
		Help:      "Number of documents returned per search.",
		Buckets:   searchResultBuckets,
	}))
	if err != nil {
		return nil, err
	}
	return &sdkMetrics{calls: calls, latency: latency, searchResults: results}, nil
}

// register adds c to reg. When an identical collector is already there
// (a second client on the same registry) the existing one is returned.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("pdfctx: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(C)
	if !ok {
		return c, fmt.Errorf("pdfctx: metric already registered as %T", are.ExistingCollector)
	}
	return existing, nil
}

// observer logs and records every query against one dataset file.
// A nil observer, or one without logger or metrics, is a no-op.
type observer struct {
	dataset string
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(dataset string, logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{dataset: dataset, logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// observe records a finished operation.
func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	o.finish(op, time.Since(start), err)
}

// observeSearch records a finished search together with the size of its
// answer. Failed searches record no hit count.
func (o *observer) observeSearch(start time.Time, query string, topK, hits int, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	o.finish("search", dur, err)

	if err != nil {
		return
	}
	if o.metrics != nil {
		o.metrics.searchResults.Observe(float64(hits))
	}
	if o.logger != nil {
		o.logger.Debug("search answered",
			"dataset", o.dataset,
			"query", query,
			"top_k", topK,
			"hits", hits,
			"duration", dur,
		)
	}
}

func (o *observer) finish(op string, dur time.Duration, err error) {
	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.calls.WithLabelValues(op, status).Inc()
		o.metrics.latency.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("dataset query failed",
			"op", op,
			"dataset", o.dataset,
			"duration", dur,
			"error", err,
		)
		return
	}
	if op != "search" {
		o.logger.Debug("dataset query answered",
			"op", op,
			"dataset", o.dataset,
			"duration", dur,
		)
	}
}
