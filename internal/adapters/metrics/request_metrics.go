package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
)

// requestCollector is the collector used by PrometheusMiddleware when none is passed
var requestCollector *RequestMetricsCollector

// RequestMetricsCollector handles mediator request metrics
type RequestMetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

// NewRequestMetricsCollector creates a new request metrics collector
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "request_duration_seconds",
				Help:      "Request handling duration distribution",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"request", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "requests_total",
				Help:      "Total number of requests handled by type and status",
			},
			[]string{"request", "status"},
		),
	}
}

// Register registers all request metrics with the Prometheus registry
func (c *RequestMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, metric := range []prometheus.Collector{c.requestDuration, c.requestsTotal} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest records one handled request
func (c *RequestMetricsCollector) RecordRequest(requestName string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.requestDuration.WithLabelValues(requestName, status).Observe(duration)
	c.requestsTotal.WithLabelValues(requestName, status).Inc()
}

// SetRequestCollector sets the collector returned by GetRequestCollector
func SetRequestCollector(collector *RequestMetricsCollector) {
	requestCollector = collector
}

// GetRequestCollector returns the global request collector, or nil
func GetRequestCollector() *RequestMetricsCollector {
	return requestCollector
}

// PrometheusMiddleware records duration and outcome of every mediator request.
// A nil collector turns it into a pass-through.
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordRequest(extractRequestName(request), time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// extractRequestName strips the pointer and package prefix:
// "*types.AdvanceTicksCommand" becomes "AdvanceTicksCommand"
func extractRequestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
