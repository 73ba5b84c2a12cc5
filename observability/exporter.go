package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// MetricsExporter owns a meter provider which the collection stats, e.g.
// the LRU cache stats, are recorded to.
type MetricsExporter struct {
	mp *metric.MeterProvider
}

func (exp *MetricsExporter) MeterProvider() *metric.MeterProvider {
	return exp.mp
}

// SetGlobal installs the meter provider as the otel global one.
func (exp *MetricsExporter) SetGlobal() {
	otel.SetMeterProvider(exp.mp)
}

// Flush exports the pending metrics immediately.
func (exp *MetricsExporter) Flush(ctx context.Context) error {
	return exp.mp.ForceFlush(ctx)
}

func (exp *MetricsExporter) Shutdown(ctx context.Context) error {
	return exp.mp.Shutdown(ctx)
}

// NewConsoleMetricsExporter serves for test/dev environment.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*MetricsExporter, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	return &MetricsExporter{mp: mp}, nil
}

// NewPrometheusMetricsExporter serves for the product environment and
// the stats metrics are fetched by HTTP. A nil registerer is the
// prometheus default one.
func NewPrometheusMetricsExporter(reg promclient.Registerer) (*MetricsExporter, error) {
	opts := make([]prometheus.Option, 0, 1)
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	return &MetricsExporter{mp: mp}, nil
}
