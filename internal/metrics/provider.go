// Package metrics provides OpenTelemetry instruments exported in Prometheus format for
// device registry operations, device announcements and HTTP requests.
package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Provider owns a private Prometheus registry. OpenTelemetry instruments created from
// its meter provider are exported into it next to Go runtime, process and connection
// pool collectors, so /metrics never mixes in the global default registry.
type Provider struct {
	namespace     string
	meterProvider *metric.MeterProvider
	registry      *prometheus.Registry
}

// NewProvider creates a provider whose runtime collectors are prefixed by namespace.
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	processCollector := collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace})
	if err := registry.Register(processCollector); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	return &Provider{
		namespace:     namespace,
		meterProvider: metric.NewMeterProvider(metric.WithReader(exporter)),
		registry:      registry,
	}, nil
}

// RegisterDBStats exports the connection pool statistics of db labeled with dbName.
func (p *Provider) RegisterDBStats(db *sql.DB, dbName string) error {
	if err := p.registry.Register(collectors.NewDBStatsCollector(db, dbName)); err != nil {
		return fmt.Errorf("failed to register db stats collector: %w", err)
	}
	return nil
}

// Handler serves the registry in Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Namespace is the prefix shared by every instrument of this provider.
func (p *Provider) Namespace() string {
	return p.namespace
}

// MeterProvider returns the OpenTelemetry meter provider backing this registry.
func (p *Provider) MeterProvider() otelmetric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
