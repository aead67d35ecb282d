package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MetricsContext collects the metrics of one command invocation.
type MetricsContext struct {
	mu sync.Mutex

	StartTime   time.Time         `json:"start_time"`
	RootCommand string            `json:"root_command"`
	Subcommand  string            `json:"subcommand"`
	Metrics     []Metric          `json:"metrics"`
	Properties  map[string]string `json:"properties"`
}

// Metric is a single named value with optional dimensions.
type Metric struct {
	Value      float64           `json:"value"`
	Name       string            `json:"name"`
	Dimensions map[string]string `json:"dimensions"`
}

type metricsContextKey struct{}

// ErrNoMetricsContext is returned when a context carries no metrics.
var ErrNoMetricsContext = errors.New("no metrics context")

func WithMetricsContext(ctx context.Context, metrics *MetricsContext) context.Context {
	return context.WithValue(ctx, metricsContextKey{}, metrics)
}

// MetricsFromContext returns the metrics context, or a detached empty one and ErrNoMetricsContext.
func MetricsFromContext(ctx context.Context) (*MetricsContext, error) {
	metrics, ok := ctx.Value(metricsContextKey{}).(*MetricsContext)
	if !ok {
		return NewMetricsContext("", ""), ErrNoMetricsContext
	}
	return metrics, nil
}

func NewMetricsContext(rootCommand, subcommand string) *MetricsContext {
	return &MetricsContext{
		StartTime:   time.Now(),
		RootCommand: rootCommand,
		Subcommand:  subcommand,
		Metrics:     make([]Metric, 0),
		Properties:  make(map[string]string),
	}
}

func (m *MetricsContext) AddMetric(name string, value float64) {
	m.AddMetricWithDimensions(name, value, nil)
}

func (m *MetricsContext) AddMetricWithDimensions(name string, value float64, dimensions map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dimensions == nil {
		dimensions = make(map[string]string)
	}
	m.Metrics = append(m.Metrics, Metric{
		Name:       name,
		Value:      value,
		Dimensions: dimensions,
	})
}

func (m *MetricsContext) SetProperty(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Properties[key] = value
}

// Snapshot copies the collected metrics with the shared properties merged into each metric's dimensions.
func (m *MetricsContext) Snapshot() []Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Metric, 0, len(m.Metrics))
	for _, metric := range m.Metrics {
		dims := make(map[string]string, len(m.Properties)+len(metric.Dimensions))
		for k, v := range m.Properties {
			dims[k] = v
		}
		for k, v := range metric.Dimensions {
			dims[k] = v
		}
		out = append(out, Metric{Name: metric.Name, Value: metric.Value, Dimensions: dims})
	}
	return out
}

// Find returns every metric with the given name.
func (m *MetricsContext) Find(name string) []Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Metric
	for _, metric := range m.Metrics {
		if metric.Name == name {
			out = append(out, metric)
		}
	}
	return out
}
