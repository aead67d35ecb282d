package telemetry

import (
	"context"
	"os"
	"sort"
	"strings"

	"evm-tools/pkg/common/iface"
)

// EnvVar selects the telemetry client. "log" writes metrics through the logger; anything else disables telemetry.
const EnvVar = "EVM_TOOLS_TELEMETRY"

// Client defines the interface for telemetry operations
type Client interface {
	// AddMetric emits a single metric
	AddMetric(ctx context.Context, metric Metric) error
	// Close cleans up any resources
	Close() error
}

type contextKey struct{}

func WithContext(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, contextKey{}, client)
}

func ClientFromContext(ctx context.Context) (Client, bool) {
	client, ok := ctx.Value(contextKey{}).(Client)
	return client, ok
}

// NewClientFromEnv returns the client selected by EVM_TOOLS_TELEMETRY.
func NewClientFromEnv(log iface.Logger) Client {
	if strings.EqualFold(strings.TrimSpace(os.Getenv(EnvVar)), "log") {
		return NewLogClient(log)
	}
	return NewNoopClient()
}

// NoopClient drops every metric.
type NoopClient struct{}

func NewNoopClient() *NoopClient { return &NoopClient{} }

func (*NoopClient) AddMetric(context.Context, Metric) error { return nil }

func (*NoopClient) Close() error { return nil }

// LogClient writes each metric as an info line tagged with the telemetry actor.
type LogClient struct {
	log iface.Logger
}

func NewLogClient(log iface.Logger) *LogClient {
	return &LogClient{log: log}
}

func (c *LogClient) AddMetric(_ context.Context, metric Metric) error {
	keys := make([]string, 0, len(metric.Dimensions))
	for k := range metric.Dimensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(metric.Dimensions[k])
	}
	c.log.InfoWithActor(iface.ActorTelemetry, "%s=%g%s", metric.Name, metric.Value, b.String())
	return nil
}

func (c *LogClient) Close() error { return nil }
