package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/todo/internal/config"
)

func TestInitNone(t *testing.T) {
	p, err := Init(context.Background(), config.TelemetryConfig{Exporter: config.ExporterNone})
	require.NoError(t, err)

	_, span := p.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid(), "none exporter should produce no-op spans")
	span.End()

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInitStdoutWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	p, err := Init(context.Background(),
		config.TelemetryConfig{Exporter: config.ExporterStdout, ServiceName: "todo-test"},
		WithStdoutWriter(&buf),
	)
	require.NoError(t, err)

	_, span := p.Tracer.Start(context.Background(), "docstore.insert")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// Shutdown flushes the batcher.
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "docstore.insert")
	assert.Contains(t, buf.String(), "todo-test")
}

func TestInitOTLPHTTP(t *testing.T) {
	// The exporter connects lazily, so Init succeeds without a collector.
	p, err := Init(context.Background(), config.TelemetryConfig{Exporter: config.ExporterOTLPHTTP})
	require.NoError(t, err)
	assert.NotNil(t, p.Tracer)
}

func TestInitUnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), config.TelemetryConfig{Exporter: "zipkin"})
	assert.Error(t, err)
}

func TestNilProviderShutdown(t *testing.T) {
	var p *Provider
	assert.NoError(t, p.Shutdown(context.Background()))
}
