package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitNoneIsNoop(t *testing.T) {
	require.NoError(t, Init(DefaultConfig(), nil))

	_, span := StartSpan(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	EndSpan(span, nil)
	assert.NoError(t, Shutdown(context.Background()))
}

func TestInitUnknownExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exporter = "jaeger"
	assert.Error(t, Init(cfg, nil))
}

func TestStdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Exporter = "stdout"
	require.NoError(t, Init(cfg, &buf))

	ctx, span := StartSpan(context.Background(), "chunk.encode", attribute.Int("rows", 3))
	assert.True(t, span.SpanContext().IsValid())
	_, child := StartSpan(ctx, "chunk.compress")
	EndSpan(child, errors.New("boom"))
	EndSpan(span, nil)

	require.NoError(t, Shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "chunk.encode")
	assert.Contains(t, out, "chunk.compress")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "columnar")
}
