package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestToOTelAttributes(t *testing.T) {
	got := toOTelAttributes([]Attribute{
		String("content.op", "blog_by_slug"),
		Int("http.status", 200),
		Bool("cache.hit", false),
		{Key: "ignored", Value: struct{}{}},
	})

	assert.Equal(t, []attribute.KeyValue{
		attribute.String("content.op", "blog_by_slug"),
		attribute.Int("http.status", 200),
		attribute.Bool("cache.hit", false),
	}, got)
	assert.Nil(t, toOTelAttributes(nil))
}

func TestOTelTracerWithNoopProvider(t *testing.T) {
	tr := NewOTel("paraiso/test", WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	ctx, span := tr.Start(context.Background(), "content.token", String("k", "v"))
	assert.NotNil(t, ctx)
	span.SetAttributes(Int("attempt", 1))
	span.End(errors.New("boom"))
}

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	got, span := NoopTracer{}.Start(ctx, "anything")
	assert.Equal(t, ctx, got)
	span.End(nil)
}
