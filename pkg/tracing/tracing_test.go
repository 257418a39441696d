package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useSyncProvider 安装同步导出的TracerProvider,span结束即可断言
func useSyncProvider(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(Options{Enabled: false, ServiceName: "bookstore-api"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, otel.GetTextMapPropagator())
}

func TestStartSpan_ParentChild(t *testing.T) {
	exporter := useSyncProvider(t)

	ctx, root := StartSpan(context.Background(), "HTTP GET /books")
	childCtx, child := StartSpan(ctx, "book.list")

	assert.Equal(t, ExtractTraceID(ctx), ExtractTraceID(childCtx))
	assert.NotEqual(t, ExtractSpanID(ctx), ExtractSpanID(childCtx))

	child.SetAttributes(attribute.String("book.search", "go"))
	EndSpan(child, nil)
	EndSpan(root, errors.New("boom"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "book.list", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, "boom", spans[1].Status.Description)
	require.Len(t, spans[1].Events, 1, "错误应记录为span事件")
}

func TestInstall(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := install(tracetest.NewInMemoryExporter(), "bookstore-api-test")
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "book.create")
	assert.NotEmpty(t, ExtractTraceID(ctx))
	EndSpan(span, nil)

	assert.NoError(t, shutdown(context.Background()))
}

func TestExtractIDs_NoSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))
}
