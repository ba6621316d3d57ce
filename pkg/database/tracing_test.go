package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	return exporter
}

func TestTraceQuery_RecordsSpanAttributes(t *testing.T) {
	exporter := setupTestTracer(t)

	_, end := TraceQuery(context.Background(), "ListReviewsByProduct", "SELECT * FROM reviews WHERE product_id = $1")
	end(nil)

	spans := exporter.GetSpans()
	require.NotEmpty(t, spans)

	span := spans[0]
	assert.Equal(t, "db.ListReviewsByProduct", span.Name)

	attrs := make(map[string]string)
	for _, a := range span.Attributes {
		attrs[string(a.Key)] = a.Value.Emit()
	}
	assert.Equal(t, "postgresql", attrs["db.system"])
	assert.Equal(t, "ListReviewsByProduct", attrs["db.operation"])
	assert.Equal(t, "SELECT * FROM reviews WHERE product_id = $1", attrs["db.statement"])
	assert.EqualValues(t, 0, span.Status.Code) // codes.Unset
}

func TestTraceQuery_ErrorSetsStatus(t *testing.T) {
	exporter := setupTestTracer(t)

	_, end := TraceQuery(context.Background(), "CreateReview", "INSERT INTO reviews ...")
	end(errors.New("duplicate key value violates unique constraint"))

	spans := exporter.GetSpans()
	require.NotEmpty(t, spans)

	span := spans[0]
	assert.EqualValues(t, 1, span.Status.Code) // codes.Error
	assert.NotEmpty(t, span.Events, "error should be recorded as a span event")
}

func TestSlowQueryLogging(t *testing.T) {
	setupTestTracer(t)
	t.Cleanup(func() { SetSlowQueryLogging(0, nil) })

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	SetSlowQueryLogging(1*time.Nanosecond, logger)

	_, end := TraceQuery(context.Background(), "RecomputeSummary", "SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = $1")
	end(nil)

	out := buf.String()
	assert.True(t, strings.Contains(out, "slow query detected"), "got: %s", out)
	assert.True(t, strings.Contains(out, "RecomputeSummary"), "got: %s", out)
}

func TestSlowQueryLogging_FastQueryNotLogged(t *testing.T) {
	setupTestTracer(t)
	t.Cleanup(func() { SetSlowQueryLogging(0, nil) })

	var buf bytes.Buffer
	SetSlowQueryLogging(time.Hour, slog.New(slog.NewJSONHandler(&buf, nil)))

	_, end := TraceQuery(context.Background(), "GetProduct", "SELECT 1")
	end(nil)

	assert.NotContains(t, buf.String(), "slow query detected")
}

func TestSlowQueryLogging_DisabledDoesNotPanic(t *testing.T) {
	setupTestTracer(t)
	SetSlowQueryLogging(0, nil)

	_, end := TraceQuery(context.Background(), "AnyOp", "SELECT 1")
	end(nil)
}
