package obs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/noah-isme/toko-cart/internal/obs"
)

func TestSkipPathSamplerDropsInfrastructureEndpoints(t *testing.T) {
	sampler := obs.NewSkipPathSampler(sdktrace.AlwaysSample(), nil)

	for _, name := range []string{"GET /health/live", "GET /health/ready", "GET /metrics"} {
		res := sampler.ShouldSample(sdktrace.SamplingParameters{ParentContext: context.Background(), Name: name})
		require.Equal(t, sdktrace.Drop, res.Decision, name)
	}
	res := sampler.ShouldSample(sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		Name:          "POST /api/v1/stores/s1/cart/reconcile",
	})
	require.Equal(t, sdktrace.RecordAndSample, res.Decision)
	require.Contains(t, sampler.Description(), "AlwaysOnSampler")
}

func TestPGXTracerTagsStoreAndOutcome(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := obs.PGXTracer{Provider: provider}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("storeID", "store-1")
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, rctx)

	qctx := tracer.TraceQueryStart(ctx, nil, pgx.TraceQueryStartData{
		SQL:  "select id, name from products where store_id = $1",
		Args: []any{"store-1"},
	})
	tracer.TraceQueryEnd(qctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 2")})

	qctx = tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1 FROM customers"})
	tracer.TraceQueryEnd(qctx, nil, pgx.TraceQueryEndData{Err: errors.New("connection reset")})

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	require.Equal(t, "db SELECT", spans[0].Name())
	attrs := attribute.NewSet(spans[0].Attributes()...)
	storeID, ok := attrs.Value("cart.store_id")
	require.True(t, ok)
	require.Equal(t, "store-1", storeID.AsString())
	rows, ok := attrs.Value("db.rows_affected")
	require.True(t, ok)
	require.Equal(t, int64(2), rows.AsInt64())

	_, ok = attribute.NewSet(spans[1].Attributes()...).Value("cart.store_id")
	require.False(t, ok)
	require.Equal(t, codes.Error, spans[1].Status().Code)
}
