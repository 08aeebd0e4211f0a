package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/localfeat/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingEvents() (*Events, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return &Events{tracer: tp.Tracer("test")}, recorder
}

func TestEvents_SpanNamesAndStatus(t *testing.T) {
	events, recorder := newRecordingEvents()
	ctx := context.Background()

	_, span := events.TraceFeedRead(ctx, FeedReadAttrs{Latitude: 1, Longitude: 2, RadiusKm: 5, Hashtag: "coffee", Limit: 20})
	EndSpan(span, nil)

	_, span = events.TraceReaction(ctx, "post", "p1", "add", "🔥")
	EndSpan(span, errors.New("boom"))

	_, span = events.TraceSweep(ctx, 1)
	EndSpan(span, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 3)
	assert.Equal(t, "feed.read", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Equal(t, "reaction.add", ended[1].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "sweeper.run", ended[2].Name())
}

func TestInitTracer_Disabled(t *testing.T) {
	tp, err := InitTracer(config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	assert.Nil(t, tp)
	assert.NoError(t, Shutdown(context.Background(), nil))
}
