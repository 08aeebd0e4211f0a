package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Events creates spans for application-level operations. Spans are no-ops until
// InitTracer installs a provider.
type Events struct {
	tracer trace.Tracer
}

var defaultEvents = &Events{tracer: otel.Tracer("localfeat.events")}

// GetEvents returns the shared event tracer
func GetEvents() *Events {
	return defaultEvents
}

// FeedReadAttrs describes a nearby-feed read
type FeedReadAttrs struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Hashtag   string
	Search    string
	Limit     int
	Offset    int
}

// TraceFeedRead starts a span for a nearby feed query
func (e *Events) TraceFeedRead(ctx context.Context, attrs FeedReadAttrs) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "feed.read",
		trace.WithAttributes(
			attribute.Float64("feed.latitude", attrs.Latitude),
			attribute.Float64("feed.longitude", attrs.Longitude),
			attribute.Float64("feed.radius_km", attrs.RadiusKm),
			attribute.Bool("feed.has_hashtag", attrs.Hashtag != ""),
			attribute.Bool("feed.has_search", attrs.Search != ""),
			attribute.Int("feed.limit", attrs.Limit),
			attribute.Int("feed.offset", attrs.Offset),
		),
	)
}

// TraceCreatePost starts a span for post creation
func (e *Events) TraceCreatePost(ctx context.Context, authorID string, hashtagCount int) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "post.create",
		trace.WithAttributes(
			attribute.String("post.author_id", authorID),
			attribute.Int("post.hashtag_count", hashtagCount),
		),
	)
}

// TraceReaction starts a span for a like or reaction change on a post or comment
func (e *Events) TraceReaction(ctx context.Context, target, targetID, action, emoji string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "reaction."+action,
		trace.WithAttributes(
			attribute.String("reaction.target", target),
			attribute.String("reaction.target_id", targetID),
			attribute.String("reaction.emoji", emoji),
		),
	)
}

// TraceSweep starts a span for one expiry sweep
func (e *Events) TraceSweep(ctx context.Context, targets int) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "sweeper.run",
		trace.WithAttributes(attribute.Int("sweeper.targets", targets)),
	)
}

// TraceBotAction starts a span for a bot-generated post, comment or reaction
func (e *Events) TraceBotAction(ctx context.Context, action, botID string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "bot."+action,
		trace.WithAttributes(attribute.String("bot.id", botID)),
	)
}

// EndSpan records err on span (if any) and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
