package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/util"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware wraps otelgin and adds LocalFeat span attributes
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	base := otelgin.Middleware(serviceName)

	return func(c *gin.Context) {
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		if userID := c.GetString(util.ContextUserID); userID != "" {
			span.SetAttributes(attribute.String("user.id", userID))
		}
		if hashtag := c.Query("hashtag"); hashtag != "" {
			span.SetAttributes(attribute.String("feed.hashtag", hashtag))
		}
		if limit := c.Query("limit"); limit != "" {
			span.SetAttributes(attribute.String("query.limit", limit))
		}
		if offset := c.Query("offset"); offset != "" {
			span.SetAttributes(attribute.String("query.offset", offset))
		}

		for _, ginErr := range c.Errors {
			if ginErr.Err != nil {
				span.RecordError(ginErr.Err, trace.WithStackTrace(true))
				span.SetStatus(codes.Error, ginErr.Error())
			}
		}
	}
}
