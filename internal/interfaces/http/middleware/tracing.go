package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig configures the HTTP tracing middleware
type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

// Tracing opens a server span for each request via otelgin
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TraceEnrichment tags the active span with the request ID and the
// authenticated user. It must be registered after Tracing; attributes
// are added once the rest of the chain has run, while the request span
// is still open, so values set by later middleware are visible.
func TraceEnrichment() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := c.GetString("request_id"); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if userID := c.GetString(ContextKeyUserID); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}
	}
}
