package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds HTTP tracing configuration
type TracingConfig struct {
	ServiceName string
	// SkipPaths are not traced (health checks)
	SkipPaths []string
}

// Tracing starts a server span per request through otelgin, continuing any
// W3C traceparent sent by the caller. The span lands in the request context,
// where the request logger picks up its trace ID. Once the handler has run
// the span gets the request ID, the acting administrator and an error status
// on 5xx responses.
//
// otelgin ends the span and restores the request context when it returns,
// so the annotation runs as a second handler inside its chain.
func Tracing(cfg TracingConfig) gin.HandlersChain {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	base := otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, skipped := skip[r.URL.Path]
		return !skipped
	}))

	return gin.HandlersChain{base, annotateSpan}
}

func annotateSpan(c *gin.Context) {
	c.Next()

	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	if id := c.GetString(RequestIDKey); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if actor, ok := GetActor(c); ok {
		span.SetAttributes(attribute.String("actor_id", actor.ID.String()))
	}
	if c.Writer.Status() >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(c.Writer.Status()))
	}
}
