package http

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID returns a context whose requests carry requestID as their
// client request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the client request id attached to ctx.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey{}).(string)

	return requestID
}

func newRequestID() string {
	return uuid.NewString()
}

// RequestSettings is the scope of one logical operation. Every request issued
// with its context shares one correlation id. Nested scopes reuse the id of
// the enclosing one.
type RequestSettings struct {
	ctx       context.Context //nolint:containedctx // scope owns the derived context until Close
	operation string
	requestID string
	started   time.Time
	logger    Logger
	nested    bool
}

// BeginOperation opens a request settings scope. Callers must Close it,
// normally with defer.
func (c *Client) BeginOperation(ctx context.Context, operation string) *RequestSettings {
	settings := &RequestSettings{
		operation: operation,
		started:   time.Now(),
	}

	if c.debug {
		settings.logger = c.logger
	}

	if existing := RequestIDFromContext(ctx); existing != "" {
		settings.ctx = ctx
		settings.requestID = existing
		settings.nested = true

		return settings
	}

	settings.requestID = newRequestID()
	settings.ctx = WithRequestID(ctx, settings.requestID)

	if settings.logger != nil {
		settings.logger.Debug("Operation started", map[string]interface{}{
			"operation":  operation,
			"request_id": settings.requestID,
		})
	}

	return settings
}

// Context returns the context carrying the scope's correlation id.
func (s *RequestSettings) Context() context.Context {
	return s.ctx
}

// RequestID returns the scope's correlation id.
func (s *RequestSettings) RequestID() string {
	return s.requestID
}

// Close ends the scope.
func (s *RequestSettings) Close() {
	if s.nested || s.logger == nil {
		return
	}

	s.logger.Debug("Operation finished", map[string]interface{}{
		"operation":  s.operation,
		"request_id": s.requestID,
		"duration":   time.Since(s.started).String(),
	})
}
