package tracing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/embedhub/embedhub/internal/contexts"
)

type Config struct {
	// TraceHeader overrides the header carrying the caller trace id.
	TraceHeader string `conf:"trace_header" yaml:"trace_header" json:"trace_header"`
	// RequestHeader overrides the response header carrying the request id.
	RequestHeader string `conf:"request_header" yaml:"request_header" json:"request_header"`
}

// Default header names, used when none are configured.
const (
	DefaultTraceHeader   = "EH-Trace-Id"
	DefaultRequestHeader = "EH-Request-Id"
)

// Header returns the configured trace header name.
func (c Config) Header() string {
	if c.TraceHeader != "" {
		return c.TraceHeader
	}

	return DefaultTraceHeader
}

// RequestIDHeader returns the configured request id header name.
func (c Config) RequestIDHeader() string {
	if c.RequestHeader != "" {
		return c.RequestHeader
	}

	return DefaultRequestHeader
}

// GenerateTraceID generates a trace id, formatted as eh-{{uuid}}.
func GenerateTraceID() string {
	return fmt.Sprintf("eh-%s", uuid.New().String())
}

// GenerateRequestID generates a request id, formatted as ehr-{{uuid}}.
func GenerateRequestID() string {
	return fmt.Sprintf("ehr-%s", uuid.New().String())
}

// WithTraceID stores the trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return contexts.WithTraceID(ctx, traceID)
}

// GetTraceID gets the trace id from the context.
func GetTraceID(ctx context.Context) (string, bool) {
	return contexts.GetTraceID(ctx)
}

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return contexts.WithRequestID(ctx, requestID)
}

// GetRequestID gets the request id from the context.
func GetRequestID(ctx context.Context) (string, bool) {
	return contexts.GetRequestID(ctx)
}

// WithOperationName stores the operation name in the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	return contexts.WithOperationName(ctx, name)
}

// GetOperationName gets the operation name from the context.
func GetOperationName(ctx context.Context) (string, bool) {
	return contexts.GetOperationName(ctx)
}
