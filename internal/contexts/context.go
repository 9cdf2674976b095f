package contexts

import (
	"context"

	"github.com/embedhub/embedhub/internal/objects"
)

// ContextKey defines the context key type.
type ContextKey string

const (
	// containerContextKey is used to store the context container in the context.
	containerContextKey ContextKey = "context_container"
)

// WithUser stores the user entity in the context.
func WithUser(ctx context.Context, user *objects.User) context.Context {
	container := getContainer(ctx).clone()
	container.User = user

	return withContainer(ctx, container)
}

// GetUser retrieves the user entity from the context.
func GetUser(ctx context.Context) (*objects.User, bool) {
	container := getContainer(ctx)
	return container.User, container.User != nil
}

// WithAPIKey stores the API key entity in the context.
func WithAPIKey(ctx context.Context, apiKey *objects.APIKey) context.Context {
	container := getContainer(ctx).clone()
	container.APIKey = apiKey

	return withContainer(ctx, container)
}

// GetAPIKey retrieves the API key entity from the context.
func GetAPIKey(ctx context.Context) (*objects.APIKey, bool) {
	container := getContainer(ctx)
	return container.APIKey, container.APIKey != nil
}

// WithTraceID stores the trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	container := getContainer(ctx).clone()
	container.TraceID = &traceID

	return withContainer(ctx, container)
}

// GetTraceID retrieves the trace id from the context.
func GetTraceID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.TraceID != nil {
		return *container.TraceID, true
	}

	return "", false
}

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	container := getContainer(ctx).clone()
	container.RequestID = &requestID

	return withContainer(ctx, container)
}

// GetRequestID retrieves the request id from the context.
func GetRequestID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.RequestID != nil {
		return *container.RequestID, true
	}

	return "", false
}

// WithOperationName stores the operation name in the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	container := getContainer(ctx).clone()
	container.OperationName = &name

	return withContainer(ctx, container)
}

// GetOperationName retrieves the operation name from the context.
func GetOperationName(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.OperationName != nil {
		return *container.OperationName, true
	}

	return "", false
}

// AppendError records an error for the access log. Unlike the other setters
// it mutates the stored container so errors survive handler-local contexts.
func AppendError(ctx context.Context, err error) {
	if c, ok := ctx.Value(containerContextKey).(*container); ok {
		c.Errors = append(c.Errors, err)
	}
}

// GetErrors returns the errors recorded on the request context.
func GetErrors(ctx context.Context) []error {
	return getContainer(ctx).Errors
}
