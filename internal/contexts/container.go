package contexts

import (
	"context"

	"github.com/embedhub/embedhub/internal/objects"
)

// container carries request-scoped values through the context. A single
// container is stored so repeated With* calls do not stack context layers.
type container struct {
	User          *objects.User
	APIKey        *objects.APIKey
	TraceID       *string
	RequestID     *string
	OperationName *string
	Errors        []error
}

func (c *container) clone() *container {
	if c == nil {
		return &container{}
	}

	cloned := *c

	return &cloned
}

func getContainer(ctx context.Context) *container {
	if c, ok := ctx.Value(containerContextKey).(*container); ok {
		return c
	}

	return &container{}
}

func withContainer(ctx context.Context, c *container) context.Context {
	return context.WithValue(ctx, containerContextKey, c)
}
