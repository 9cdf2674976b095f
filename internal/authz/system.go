package authz

import (
	"context"

	"github.com/embedhub/embedhub/internal/log"
)

// RunWithSystemBypass runs fn with a system principal on a detached
// authorization context. Used for internal operations that have no acting
// user, such as credential lookup during authentication. The operation name
// is logged for audit.
func RunWithSystemBypass[T any](ctx context.Context, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	log.Debug(ctx, "authz: system bypass", log.String("operation", operation))

	bypassCtx := context.WithValue(ctx, principalKey{}, Principal{Type: PrincipalTypeSystem})

	return fn(bypassCtx)
}
