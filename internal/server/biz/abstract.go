package biz

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/embedhub/embedhub/internal/authz"
	"github.com/embedhub/embedhub/internal/store"
)

// AbstractService carries the collaborators every resource service needs.
type AbstractService struct {
	store store.Store
	clock store.Clock
}

// now returns the audit timestamp for the current operation.
func (a *AbstractService) now() time.Time {
	return a.clock.Now()
}

// actorID returns the identity recorded in audit fields. System principals
// stamp the nil UUID.
func (a *AbstractService) actorID(ctx context.Context) uuid.UUID {
	if id, ok := authz.ActorOwnerID(ctx); ok {
		return id
	}

	return uuid.Nil
}
