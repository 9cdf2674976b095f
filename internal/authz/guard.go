package authz

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/log"
	"github.com/embedhub/embedhub/internal/scopes"
)

// Authorize decides whether the current principal may perform action on the
// resource owned by ownerID. The decision order is fixed and short-circuits:
//
//  1. a principal must be present, otherwise Unauthenticated;
//  2. the manage shortcut allows regardless of ownership;
//  3. the owner needs the own or any variant;
//  4. everyone else needs the any variant.
func Authorize(ctx context.Context, resource scopes.Resource, action scopes.Action, ownerID uuid.UUID) error {
	p, ok := GetPrincipal(ctx)
	if !ok || p.Type == PrincipalTypeUnknown {
		return errs.Unauthenticated("no principal resolved for request")
	}

	allowed := decide(ctx, resource, action, ownerID)

	log.Debug(ctx, "authz: decision",
		log.String("principal", p.String()),
		log.String("resource", string(resource)),
		log.String("action", string(action)),
		log.String("owner", ownerID.String()),
		log.String("decision", lo.Ternary(allowed, "allow", "deny")),
	)

	if allowed {
		return nil
	}

	return errs.PermissionDeniedf("principal %s may not %s %s owned by %s", p.String(), action, resource, ownerID)
}

func decide(ctx context.Context, resource scopes.Resource, action scopes.Action, ownerID uuid.UUID) bool {
	if HasManage(ctx, resource) {
		return true
	}

	if actorID, ok := ActorOwnerID(ctx); ok && actorID == ownerID {
		return HasPermission(ctx, resource, action, scopes.VariantOwn) ||
			HasPermission(ctx, resource, action, scopes.VariantAny)
	}

	return HasPermission(ctx, resource, action, scopes.VariantAny)
}
