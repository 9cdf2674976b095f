package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/scopes"
)

// ResolveOwner determines the intended owner of a resource being created.
// requestedOwner is the raw owner id from the request, possibly empty.
// Format validation precedes authorization: a malformed id fails with
// InvalidArgument before any permission is evaluated. Creating on behalf of
// another owner requires the any variant of create, or manage.
func ResolveOwner(ctx context.Context, resource scopes.Resource, requestedOwner string) (uuid.UUID, error) {
	p, ok := GetPrincipal(ctx)
	if !ok || p.Type == PrincipalTypeUnknown {
		return uuid.Nil, errs.Unauthenticated("no principal resolved for request")
	}

	actorID, hasActor := ActorOwnerID(ctx)

	if requestedOwner == "" {
		if !hasActor {
			// System principals have no identity of their own; they must
			// name the owner explicitly.
			return uuid.Nil, errs.InvalidArgumentf("owner id is required for %s principal", p.Type)
		}

		return actorID, nil
	}

	ownerID, err := uuid.Parse(requestedOwner)
	if err != nil {
		return uuid.Nil, errs.InvalidArgumentf("malformed owner id %q", requestedOwner)
	}

	if hasActor && ownerID == actorID {
		return ownerID, nil
	}

	if HasManage(ctx, resource) || HasPermission(ctx, resource, scopes.ActionCreate, scopes.VariantAny) {
		return ownerID, nil
	}

	return uuid.Nil, errs.PermissionDeniedf("principal %s may not create %s on behalf of %s", p.String(), resource, ownerID)
}
