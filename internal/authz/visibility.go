package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/scopes"
)

// Visibility is the list-scoping predicate derived from the principal's
// permissions. The query engine intersects it with the caller's filters.
type Visibility struct {
	// OwnerOnly restricts results to resources owned by OwnerID.
	OwnerOnly bool
	OwnerID   uuid.UUID
	// IncludePublic additionally admits public-read resources when the
	// visibility is owner-restricted.
	IncludePublic bool
}

// Unrestricted reports whether no owner restriction applies.
func (v Visibility) Unrestricted() bool {
	return !v.OwnerOnly
}

// ListVisibility derives the visibility predicate for listing a resource
// type. Principals with any or manage see everything; own-only principals
// are hard-restricted to their own resources, optionally widened to
// public-read rows. Principals without a list permission are denied.
func ListVisibility(ctx context.Context, resource scopes.Resource, includePublic bool) (Visibility, error) {
	p, ok := GetPrincipal(ctx)
	if !ok || p.Type == PrincipalTypeUnknown {
		return Visibility{}, errs.Unauthenticated("no principal resolved for request")
	}

	if HasManage(ctx, resource) || HasPermission(ctx, resource, scopes.ActionList, scopes.VariantAny) {
		return Visibility{}, nil
	}

	if HasPermission(ctx, resource, scopes.ActionList, scopes.VariantOwn) {
		actorID, hasActor := ActorOwnerID(ctx)
		if !hasActor {
			return Visibility{}, errs.PermissionDeniedf("principal %s has no owner identity to list %s", p.String(), resource)
		}

		return Visibility{
			OwnerOnly:     true,
			OwnerID:       actorID,
			IncludePublic: includePublic,
		}, nil
	}

	return Visibility{}, errs.PermissionDeniedf("principal %s may not list %s", p.String(), resource)
}
