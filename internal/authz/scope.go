package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/embedhub/embedhub/internal/contexts"
	"github.com/embedhub/embedhub/internal/scopes"
)

// HasPermission reports whether the current principal holds the
// (resource, action, variant) permission. Absence is false, never an error.
func HasPermission(ctx context.Context, resource scopes.Resource, action scopes.Action, variant scopes.Variant) bool {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return false
	}

	switch p.Type {
	case PrincipalTypeSystem, PrincipalTypeTest:
		return true
	case PrincipalTypeUser:
		return userPermissions(ctx).Allows(resource, action, variant)
	case PrincipalTypeAPIKey:
		return apiKeyPermissions(ctx).Allows(resource, action, variant)
	default:
		return false
	}
}

// HasManage reports whether the current principal holds the manage shortcut
// for the resource.
func HasManage(ctx context.Context, resource scopes.Resource) bool {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return false
	}

	switch p.Type {
	case PrincipalTypeSystem, PrincipalTypeTest:
		return true
	case PrincipalTypeUser:
		return userPermissions(ctx).Has(scopes.Manage(resource))
	case PrincipalTypeAPIKey:
		return apiKeyPermissions(ctx).Has(scopes.Manage(resource))
	default:
		return false
	}
}

// PermissionSet returns the effective permission set of the current
// principal. System and test principals get the manage shortcut for every
// resource.
func PermissionSet(ctx context.Context) scopes.Set {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return nil
	}

	switch p.Type {
	case PrincipalTypeSystem, PrincipalTypeTest:
		return manageAllSet()
	case PrincipalTypeUser:
		return userPermissions(ctx)
	case PrincipalTypeAPIKey:
		return apiKeyPermissions(ctx)
	default:
		return nil
	}
}

// ActorOwnerID returns the owner identity the principal acts as: the user id
// for user principals, the key owner id for API key principals.
func ActorOwnerID(ctx context.Context) (uuid.UUID, bool) {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return uuid.Nil, false
	}

	switch p.Type {
	case PrincipalTypeUser:
		if user, ok := contexts.GetUser(ctx); ok {
			return user.ID, true
		}
	case PrincipalTypeAPIKey:
		if apiKey, ok := contexts.GetAPIKey(ctx); ok {
			return apiKey.OwnerID, true
		}
	}

	return uuid.Nil, false
}

func userPermissions(ctx context.Context) scopes.Set {
	user, ok := contexts.GetUser(ctx)
	if !ok || user == nil {
		return nil
	}

	// The bootstrap owner can do everything.
	if user.IsOwner {
		return manageAllSet()
	}

	return scopes.UnionRoles(user.Roles, user.Scopes)
}

func manageAllSet() scopes.Set {
	set := scopes.Set{}
	for _, resource := range scopes.AllResources {
		set[scopes.Manage(resource)] = struct{}{}
	}

	return set
}

func apiKeyPermissions(ctx context.Context) scopes.Set {
	apiKey, ok := contexts.GetAPIKey(ctx)
	if !ok || apiKey == nil {
		return nil
	}

	return scopes.NewSetFromStrings(apiKey.Scopes)
}
