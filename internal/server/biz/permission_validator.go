package biz

import (
	"context"

	"github.com/embedhub/embedhub/internal/authz"
	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/scopes"
)

// PermissionValidator provides methods to validate permission hierarchies.
type PermissionValidator struct{}

// NewPermissionValidator creates a new PermissionValidator.
func NewPermissionValidator() *PermissionValidator {
	return &PermissionValidator{}
}

// CanGrantScopes checks if the current principal can grant the specified
// scope slugs. Rule: principals can only grant scopes they possess
// themselves, unless they hold manage on users.
func (v *PermissionValidator) CanGrantScopes(ctx context.Context, scopesToGrant []string) error {
	for _, slug := range scopesToGrant {
		if !scopes.IsValid(slug) {
			return errs.InvalidArgumentf("unknown scope %q", slug)
		}
	}

	if authz.HasManage(ctx, scopes.ResourceUsers) {
		return nil
	}

	own := authz.PermissionSet(ctx)

	for _, slug := range scopesToGrant {
		if !possesses(own, scopes.Permission(slug)) {
			return errs.PermissionDeniedf("cannot grant scope %q that you don't possess", slug)
		}
	}

	return nil
}

// CanGrantRoles checks if the current principal can grant the given role
// codes, by validating the scopes each role carries.
func (v *PermissionValidator) CanGrantRoles(ctx context.Context, roleCodes []string) error {
	for _, code := range roleCodes {
		role, ok := scopes.RoleByCode(code)
		if !ok {
			return errs.InvalidArgumentf("unknown role %q", code)
		}

		roleScopes := make([]string, len(role.Scopes))
		for i, s := range role.Scopes {
			roleScopes[i] = string(s)
		}

		if err := v.CanGrantScopes(ctx, roleScopes); err != nil {
			return err
		}
	}

	return nil
}

// CanEditUserPermissions checks if the current principal can change another
// user's roles or scopes. The bootstrap owner can only be edited by a
// principal holding manage on users.
func (v *PermissionValidator) CanEditUserPermissions(ctx context.Context, target *objects.User) error {
	if authz.HasManage(ctx, scopes.ResourceUsers) {
		return nil
	}

	if target.IsOwner {
		return errs.PermissionDeniedf("cannot edit the bootstrap owner's permissions")
	}

	own := authz.PermissionSet(ctx)

	for _, slug := range scopes.UnionRoles(target.Roles, target.Scopes).Slugs() {
		if !possesses(own, scopes.Permission(slug)) {
			return errs.PermissionDeniedf("target user has scope %q that you don't possess", slug)
		}
	}

	return nil
}

func possesses(set scopes.Set, p scopes.Permission) bool {
	if set.Has(p) {
		return true
	}

	if resource, _, _, ok := scopes.Parse(p); ok {
		return set.Has(scopes.Manage(resource))
	}

	return false
}
