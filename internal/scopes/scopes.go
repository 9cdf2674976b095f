// Package scopes defines the permission model: every permission is a
// (resource, action, variant) triple rendered as a slug, plus a per-resource
// manage shortcut that implies every variant of every action on that
// resource. Every user can act on their own data with the own variant, and
// on other users' data only with the any variant or manage.
package scopes

import (
	"fmt"
	"strings"
)

// Resource identifies a resource type managed by the control plane.
type Resource string

const (
	ResourceSpaces    Resource = "spaces"
	ResourceEmbedders Resource = "embedders"
	//nolint:gosec // Not a credential.
	ResourceAPIKeys Resource = "api_keys"
	ResourceUsers   Resource = "users"
)

// AllResources lists every resource type, in a stable order.
var AllResources = []Resource{
	ResourceSpaces,
	ResourceEmbedders,
	ResourceAPIKeys,
	ResourceUsers,
}

// Action is an operation on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// AllActions lists every action, in a stable order.
var AllActions = []Action{
	ActionCreate,
	ActionRead,
	ActionUpdate,
	ActionDelete,
	ActionList,
}

// Variant is the scope over which an action is authorized.
type Variant string

const (
	// VariantOwn authorizes the action on resources the actor owns.
	VariantOwn Variant = "own"
	// VariantAny authorizes the action on resources of any owner.
	VariantAny Variant = "any"
	// VariantManage is the per-resource shortcut implying every variant of
	// every action on the resource.
	VariantManage Variant = "manage"
)

// Permission is a slug of the form "resource:action:variant", or
// "resource:manage" for the manage shortcut.
type Permission string

// Perm builds the permission slug for a triple.
func Perm(resource Resource, action Action, variant Variant) Permission {
	if variant == VariantManage {
		return Manage(resource)
	}

	return Permission(fmt.Sprintf("%s:%s:%s", resource, action, variant))
}

// Manage builds the manage shortcut slug for a resource.
func Manage(resource Resource) Permission {
	return Permission(fmt.Sprintf("%s:manage", resource))
}

// Parse splits a slug back into its triple. Manage slugs report
// VariantManage with an empty action.
func Parse(p Permission) (Resource, Action, Variant, bool) {
	parts := strings.Split(string(p), ":")
	switch len(parts) {
	case 2:
		if parts[1] != string(VariantManage) {
			return "", "", "", false
		}

		return Resource(parts[0]), "", VariantManage, validResource(Resource(parts[0]))
	case 3:
		resource, action, variant := Resource(parts[0]), Action(parts[1]), Variant(parts[2])
		if !validResource(resource) || !validAction(action) {
			return "", "", "", false
		}

		if variant != VariantOwn && variant != VariantAny {
			return "", "", "", false
		}

		return resource, action, variant, true
	default:
		return "", "", "", false
	}
}

// IsValid checks if a slug names a known permission.
func IsValid(p string) bool {
	_, _, _, ok := Parse(Permission(p))
	return ok
}

func validResource(r Resource) bool {
	switch r {
	case ResourceSpaces, ResourceEmbedders, ResourceAPIKeys, ResourceUsers:
		return true
	default:
		return false
	}
}

func validAction(a Action) bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList:
		return true
	default:
		return false
	}
}

// Set is a permission set evaluated by membership. Sets are additive: a
// composite role unions the sets of its constituent roles.
type Set map[Permission]struct{}

// NewSet builds a set from slugs, ignoring unknown ones.
func NewSet(perms ...Permission) Set {
	set := make(Set, len(perms))
	for _, p := range perms {
		if IsValid(string(p)) {
			set[p] = struct{}{}
		}
	}

	return set
}

// NewSetFromStrings builds a set from string slugs, ignoring unknown ones.
func NewSetFromStrings(perms []string) Set {
	set := make(Set, len(perms))
	for _, p := range perms {
		if IsValid(p) {
			set[Permission(p)] = struct{}{}
		}
	}

	return set
}

// Union merges other into a new set.
func (s Set) Union(other Set) Set {
	merged := make(Set, len(s)+len(other))
	for p := range s {
		merged[p] = struct{}{}
	}

	for p := range other {
		merged[p] = struct{}{}
	}

	return merged
}

// Has reports exact slug membership. Absence is false, never an error.
func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Allows reports whether the set grants the (resource, action, variant)
// triple, honoring the manage shortcut.
func (s Set) Allows(resource Resource, action Action, variant Variant) bool {
	if s.Has(Manage(resource)) {
		return true
	}

	return s.Has(Perm(resource, action, variant))
}

// Slugs returns the set as string slugs.
func (s Set) Slugs() []string {
	slugs := make([]string, 0, len(s))
	for p := range s {
		slugs = append(slugs, string(p))
	}

	return slugs
}

// Scope describes a permission for the management UI.
type Scope struct {
	Slug        Permission
	Description string
}

// AllScopes returns every known permission with its description.
func AllScopes() []Scope {
	all := make([]Scope, 0, len(AllResources)*(len(AllActions)*2+1))

	for _, resource := range AllResources {
		for _, action := range AllActions {
			all = append(all,
				Scope{
					Slug:        Perm(resource, action, VariantOwn),
					Description: fmt.Sprintf("%s own %s", action, resource),
				},
				Scope{
					Slug:        Perm(resource, action, VariantAny),
					Description: fmt.Sprintf("%s %s of any owner", action, resource),
				},
			)
		}

		all = append(all, Scope{
			Slug:        Manage(resource),
			Description: fmt.Sprintf("manage %s (implies every action and variant)", resource),
		})
	}

	return all
}
