package scopes

// Role is a named, reusable permission set.
type Role struct {
	Code   string
	Name   string
	Scopes []Permission
}

const (
	RoleAdmin   = "admin"
	RoleMember  = "member"
	RoleAuditor = "auditor"
)

// builtinRoles defines the roles shipped with the system.
var builtinRoles = []Role{
	{
		Code:   RoleAdmin,
		Name:   "Administrator",
		Scopes: manageAll(),
	},
	{
		Code: RoleMember,
		Name: "Member",
		Scopes: append(
			ownCRUD(ResourceSpaces, ResourceEmbedders, ResourceAPIKeys),
			Perm(ResourceUsers, ActionRead, VariantOwn),
			Perm(ResourceUsers, ActionUpdate, VariantOwn),
		),
	},
	{
		Code:   RoleAuditor,
		Name:   "Auditor",
		Scopes: readAny(),
	},
}

func manageAll() []Permission {
	perms := make([]Permission, 0, len(AllResources))
	for _, resource := range AllResources {
		perms = append(perms, Manage(resource))
	}

	return perms
}

func ownCRUD(resources ...Resource) []Permission {
	var perms []Permission

	for _, resource := range resources {
		for _, action := range AllActions {
			perms = append(perms, Perm(resource, action, VariantOwn))
		}
	}

	return perms
}

func readAny() []Permission {
	var perms []Permission

	for _, resource := range AllResources {
		perms = append(perms,
			Perm(resource, ActionRead, VariantAny),
			Perm(resource, ActionList, VariantAny),
		)
	}

	return perms
}

// RoleByCode looks up a builtin role.
func RoleByCode(code string) (Role, bool) {
	for _, role := range builtinRoles {
		if role.Code == code {
			return role, true
		}
	}

	return Role{}, false
}

// AllRoles returns the builtin roles.
func AllRoles() []Role {
	return builtinRoles
}

// UnionRoles resolves role codes and direct scope slugs into one additive
// set. Unknown role codes and unknown slugs contribute nothing.
func UnionRoles(roleCodes []string, directScopes []string) Set {
	set := NewSetFromStrings(directScopes)

	for _, code := range roleCodes {
		if role, ok := RoleByCode(code); ok {
			set = set.Union(NewSet(role.Scopes...))
		}
	}

	return set
}
