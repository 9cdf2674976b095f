package scopes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerm(t *testing.T) {
	require.Equal(t, Permission("spaces:read:own"), Perm(ResourceSpaces, ActionRead, VariantOwn))
	require.Equal(t, Permission("users:manage"), Perm(ResourceUsers, ActionUpdate, VariantManage))
	require.Equal(t, Permission("api_keys:manage"), Manage(ResourceAPIKeys))
}

func TestParse(t *testing.T) {
	t.Run("triple", func(t *testing.T) {
		resource, action, variant, ok := Parse("spaces:update:any")
		require.True(t, ok)
		require.Equal(t, ResourceSpaces, resource)
		require.Equal(t, ActionUpdate, action)
		require.Equal(t, VariantAny, variant)
	})

	t.Run("manage", func(t *testing.T) {
		resource, action, variant, ok := Parse("embedders:manage")
		require.True(t, ok)
		require.Equal(t, ResourceEmbedders, resource)
		require.Empty(t, action)
		require.Equal(t, VariantManage, variant)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, slug := range []string{
			"",
			"spaces",
			"spaces:read",
			"spaces:read:manage",
			"spaces:fly:own",
			"rockets:read:own",
			"spaces:read:own:extra",
		} {
			require.False(t, IsValid(slug), "slug %q should be invalid", slug)
		}
	})
}

func TestSetAllows(t *testing.T) {
	t.Run("exact membership", func(t *testing.T) {
		set := NewSet(Perm(ResourceSpaces, ActionRead, VariantOwn))

		require.True(t, set.Allows(ResourceSpaces, ActionRead, VariantOwn))
		require.False(t, set.Allows(ResourceSpaces, ActionRead, VariantAny))
		require.False(t, set.Allows(ResourceSpaces, ActionUpdate, VariantOwn))
	})

	t.Run("manage implies every action and variant", func(t *testing.T) {
		set := NewSet(Manage(ResourceSpaces))

		for _, action := range AllActions {
			require.True(t, set.Allows(ResourceSpaces, action, VariantOwn))
			require.True(t, set.Allows(ResourceSpaces, action, VariantAny))
		}

		require.False(t, set.Allows(ResourceEmbedders, ActionRead, VariantOwn))
	})

	t.Run("unknown slugs are dropped", func(t *testing.T) {
		set := NewSetFromStrings([]string{"spaces:read:own", "bogus:read:own", "spaces:read"})
		require.Len(t, set, 1)
	})

	t.Run("union is additive", func(t *testing.T) {
		a := NewSet(Perm(ResourceSpaces, ActionRead, VariantOwn))
		b := NewSet(Perm(ResourceSpaces, ActionList, VariantOwn))

		merged := a.Union(b)
		require.True(t, merged.Has(Perm(ResourceSpaces, ActionRead, VariantOwn)))
		require.True(t, merged.Has(Perm(ResourceSpaces, ActionList, VariantOwn)))
		require.Len(t, a, 1)
	})
}

func TestRoles(t *testing.T) {
	t.Run("admin manages everything", func(t *testing.T) {
		set := UnionRoles([]string{RoleAdmin}, nil)

		for _, resource := range AllResources {
			require.True(t, set.Has(Manage(resource)))
		}
	})

	t.Run("member owns their resources", func(t *testing.T) {
		set := UnionRoles([]string{RoleMember}, nil)

		require.True(t, set.Allows(ResourceSpaces, ActionCreate, VariantOwn))
		require.True(t, set.Allows(ResourceAPIKeys, ActionDelete, VariantOwn))
		require.False(t, set.Allows(ResourceSpaces, ActionRead, VariantAny))
		require.False(t, set.Allows(ResourceUsers, ActionCreate, VariantOwn))
	})

	t.Run("auditor reads anything but writes nothing", func(t *testing.T) {
		set := UnionRoles([]string{RoleAuditor}, nil)

		require.True(t, set.Allows(ResourceSpaces, ActionRead, VariantAny))
		require.True(t, set.Allows(ResourceUsers, ActionList, VariantAny))
		require.False(t, set.Allows(ResourceSpaces, ActionUpdate, VariantOwn))
		require.False(t, set.Allows(ResourceSpaces, ActionCreate, VariantAny))
	})

	t.Run("direct scopes add to roles", func(t *testing.T) {
		set := UnionRoles([]string{RoleAuditor}, []string{"spaces:create:own"})

		require.True(t, set.Allows(ResourceSpaces, ActionCreate, VariantOwn))
		require.True(t, set.Allows(ResourceSpaces, ActionRead, VariantAny))
	})

	t.Run("unknown role contributes nothing", func(t *testing.T) {
		set := UnionRoles([]string{"superuser"}, nil)
		require.Empty(t, set)
	})
}
