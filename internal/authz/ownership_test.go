package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/scopes"
)

func TestResolveOwner(t *testing.T) {
	actorID := uuid.New()
	otherID := uuid.New()

	t.Run("no principal", func(t *testing.T) {
		_, err := ResolveOwner(context.Background(), scopes.ResourceSpaces, "")
		require.True(t, errs.IsKind(err, errs.KindUnauthenticated))
	})

	t.Run("empty owner defaults to the actor", func(t *testing.T) {
		ctx := userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:create:own"}})

		ownerID, err := ResolveOwner(ctx, scopes.ResourceSpaces, "")
		require.NoError(t, err)
		require.Equal(t, actorID, ownerID)
	})

	t.Run("system principal must name the owner", func(t *testing.T) {
		ctx := MustWithPrincipal(context.Background(), Principal{Type: PrincipalTypeSystem})

		_, err := ResolveOwner(ctx, scopes.ResourceSpaces, "")
		require.True(t, errs.IsKind(err, errs.KindInvalidArgument))

		ownerID, err := ResolveOwner(ctx, scopes.ResourceSpaces, otherID.String())
		require.NoError(t, err)
		require.Equal(t, otherID, ownerID)
	})

	t.Run("malformed owner fails before permission evaluation", func(t *testing.T) {
		// No create permission at all; the format error must win.
		ctx := userContext(t, &objects.User{ID: actorID})

		_, err := ResolveOwner(ctx, scopes.ResourceSpaces, "not-a-uuid")
		require.True(t, errs.IsKind(err, errs.KindInvalidArgument))
	})

	t.Run("explicit self needs no extra permission", func(t *testing.T) {
		ctx := userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:create:own"}})

		ownerID, err := ResolveOwner(ctx, scopes.ResourceSpaces, actorID.String())
		require.NoError(t, err)
		require.Equal(t, actorID, ownerID)
	})

	t.Run("another owner requires create any", func(t *testing.T) {
		ctx := userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:create:own"}})

		_, err := ResolveOwner(ctx, scopes.ResourceSpaces, otherID.String())
		require.True(t, errs.IsKind(err, errs.KindPermissionDenied))

		ctx = userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:create:any"}})

		ownerID, err := ResolveOwner(ctx, scopes.ResourceSpaces, otherID.String())
		require.NoError(t, err)
		require.Equal(t, otherID, ownerID)
	})

	t.Run("manage also grants delegation", func(t *testing.T) {
		ctx := userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:manage"}})

		ownerID, err := ResolveOwner(ctx, scopes.ResourceSpaces, otherID.String())
		require.NoError(t, err)
		require.Equal(t, otherID, ownerID)
	})
}

func TestListVisibility(t *testing.T) {
	actorID := uuid.New()

	t.Run("no principal", func(t *testing.T) {
		_, err := ListVisibility(context.Background(), scopes.ResourceSpaces, false)
		require.True(t, errs.IsKind(err, errs.KindUnauthenticated))
	})

	t.Run("list any is unrestricted", func(t *testing.T) {
		ctx := userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:list:any"}})

		visibility, err := ListVisibility(ctx, scopes.ResourceSpaces, false)
		require.NoError(t, err)
		require.True(t, visibility.Unrestricted())
	})

	t.Run("manage is unrestricted", func(t *testing.T) {
		ctx := userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:manage"}})

		visibility, err := ListVisibility(ctx, scopes.ResourceSpaces, true)
		require.NoError(t, err)
		require.True(t, visibility.Unrestricted())
	})

	t.Run("list own restricts to the actor", func(t *testing.T) {
		ctx := userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:list:own"}})

		visibility, err := ListVisibility(ctx, scopes.ResourceSpaces, false)
		require.NoError(t, err)
		require.True(t, visibility.OwnerOnly)
		require.Equal(t, actorID, visibility.OwnerID)
		require.False(t, visibility.IncludePublic)
	})

	t.Run("list own can widen to public reads", func(t *testing.T) {
		ctx := userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:list:own"}})

		visibility, err := ListVisibility(ctx, scopes.ResourceSpaces, true)
		require.NoError(t, err)
		require.True(t, visibility.OwnerOnly)
		require.True(t, visibility.IncludePublic)
	})

	t.Run("no list permission is denied", func(t *testing.T) {
		ctx := userContext(t, &objects.User{ID: actorID, Scopes: []string{"spaces:read:own"}})

		_, err := ListVisibility(ctx, scopes.ResourceSpaces, false)
		require.True(t, errs.IsKind(err, errs.KindPermissionDenied))
	})
}
