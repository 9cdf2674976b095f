package biz

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/scopes"
	"github.com/embedhub/embedhub/internal/secret"
)

func TestCreateAPIKey(t *testing.T) {
	t.Run("secret appears exactly once", func(t *testing.T) {
		env := setupTestEnv(t)
		ctx := memberCtx(t, uuid.New())

		created, err := env.APIKeys.CreateAPIKey(ctx, CreateAPIKeyInput{
			Name:   "ci",
			Scopes: []string{"spaces:read:own"},
		})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(created.Secret, secret.Prefix))
		require.True(t, strings.HasPrefix(created.Secret, created.APIKey.DisplayPrefix))
		require.Equal(t, objects.APIKeyStatusEnabled, created.APIKey.Status)

		// Fetching the key later never reveals the secret.
		got, err := env.APIKeys.GetAPIKey(ctx, created.APIKey.ID)
		require.NoError(t, err)
		require.NotEqual(t, created.Secret, got.DisplayPrefix)
		require.Equal(t, secret.Hash(created.Secret), got.SecretHash)
	})

	t.Run("at least one scope required", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.APIKeys.CreateAPIKey(memberCtx(t, uuid.New()), CreateAPIKeyInput{Name: "ci"})
		require.True(t, errs.IsKind(err, errs.KindInvalidArgument))
	})

	t.Run("unknown scope slug rejected", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.APIKeys.CreateAPIKey(memberCtx(t, uuid.New()), CreateAPIKeyInput{
			Name:   "ci",
			Scopes: []string{"spaces:fly:own"},
		})
		require.True(t, errs.IsKind(err, errs.KindInvalidArgument))
	})

	t.Run("cannot grant scopes beyond your own", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.APIKeys.CreateAPIKey(memberCtx(t, uuid.New()), CreateAPIKeyInput{
			Name:   "ci",
			Scopes: []string{"spaces:read:any"},
		})
		require.True(t, errs.IsKind(err, errs.KindPermissionDenied))

		// The admin holds manage and can grant anything.
		_, err = env.APIKeys.CreateAPIKey(adminCtx(t), CreateAPIKeyInput{
			Name:   "ci",
			Scopes: []string{"spaces:read:any"},
		})
		require.NoError(t, err)
	})
}

func TestAuthenticateAPIKey(t *testing.T) {
	newKey := func(t *testing.T, env *testEnv, owner *objects.User) *CreatedAPIKey {
		t.Helper()

		createTestUser(t, env, owner)

		created, err := env.APIKeys.CreateAPIKey(userCtx(t, owner), CreateAPIKeyInput{
			Name:   "ci",
			Scopes: []string{"spaces:read:own"},
		})
		require.NoError(t, err)

		return created
	}

	t.Run("valid secret resolves the key", func(t *testing.T) {
		env := setupTestEnv(t)
		owner := &objects.User{ID: uuid.New(), Status: objects.UserStatusActivated, Roles: []string{scopes.RoleMember}}
		created := newKey(t, env, owner)

		apiKey, err := env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.NoError(t, err)
		require.Equal(t, created.APIKey.ID, apiKey.ID)
		require.Equal(t, owner.ID, apiKey.OwnerID)

		// Cached path returns the same key.
		again, err := env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.NoError(t, err)
		require.Equal(t, apiKey.ID, again.ID)
	})

	t.Run("wrong prefix fails fast", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.APIKeys.AuthenticateAPIKey(context.Background(), "sk-not-ours")
		require.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("unknown secret", func(t *testing.T) {
		env := setupTestEnv(t)

		credential, err := secret.NewCodec(nil).Generate()
		require.NoError(t, err)

		_, err = env.APIKeys.AuthenticateAPIKey(context.Background(), credential.Raw)
		require.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("disabled key stops authenticating", func(t *testing.T) {
		env := setupTestEnv(t)
		owner := &objects.User{ID: uuid.New(), Status: objects.UserStatusActivated, Roles: []string{scopes.RoleMember}}
		created := newKey(t, env, owner)

		_, err := env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.NoError(t, err)

		_, err = env.APIKeys.UpdateAPIKeyStatus(userCtx(t, owner), created.APIKey.ID, objects.APIKeyStatusDisabled)
		require.NoError(t, err)

		_, err = env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.ErrorIs(t, err, ErrInvalidAPIKey)

		// Re-enabling brings it back.
		_, err = env.APIKeys.UpdateAPIKeyStatus(userCtx(t, owner), created.APIKey.ID, objects.APIKeyStatusEnabled)
		require.NoError(t, err)

		_, err = env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.NoError(t, err)
	})

	t.Run("deactivated owner disables all keys", func(t *testing.T) {
		env := setupTestEnv(t)
		owner := &objects.User{ID: uuid.New(), Status: objects.UserStatusActivated, Roles: []string{scopes.RoleMember}}
		created := newKey(t, env, owner)

		// Warm the auth cache first: deactivation must cut through it,
		// not wait for the TTL.
		_, err := env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.NoError(t, err)

		_, err = env.Users.UpdateUserStatus(adminCtx(t), owner.ID, objects.UserStatusDeactivated)
		require.NoError(t, err)

		_, err = env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("deleted owner disables cached keys", func(t *testing.T) {
		env := setupTestEnv(t)
		owner := &objects.User{ID: uuid.New(), Status: objects.UserStatusActivated, Roles: []string{scopes.RoleMember}}
		created := newKey(t, env, owner)

		_, err := env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.NoError(t, err)

		require.NoError(t, env.Users.DeleteUser(adminCtx(t), owner.ID))

		_, err = env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("deleted key stops authenticating", func(t *testing.T) {
		env := setupTestEnv(t)
		owner := &objects.User{ID: uuid.New(), Status: objects.UserStatusActivated, Roles: []string{scopes.RoleMember}}
		created := newKey(t, env, owner)

		require.NoError(t, env.APIKeys.DeleteAPIKey(userCtx(t, owner), created.APIKey.ID))

		_, err := env.APIKeys.AuthenticateAPIKey(context.Background(), created.Secret)
		require.ErrorIs(t, err, ErrInvalidAPIKey)
	})
}

func TestUpdateAPIKey(t *testing.T) {
	env := setupTestEnv(t)
	ownerID := uuid.New()
	ctx := memberCtx(t, ownerID)

	created, err := env.APIKeys.CreateAPIKey(ctx, CreateAPIKeyInput{
		Name:   "ci",
		Scopes: []string{"spaces:read:own"},
	})
	require.NoError(t, err)

	t.Run("scope replacement is validated", func(t *testing.T) {
		_, err := env.APIKeys.UpdateAPIKey(ctx, created.APIKey.ID, UpdateAPIKeyInput{
			Scopes: []string{"users:manage"},
		})
		require.True(t, errs.IsKind(err, errs.KindPermissionDenied))

		updated, err := env.APIKeys.UpdateAPIKey(ctx, created.APIKey.ID, UpdateAPIKeyInput{
			Scopes: []string{"spaces:read:own", "spaces:list:own"},
		})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"spaces:read:own", "spaces:list:own"}, updated.Scopes)
	})

	t.Run("foreign member cannot touch the key", func(t *testing.T) {
		_, err := env.APIKeys.UpdateAPIKey(memberCtx(t, uuid.New()), created.APIKey.ID, UpdateAPIKeyInput{
			Name: strPtr("stolen"),
		})
		require.True(t, errs.IsKind(err, errs.KindPermissionDenied))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := env.APIKeys.UpdateAPIKeyStatus(ctx, created.APIKey.ID, "paused")
		require.True(t, errs.IsKind(err, errs.KindInvalidArgument))
	})
}
