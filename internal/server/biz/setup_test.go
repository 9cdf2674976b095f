package biz

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/embedhub/embedhub/internal/authz"
	"github.com/embedhub/embedhub/internal/contexts"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/pkg/xcache"
	"github.com/embedhub/embedhub/internal/query"
	"github.com/embedhub/embedhub/internal/scopes"
	"github.com/embedhub/embedhub/internal/secret"
	"github.com/embedhub/embedhub/internal/store"
)

type testEnv struct {
	Store     *store.Memory
	Spaces    *SpaceService
	Embedders *EmbedderService
	APIKeys   *APIKeyService
	Users     *UserService
	Auth      *AuthService
	Now       time.Time
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemory()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := store.ClockFunc(func() time.Time { return now })
	engine := query.NewEngine(st)
	validator := NewPermissionValidator()

	apiKeys := NewAPIKeyService(APIKeyServiceParams{
		Store: st, Clock: clock, Query: engine,
		Codec:               secret.NewCodec(nil),
		CacheConfig:         xcache.Config{Mode: xcache.ModeMemory},
		PermissionValidator: validator,
	})

	return &testEnv{
		Store: st,
		Spaces: NewSpaceService(SpaceServiceParams{
			Store: st, Clock: clock, Query: engine,
		}),
		Embedders: NewEmbedderService(EmbedderServiceParams{
			Store: st, Clock: clock, Query: engine,
		}),
		APIKeys: apiKeys,
		Users: NewUserService(UserServiceParams{
			Store: st, Clock: clock, Query: engine,
			PermissionValidator: validator,
			APIKeys:             apiKeys,
		}),
		// Tokens are validated against wall time, so the auth service
		// gets a real clock.
		Auth: NewAuthService(AuthServiceParams{
			Store: st, Clock: store.SystemClock(),
			Config: AuthConfig{JWTSecret: "test-secret"},
		}),
		Now: now,
	}
}

// adminCtx is a principal holding manage on every resource.
func adminCtx(t *testing.T) context.Context {
	t.Helper()

	return userCtx(t, &objects.User{
		ID:     uuid.New(),
		Status: objects.UserStatusActivated,
		Roles:  []string{scopes.RoleAdmin},
	})
}

// memberCtx is a principal limited to its own resources.
func memberCtx(t *testing.T, id uuid.UUID) context.Context {
	t.Helper()

	return userCtx(t, &objects.User{
		ID:     id,
		Status: objects.UserStatusActivated,
		Roles:  []string{scopes.RoleMember},
	})
}

func userCtx(t *testing.T, user *objects.User) context.Context {
	t.Helper()

	ctx := contexts.WithUser(context.Background(), user)

	return authz.MustWithPrincipal(ctx, authz.Principal{
		Type:   authz.PrincipalTypeUser,
		UserID: &user.ID,
	})
}

// createTestUser registers a user record so that lookups by id succeed.
func createTestUser(t *testing.T, env *testEnv, user *objects.User) {
	t.Helper()

	email := user.Email
	if email == "" {
		email = user.ID.String() + "@example.com"
	}

	name := user.Name
	if name == "" {
		name = user.ID.String()
	}

	record := &store.Record{
		ID:      user.ID,
		Type:    scopes.ResourceUsers,
		OwnerID: user.ID,
		Name:    name,
		Labels:  user.Labels.Clone(),
		Status:  string(user.Status),
		Attrs: map[string]string{
			store.AttrEmail:  email,
			store.AttrRoles:  store.EncodeList(user.Roles),
			store.AttrScopes: store.EncodeList(user.Scopes),
		},
		CreatedAt: env.Now,
		UpdatedAt: env.Now,
	}

	require.NoError(t, env.Store.Create(context.Background(), record))
}
