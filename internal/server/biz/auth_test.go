package biz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/embedhub/embedhub/internal/objects"
)

func TestPasswordHashing(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		hashed, err := HashPassword("correct-horse")
		require.NoError(t, err)
		require.NotEqual(t, "correct-horse", hashed)

		require.True(t, VerifyPassword(hashed, "correct-horse"))
		require.False(t, VerifyPassword(hashed, "wrong-horse"))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		first, err := HashPassword("correct-horse")
		require.NoError(t, err)

		second, err := HashPassword("correct-horse")
		require.NoError(t, err)

		require.NotEqual(t, first, second)
	})

	t.Run("malformed stored hash never verifies", func(t *testing.T) {
		require.False(t, VerifyPassword("not-hex!", "anything"))
		require.False(t, VerifyPassword("", "anything"))
	})
}

func TestJWTTokens(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		env := setupTestEnv(t)
		userID := uuid.New()

		token, err := env.Auth.GenerateJWTToken(userID)
		require.NoError(t, err)

		parsed, err := env.Auth.ParseJWTToken(token)
		require.NoError(t, err)
		require.Equal(t, userID, parsed)
	})

	t.Run("garbage token", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.Auth.ParseJWTToken("not.a.token")
		require.ErrorIs(t, err, ErrInvalidJWT)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		env := setupTestEnv(t)

		foreign := NewAuthService(AuthServiceParams{
			Store: env.Store, Clock: env.Auth.clock,
			Config: AuthConfig{JWTSecret: "someone-else"},
		})

		token, err := foreign.GenerateJWTToken(uuid.New())
		require.NoError(t, err)

		_, err = env.Auth.ParseJWTToken(token)
		require.ErrorIs(t, err, ErrInvalidJWT)
	})

	t.Run("tampered token", func(t *testing.T) {
		env := setupTestEnv(t)

		token, err := env.Auth.GenerateJWTToken(uuid.New())
		require.NoError(t, err)

		_, err = env.Auth.ParseJWTToken(token + "x")
		require.ErrorIs(t, err, ErrInvalidJWT)
	})
}

func TestLogin(t *testing.T) {
	seedAccount := func(t *testing.T, env *testEnv) *objects.User {
		t.Helper()

		user, err := env.Users.CreateUser(adminCtx(t), CreateUserInput{
			Email:    "alice@example.com",
			Name:     "alice",
			Password: "correct-horse",
		})
		require.NoError(t, err)

		return user
	}

	t.Run("valid credentials yield a usable token", func(t *testing.T) {
		env := setupTestEnv(t)
		user := seedAccount(t, env)

		result, err := env.Auth.Login(context.Background(), "Alice@Example.com", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, user.ID, result.User.ID)

		subject, err := env.Auth.ParseJWTToken(result.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := setupTestEnv(t)
		seedAccount(t, env)

		_, err := env.Auth.Login(context.Background(), "alice@example.com", "wrong-horse")
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown email reports the same failure", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.Auth.Login(context.Background(), "nobody@example.com", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("deactivated account cannot sign in", func(t *testing.T) {
		env := setupTestEnv(t)
		user := seedAccount(t, env)

		_, err := env.Users.UpdateUserStatus(adminCtx(t), user.ID, objects.UserStatusDeactivated)
		require.NoError(t, err)

		_, err = env.Auth.Login(context.Background(), "alice@example.com", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidPassword)
	})
}
