package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/embedhub/embedhub/internal/authz"
	"github.com/embedhub/embedhub/internal/contexts"
	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/server/biz"
)

// WithJWTAuth authenticates requests carrying a login token, binding the
// resolved user and its principal to the request context.
func WithJWTAuth(auth *biz.AuthService, users *biz.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractCredential(c.Request, &CredentialConfig{
			Headers:       []string{"Authorization"},
			RequireBearer: true,
		})
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, err)
			return
		}

		userID, err := auth.ParseJWTToken(token)
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, errors.New("invalid token"))
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errs.IsKind(err, errs.KindNotFound) {
				AbortWithError(c, http.StatusUnauthorized, errors.New("invalid token"))
			} else {
				AbortWithError(c, http.StatusInternalServerError, errors.New("failed to validate token"))
			}

			return
		}

		if user.Status != objects.UserStatusActivated {
			AbortWithError(c, http.StatusUnauthorized, errors.New("user is deactivated"))
			return
		}

		ctx := contexts.WithUser(c.Request.Context(), user)
		ctx = authz.MustWithPrincipal(ctx, authz.Principal{
			Type:   authz.PrincipalTypeUser,
			UserID: &user.ID,
		})

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// WithAPIKeyAuth authenticates requests carrying an API key secret.
func WithAPIKeyAuth(apiKeys *biz.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey, err := ExtractCredential(c.Request, nil)
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, err)
			return
		}

		apiKey, err := apiKeys.AuthenticateAPIKey(c.Request.Context(), rawKey)
		if err != nil {
			if errors.Is(err, biz.ErrInvalidAPIKey) {
				AbortWithError(c, http.StatusUnauthorized, errors.New("invalid API key"))
			} else {
				AbortWithError(c, http.StatusInternalServerError, errors.New("failed to validate API key"))
			}

			return
		}

		ctx := contexts.WithAPIKey(c.Request.Context(), apiKey)
		ctx = authz.MustWithPrincipal(ctx, authz.Principal{
			Type:     authz.PrincipalTypeAPIKey,
			APIKeyID: &apiKey.ID,
		})

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
