package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/embedhub/embedhub/internal/errs"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.InvalidArgumentf("bad input"), http.StatusBadRequest},
		{errs.Unauthenticated("who are you"), http.StatusUnauthorized},
		{errs.PermissionDeniedf("not yours"), http.StatusForbidden},
		{errs.NotFoundf("missing"), http.StatusNotFound},
		{errs.AlreadyExistsf("taken"), http.StatusConflict},
		{errs.Internal("boom", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, StatusOf(tc.err), "error %v", tc.err)
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})
	engine.GET("/fine", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	t.Run("panic becomes a 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Contains(t, w.Body.String(), "internal server error")
	})

	t.Run("normal requests pass through", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/fine", nil))

		require.Equal(t, http.StatusOK, w.Code)
	})
}
