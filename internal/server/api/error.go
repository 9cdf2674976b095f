package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/embedhub/embedhub/internal/server/biz"
	"github.com/embedhub/embedhub/internal/server/middleware"
)

// Err writes an error response with the status implied by the error kind.
func Err(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrInvalidPassword), errors.Is(err, biz.ErrInvalidJWT), errors.Is(err, biz.ErrInvalidAPIKey):
		middleware.AbortWithError(c, http.StatusUnauthorized, err)
	default:
		middleware.AbortWithError(c, middleware.StatusOf(err), err)
	}
}
