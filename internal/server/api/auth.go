package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/server/biz"
)

type AuthHandlersParams struct {
	fx.In

	Auth *biz.AuthService
}

type AuthHandlers struct {
	auth *biz.AuthService
}

func NewAuthHandlers(params AuthHandlersParams) *AuthHandlers {
	return &AuthHandlers{auth: params.Auth}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges email and password for a bearer token.
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Err(c, errs.InvalidArgumentf("malformed sign-in request: %v", err))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
