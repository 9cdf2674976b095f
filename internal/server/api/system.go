package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/build"
	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/server/biz"
)

type SystemHandlersParams struct {
	fx.In

	Users *biz.UserService
}

type SystemHandlers struct {
	users *biz.UserService
}

func NewSystemHandlers(params SystemHandlersParams) *SystemHandlers {
	return &SystemHandlers{users: params.Users}
}

// Health is the liveness endpoint.
func (h *SystemHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": build.Version,
	})
}

// GetSystemStatus reports whether the bootstrap owner has been created.
func (h *SystemHandlers) GetSystemStatus(c *gin.Context) {
	initialized, err := h.users.OwnerExists(c.Request.Context())
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"initialized": initialized})
}

type initializeRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// InitializeSystem creates the bootstrap owner. Once an owner exists the
// endpoint refuses further attempts.
func (h *SystemHandlers) InitializeSystem(c *gin.Context) {
	initialized, err := h.users.OwnerExists(c.Request.Context())
	if err != nil {
		Err(c, err)
		return
	}

	if initialized {
		Err(c, errs.AlreadyExistsf("system is already initialized"))
		return
	}

	var req initializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Err(c, errs.InvalidArgumentf("malformed initialize request: %v", err))
		return
	}

	owner, err := h.users.EnsureOwner(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, owner.Info())
}
