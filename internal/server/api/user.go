package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/contexts"
	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/server/biz"
)

type UserHandlersParams struct {
	fx.In

	Users *biz.UserService
}

type UserHandlers struct {
	users *biz.UserService
}

func NewUserHandlers(params UserHandlersParams) *UserHandlers {
	return &UserHandlers{users: params.Users}
}

func (h *UserHandlers) Create(c *gin.Context) {
	var input biz.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Err(c, errs.InvalidArgumentf("malformed user: %v", err))
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), input)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusCreated, user.Info())
}

// Me returns the authenticated user.
func (h *UserHandlers) Me(c *gin.Context) {
	user, ok := contexts.GetUser(c.Request.Context())
	if !ok {
		Err(c, errs.Unauthenticated("no authenticated user"))
		return
	}

	c.JSON(http.StatusOK, user.Info())
}

func (h *UserHandlers) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Info())
}

func (h *UserHandlers) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	var input biz.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Err(c, errs.InvalidArgumentf("malformed user update: %v", err))
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, input)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Info())
}

func (h *UserHandlers) UpdatePermissions(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	var input biz.UpdateUserPermissionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Err(c, errs.InvalidArgumentf("malformed permissions update: %v", err))
		return
	}

	user, err := h.users.UpdateUserPermissions(c.Request.Context(), id, input)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Info())
}

type updateUserStatusRequest struct {
	Status objects.UserStatus `json:"status"`
}

func (h *UserHandlers) UpdateStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	var req updateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Err(c, errs.InvalidArgumentf("malformed status update: %v", err))
		return
	}

	user, err := h.users.UpdateUserStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Info())
}

func (h *UserHandlers) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		Err(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandlers) List(c *gin.Context) {
	spec, err := bindSpec(c)
	if err != nil {
		Err(c, err)
		return
	}

	list, err := h.users.ListUsers(c.Request.Context(), spec)
	if err != nil {
		Err(c, err)
		return
	}

	infos := make([]objects.UserInfo, len(list.Items))
	for i, user := range list.Items {
		infos[i] = user.Info()
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      infos,
		"totalCount": list.TotalCount,
		"hasMore":    list.HasMore,
		"nextOffset": list.NextOffset,
	})
}
