package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/server/biz"
)

type SpaceHandlersParams struct {
	fx.In

	Spaces *biz.SpaceService
}

type SpaceHandlers struct {
	spaces *biz.SpaceService
}

func NewSpaceHandlers(params SpaceHandlersParams) *SpaceHandlers {
	return &SpaceHandlers{spaces: params.Spaces}
}

func (h *SpaceHandlers) Create(c *gin.Context) {
	var input biz.CreateSpaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Err(c, errs.InvalidArgumentf("malformed space: %v", err))
		return
	}

	space, err := h.spaces.CreateSpace(c.Request.Context(), input)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusCreated, space)
}

func (h *SpaceHandlers) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	space, err := h.spaces.GetSpace(c.Request.Context(), id)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, space)
}

func (h *SpaceHandlers) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	var input biz.UpdateSpaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Err(c, errs.InvalidArgumentf("malformed space update: %v", err))
		return
	}

	space, err := h.spaces.UpdateSpace(c.Request.Context(), id, input)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, space)
}

func (h *SpaceHandlers) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	if err := h.spaces.DeleteSpace(c.Request.Context(), id); err != nil {
		Err(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SpaceHandlers) List(c *gin.Context) {
	spec, err := bindSpec(c)
	if err != nil {
		Err(c, err)
		return
	}

	list, err := h.spaces.ListSpaces(c.Request.Context(), spec)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
