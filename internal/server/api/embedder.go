package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/server/biz"
)

type EmbedderHandlersParams struct {
	fx.In

	Embedders *biz.EmbedderService
}

type EmbedderHandlers struct {
	embedders *biz.EmbedderService
}

func NewEmbedderHandlers(params EmbedderHandlersParams) *EmbedderHandlers {
	return &EmbedderHandlers{embedders: params.Embedders}
}

func (h *EmbedderHandlers) Create(c *gin.Context) {
	var input biz.CreateEmbedderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Err(c, errs.InvalidArgumentf("malformed embedder: %v", err))
		return
	}

	embedder, err := h.embedders.CreateEmbedder(c.Request.Context(), input)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusCreated, embedder)
}

func (h *EmbedderHandlers) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	embedder, err := h.embedders.GetEmbedder(c.Request.Context(), id)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, embedder)
}

func (h *EmbedderHandlers) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	var input biz.UpdateEmbedderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Err(c, errs.InvalidArgumentf("malformed embedder update: %v", err))
		return
	}

	embedder, err := h.embedders.UpdateEmbedder(c.Request.Context(), id, input)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, embedder)
}

func (h *EmbedderHandlers) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	if err := h.embedders.DeleteEmbedder(c.Request.Context(), id); err != nil {
		Err(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EmbedderHandlers) List(c *gin.Context) {
	spec, err := bindSpec(c)
	if err != nil {
		Err(c, err)
		return
	}

	list, err := h.embedders.ListEmbedders(c.Request.Context(), spec)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
