package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/server/biz"
)

type APIKeyHandlersParams struct {
	fx.In

	APIKeys *biz.APIKeyService
}

type APIKeyHandlers struct {
	apiKeys *biz.APIKeyService
}

func NewAPIKeyHandlers(params APIKeyHandlersParams) *APIKeyHandlers {
	return &APIKeyHandlers{apiKeys: params.APIKeys}
}

// Create mints a key. The response is the only place the raw secret ever
// appears.
func (h *APIKeyHandlers) Create(c *gin.Context) {
	var input biz.CreateAPIKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Err(c, errs.InvalidArgumentf("malformed api key: %v", err))
		return
	}

	created, err := h.apiKeys.CreateAPIKey(c.Request.Context(), input)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *APIKeyHandlers) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	apiKey, err := h.apiKeys.GetAPIKey(c.Request.Context(), id)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, apiKey)
}

func (h *APIKeyHandlers) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	var input biz.UpdateAPIKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Err(c, errs.InvalidArgumentf("malformed api key update: %v", err))
		return
	}

	apiKey, err := h.apiKeys.UpdateAPIKey(c.Request.Context(), id, input)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, apiKey)
}

type updateAPIKeyStatusRequest struct {
	Status objects.APIKeyStatus `json:"status"`
}

func (h *APIKeyHandlers) UpdateStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	var req updateAPIKeyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Err(c, errs.InvalidArgumentf("malformed status update: %v", err))
		return
	}

	apiKey, err := h.apiKeys.UpdateAPIKeyStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, apiKey)
}

func (h *APIKeyHandlers) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Err(c, err)
		return
	}

	if err := h.apiKeys.DeleteAPIKey(c.Request.Context(), id); err != nil {
		Err(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *APIKeyHandlers) List(c *gin.Context) {
	spec, err := bindSpec(c)
	if err != nil {
		Err(c, err)
		return
	}

	list, err := h.apiKeys.ListAPIKeys(c.Request.Context(), spec)
	if err != nil {
		Err(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
