package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/query"
)

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (uuid.UUID, error) {
	raw := c.Param("id")

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.InvalidArgumentf("malformed id %q", raw)
	}

	return id, nil
}

// bindSpec builds a listing spec from the query string. Label selectors
// arrive as repeated label=key:value parameters.
func bindSpec(c *gin.Context) (query.Spec, error) {
	var spec query.Spec
	if err := c.ShouldBindQuery(&spec); err != nil {
		return query.Spec{}, errs.InvalidArgumentf("malformed listing parameters: %v", err)
	}

	for _, selector := range c.QueryArray("label") {
		key, value, ok := strings.Cut(selector, ":")
		if !ok || key == "" {
			return query.Spec{}, errs.InvalidArgumentf("malformed label selector %q, want key:value", selector)
		}

		if spec.LabelSelectors == nil {
			spec.LabelSelectors = map[string]string{}
		}

		spec.LabelSelectors[key] = value
	}

	return spec, nil
}
