// Package query builds filtered, sorted, paginated listings over a resource
// collection, applying the visibility scoping derived from the authorization
// guard.
package query

import "github.com/embedhub/embedhub/internal/store"

// Spec is a listing request as it arrives from the caller. External sort
// names are resolved through the allowlist; everything else is exact-match
// filtering.
type Spec struct {
	// OwnerFilter narrows results to one owner, raw id from the request.
	OwnerFilter string `json:"ownerFilter,omitempty" form:"owner"`
	// LabelSelectors are ANDed exact key/value matches.
	LabelSelectors map[string]string `json:"labelSelectors,omitempty"`
	// NamePattern is a case-insensitive glob over resource names.
	NamePattern string `json:"namePattern,omitempty" form:"name"`
	// SortBy is an external sort field name or alias. Unknown values fall
	// back to the default ordering rather than erroring.
	SortBy        string `json:"sortBy,omitempty" form:"sort_by"`
	SortAscending bool   `json:"sortAscending,omitempty" form:"sort_asc"`
	Offset        int    `json:"offset,omitempty" form:"offset"`
	Limit         int    `json:"limit,omitempty" form:"limit"`
	// IncludePublic asks for public-read resources of other owners when the
	// caller's visibility is owner-restricted.
	IncludePublic bool `json:"includePublic,omitempty" form:"include_public"`
}

const (
	// DefaultLimit applies when the spec leaves the limit unset.
	DefaultLimit = 50
	// MaxLimit caps a single page.
	MaxLimit = 500
)

// NoMorePages is the NextOffset sentinel when the listing is exhausted.
const NoMorePages = -1

// Result is one page of a listing plus the pre-pagination total.
type Result struct {
	Items      []*store.Record `json:"items"`
	TotalCount int             `json:"totalCount"`

	offset int
	limit  int
}

// HasMore reports whether pages remain after this one.
func (r *Result) HasMore() bool {
	return r.offset+len(r.Items) < r.TotalCount
}

// NextOffset returns the offset of the next page, or NoMorePages.
func (r *Result) NextOffset() int {
	if !r.HasMore() {
		return NoMorePages
	}

	return r.offset + min(r.limit, len(r.Items))
}
