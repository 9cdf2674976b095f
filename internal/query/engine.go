package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/embedhub/embedhub/internal/authz"
	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/scopes"
	"github.com/embedhub/embedhub/internal/store"
)

// Engine executes listing specs against the resource store under the
// current principal's visibility.
type Engine struct {
	store store.Store
}

func NewEngine(st store.Store) *Engine {
	return &Engine{store: st}
}

// Query lists resources of the given type. Construction order is fixed:
// caller filters first, then the visibility predicate, then the total count,
// then sort resolution and pagination.
func (e *Engine) Query(ctx context.Context, resource scopes.Resource, spec Spec) (*Result, error) {
	visibility, err := authz.ListVisibility(ctx, resource, spec.IncludePublic)
	if err != nil {
		return nil, err
	}

	filter := store.Filter{
		Labels:   spec.LabelSelectors,
		NameGlob: spec.NamePattern,
	}

	if spec.OwnerFilter != "" {
		ownerID, err := uuid.Parse(spec.OwnerFilter)
		if err != nil {
			return nil, errs.InvalidArgumentf("malformed owner filter %q", spec.OwnerFilter)
		}

		// An owner-restricted caller asking for a different owner is
		// rejected, never silently narrowed.
		if visibility.OwnerOnly && ownerID != visibility.OwnerID {
			return nil, errs.PermissionDeniedf("not allowed to list %s owned by %s", resource, ownerID)
		}

		filter.OwnerID = &ownerID
	}

	if visibility.OwnerOnly {
		restrict := visibility.OwnerID
		filter.RestrictOwnerID = &restrict
		filter.IncludePublic = visibility.IncludePublic
	}

	page := normalizePage(spec.Offset, spec.Limit)

	items, total, err := e.store.List(ctx, resource, filter, resolveSort(spec.SortBy, spec.SortAscending), page)
	if err != nil {
		return nil, err
	}

	return &Result{
		Items:      items,
		TotalCount: total,
		offset:     page.Offset,
		limit:      page.Limit,
	}, nil
}

func normalizePage(offset, limit int) store.Page {
	if offset < 0 {
		offset = 0
	}

	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return store.Page{Offset: offset, Limit: limit}
}
