package query

import "github.com/embedhub/embedhub/internal/store"

// sortAllowlist maps external sort field names, including aliases, to
// canonical store fields. Caller-supplied names are never interpolated into
// a query; they only ever select from this table.
var sortAllowlist = map[string]store.SortField{
	"name":       store.SortByName,
	"created_at": store.SortByCreatedAt,
	"createdAt":  store.SortByCreatedAt,
	"created":    store.SortByCreatedAt,
	"updated_at": store.SortByUpdatedAt,
	"updatedAt":  store.SortByUpdatedAt,
	"updated":    store.SortByUpdatedAt,
}

// resolveSort translates the requested sort into a canonical store sort.
// Unknown or missing names intentionally fall back to creation time
// descending instead of erroring.
func resolveSort(sortBy string, ascending bool) store.Sort {
	if field, ok := sortAllowlist[sortBy]; ok {
		return store.Sort{Field: field, Ascending: ascending}
	}

	return store.Sort{Field: store.SortByCreatedAt, Ascending: false}
}
