// Package authz is the ownership-aware authorization guard. It resolves the
// request principal, decides allow/deny for single-target actions, resolves
// the intended owner of created resources, and derives the visibility
// predicate that scopes list queries.
//
// Every call re-reads the principal and its permissions from the request
// context; nothing is cached, so permission changes take effect on the next
// call.
package authz
