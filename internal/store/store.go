// Package store defines the generic resource store consumed by the query
// engine and the services. The core issues filter/sort/pagination
// specifications; each implementation is responsible for executing them.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/scopes"
)

// Record is the generic shape every resource persists to: identity, owner,
// label metadata, audit fields and a type-specific attribute bag.
type Record struct {
	ID      uuid.UUID
	Type    scopes.Resource
	OwnerID uuid.UUID
	Name    string
	Labels  objects.Labels
	// Attrs carries type-specific fields (embedder provider/model, user
	// email, API key scopes) as strings.
	Attrs      map[string]string
	PublicRead bool
	Status     string
	// SecretHash and DisplayPrefix are set for credential-bearing records
	// (API keys) and empty otherwise.
	SecretHash    string
	DisplayPrefix string

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy uuid.UUID
	UpdatedBy uuid.UUID
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cloned := *r
	cloned.Labels = r.Labels.Clone()

	cloned.Attrs = make(map[string]string, len(r.Attrs))
	for k, v := range r.Attrs {
		cloned.Attrs[k] = v
	}

	return &cloned
}

// Filter is the listing specification built by the query engine. All parts
// are ANDed together.
type Filter struct {
	// OwnerID is the caller's explicit owner filter, exact match.
	OwnerID *uuid.UUID
	// Labels are exact key/value selectors; every entry must hold.
	Labels map[string]string
	// NameGlob is a case-insensitive glob over the record name. Empty means
	// no name filtering.
	NameGlob string
	// RestrictOwnerID applies the owner-restricted visibility predicate.
	RestrictOwnerID *uuid.UUID
	// IncludePublic widens an owner-restricted filter with public-read rows.
	IncludePublic bool
}

// Sort orders a listing by a canonical field. Field is one of the
// SortField constants; callers translate external names through the query
// engine's allowlist before reaching the store.
type Sort struct {
	Field     SortField
	Ascending bool
}

type SortField string

const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// Page selects a window of the filtered, sorted listing.
type Page struct {
	Offset int
	Limit  int
}

// Store is the persistence collaborator. Implementations return errs-kind
// errors: NotFound for absent records, AlreadyExists for per-owner name
// conflicts (global email conflicts for users), Internal for engine faults.
type Store interface {
	// Create persists a new record.
	Create(ctx context.Context, record *Record) error
	// Get loads a record by type and id.
	Get(ctx context.Context, typ scopes.Resource, id uuid.UUID) (*Record, error)
	// GetByAttr loads the record whose attribute bag carries key=value.
	GetByAttr(ctx context.Context, typ scopes.Resource, key, value string) (*Record, error)
	// GetBySecretHash loads a credential record by its stored secret hash.
	GetBySecretHash(ctx context.Context, typ scopes.Resource, hash string) (*Record, error)
	// Update overwrites an existing record. Two concurrent updates race and
	// the later write wins; there is no version check.
	Update(ctx context.Context, record *Record) error
	// Delete removes a record, reporting NotFound if it was already gone.
	Delete(ctx context.Context, typ scopes.Resource, id uuid.UUID) error
	// List executes a filter/sort/page specification and returns the page
	// plus the total count before pagination.
	List(ctx context.Context, typ scopes.Resource, filter Filter, sort Sort, page Page) ([]*Record, int, error)

	Close() error
}

// Clock supplies timestamps for audit stamping, injected for testability.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns UTC wall time.
func SystemClock() Clock {
	return ClockFunc(func() time.Time {
		return time.Now().UTC()
	})
}
