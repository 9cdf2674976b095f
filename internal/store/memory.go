package store

import (
	"context"
	"crypto/subtle"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/pkg/xregexp"
	"github.com/embedhub/embedhub/internal/scopes"
)

// Memory is an in-process Store used by tests and single-node development
// runs. It executes the same filter/sort/pagination specifications as the
// SQL store.
type Memory struct {
	mu      sync.RWMutex
	records map[scopes.Resource]map[uuid.UUID]*Record
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		records: make(map[scopes.Resource]map[uuid.UUID]*Record),
	}
}

func (s *Memory) Create(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.records[record.Type]
	if byID == nil {
		byID = make(map[uuid.UUID]*Record)
		s.records[record.Type] = byID
	}

	for _, existing := range byID {
		if existing.OwnerID == record.OwnerID && strings.EqualFold(existing.Name, record.Name) {
			return errs.AlreadyExistsf("%s named %q already exists for owner %s", record.Type, record.Name, record.OwnerID)
		}
	}

	if email, ok := record.Attrs[AttrEmail]; ok {
		for _, existing := range byID {
			if strings.EqualFold(existing.Attrs[AttrEmail], email) {
				return errs.AlreadyExistsf("%s with email %q already exists", record.Type, email)
			}
		}
	}

	byID[record.ID] = record.Clone()

	return nil
}

func (s *Memory) Get(ctx context.Context, typ scopes.Resource, id uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, ok := s.records[typ][id]; ok {
		return record.Clone(), nil
	}

	return nil, errs.NotFoundf("%s %s not found", typ, id)
}

func (s *Memory) GetByAttr(ctx context.Context, typ scopes.Resource, key, value string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records[typ] {
		if strings.EqualFold(record.Attrs[key], value) {
			return record.Clone(), nil
		}
	}

	return nil, errs.NotFoundf("%s with %s %q not found", typ, key, value)
}

func (s *Memory) GetBySecretHash(ctx context.Context, typ scopes.Resource, hash string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records[typ] {
		if record.SecretHash != "" && subtle.ConstantTimeCompare([]byte(record.SecretHash), []byte(hash)) == 1 {
			return record.Clone(), nil
		}
	}

	return nil, errs.NotFoundf("%s credential not found", typ)
}

func (s *Memory) Update(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.records[record.Type]
	if _, ok := byID[record.ID]; !ok {
		return errs.NotFoundf("%s %s not found", record.Type, record.ID)
	}

	for id, existing := range byID {
		if id != record.ID && existing.OwnerID == record.OwnerID && strings.EqualFold(existing.Name, record.Name) {
			return errs.AlreadyExistsf("%s named %q already exists for owner %s", record.Type, record.Name, record.OwnerID)
		}
	}

	byID[record.ID] = record.Clone()

	return nil
}

func (s *Memory) Delete(ctx context.Context, typ scopes.Resource, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[typ][id]; !ok {
		return errs.NotFoundf("%s %s not found", typ, id)
	}

	delete(s.records[typ], id)

	return nil
}

func (s *Memory) List(ctx context.Context, typ scopes.Resource, filter Filter, sortBy Sort, page Page) ([]*Record, int, error) {
	s.mu.RLock()

	matched := make([]*Record, 0)

	for _, record := range s.records[typ] {
		if matches(record, filter) {
			matched = append(matched, record.Clone())
		}
	}

	s.mu.RUnlock()

	orderRecords(matched, sortBy)

	total := len(matched)

	return paginate(matched, page), total, nil
}

func (s *Memory) Close() error {
	return nil
}

func matches(record *Record, filter Filter) bool {
	if filter.OwnerID != nil && record.OwnerID != *filter.OwnerID {
		return false
	}

	if filter.NameGlob != "" && !xregexp.MatchGlob(filter.NameGlob, record.Name) {
		return false
	}

	for key, value := range filter.Labels {
		if record.Labels[key] != value {
			return false
		}
	}

	if filter.RestrictOwnerID != nil {
		if record.OwnerID != *filter.RestrictOwnerID && !(filter.IncludePublic && record.PublicRead) {
			return false
		}
	}

	return true
}

// orderRecords sorts by the resolved field, then by id as a stable
// tie-breaker so page boundaries stay deterministic under duplicate keys.
func orderRecords(records []*Record, by Sort) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]

		var less, equal bool

		switch by.Field {
		case SortByName:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			less, equal = an < bn, an == bn
		case SortByUpdatedAt:
			less, equal = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}

		if equal {
			return a.ID.String() < b.ID.String()
		}

		if by.Ascending {
			return less
		}

		return !less
	})
}

func paginate(records []*Record, page Page) []*Record {
	if page.Offset >= len(records) {
		return []*Record{}
	}

	end := len(records)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}

	return records[page.Offset:end]
}
