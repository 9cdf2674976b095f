package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"golang.org/x/sync/singleflight"

	"github.com/embedhub/embedhub/internal/authz"
	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/log"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/pkg/xcache"
	"github.com/embedhub/embedhub/internal/query"
	"github.com/embedhub/embedhub/internal/scopes"
	"github.com/embedhub/embedhub/internal/secret"
	"github.com/embedhub/embedhub/internal/store"
)

type APIKeyServiceParams struct {
	fx.In

	Store store.Store
	Clock store.Clock
	Query *query.Engine
	Codec *secret.Codec

	CacheConfig         xcache.Config
	PermissionValidator *PermissionValidator
}

type APIKeyService struct {
	*AbstractService

	query     *query.Engine
	codec     *secret.Codec
	validator *PermissionValidator

	cache xcache.Cache[*objects.APIKey]
	sfg   singleflight.Group
}

func NewAPIKeyService(params APIKeyServiceParams) *APIKeyService {
	return &APIKeyService{
		AbstractService: &AbstractService{store: params.Store, clock: params.Clock},
		query:           params.Query,
		codec:           params.Codec,
		validator:       params.PermissionValidator,
		cache:           xcache.NewFromConfig[*objects.APIKey](params.CacheConfig),
	}
}

type CreateAPIKeyInput struct {
	Name    string         `json:"name"`
	OwnerID string         `json:"ownerID"`
	Scopes  []string       `json:"scopes"`
	Labels  objects.Labels `json:"labels"`
}

// CreatedAPIKey pairs a new key with its raw secret, the only time the
// secret is ever visible.
type CreatedAPIKey struct {
	APIKey *objects.APIKey `json:"apiKey"`
	Secret string          `json:"secret"`
}

// CreateAPIKey mints a new key. The granted scopes must be within the
// creator's own reach.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, input CreateAPIKeyInput) (*CreatedAPIKey, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errs.InvalidArgumentf("api key name is required")
	}

	if len(input.Scopes) == 0 {
		return nil, errs.InvalidArgumentf("api key requires at least one scope")
	}

	if err := s.validator.CanGrantScopes(ctx, input.Scopes); err != nil {
		return nil, err
	}

	ownerID, err := authz.ResolveOwner(ctx, scopes.ResourceAPIKeys, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceAPIKeys, scopes.ActionCreate, ownerID); err != nil {
		return nil, err
	}

	credential, err := s.codec.Generate()
	if err != nil {
		return nil, errs.Internal("failed to generate api key secret", err)
	}

	now := s.now()
	actor := s.actorID(ctx)

	record := &store.Record{
		ID:            uuid.New(),
		Type:          scopes.ResourceAPIKeys,
		OwnerID:       ownerID,
		Name:          input.Name,
		Labels:        input.Labels.Clone(),
		Status:        string(objects.APIKeyStatusEnabled),
		SecretHash:    credential.Hash,
		DisplayPrefix: credential.DisplayPrefix,
		Attrs: map[string]string{
			store.AttrScopes: store.EncodeList(input.Scopes),
		},
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}

	return &CreatedAPIKey{
		APIKey: apiKeyFromRecord(record),
		Secret: credential.Raw,
	}, nil
}

type UpdateAPIKeyInput struct {
	Name   *string             `json:"name"`
	Scopes []string            `json:"scopes"`
	Labels objects.LabelUpdate `json:"labels"`
}

func (s *APIKeyService) UpdateAPIKey(ctx context.Context, id uuid.UUID, input UpdateAPIKeyInput) (*objects.APIKey, error) {
	if !input.Labels.Valid() {
		return nil, errs.InvalidArgumentf("labels update may set either replace or merge, not both")
	}

	record, err := s.store.Get(ctx, scopes.ResourceAPIKeys, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceAPIKeys, scopes.ActionUpdate, record.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, errs.InvalidArgumentf("api key name is required")
		}

		record.Name = *input.Name
	}

	if input.Scopes != nil {
		if len(input.Scopes) == 0 {
			return nil, errs.InvalidArgumentf("api key requires at least one scope")
		}

		if err := s.validator.CanGrantScopes(ctx, input.Scopes); err != nil {
			return nil, err
		}

		record.Attrs[store.AttrScopes] = store.EncodeList(input.Scopes)
	}

	record.Labels = input.Labels.Apply(record.Labels)
	record.UpdatedAt = s.now()
	record.UpdatedBy = s.actorID(ctx)

	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	s.invalidate(ctx, record.SecretHash)

	return apiKeyFromRecord(record), nil
}

// UpdateAPIKeyStatus enables or disables a key. Disabling takes effect on
// the authentication path as soon as the cache entry is dropped.
func (s *APIKeyService) UpdateAPIKeyStatus(ctx context.Context, id uuid.UUID, status objects.APIKeyStatus) (*objects.APIKey, error) {
	switch status {
	case objects.APIKeyStatusEnabled, objects.APIKeyStatusDisabled:
	default:
		return nil, errs.InvalidArgumentf("unknown api key status %q", status)
	}

	record, err := s.store.Get(ctx, scopes.ResourceAPIKeys, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceAPIKeys, scopes.ActionUpdate, record.OwnerID); err != nil {
		return nil, err
	}

	record.Status = string(status)
	record.UpdatedAt = s.now()
	record.UpdatedBy = s.actorID(ctx)

	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	s.invalidate(ctx, record.SecretHash)

	return apiKeyFromRecord(record), nil
}

func (s *APIKeyService) GetAPIKey(ctx context.Context, id uuid.UUID) (*objects.APIKey, error) {
	record, err := s.store.Get(ctx, scopes.ResourceAPIKeys, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceAPIKeys, scopes.ActionRead, record.OwnerID); err != nil {
		return nil, err
	}

	return apiKeyFromRecord(record), nil
}

func (s *APIKeyService) DeleteAPIKey(ctx context.Context, id uuid.UUID) error {
	record, err := s.store.Get(ctx, scopes.ResourceAPIKeys, id)
	if err != nil {
		return err
	}

	if err := authz.Authorize(ctx, scopes.ResourceAPIKeys, scopes.ActionDelete, record.OwnerID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, scopes.ResourceAPIKeys, id); err != nil {
		return err
	}

	s.invalidate(ctx, record.SecretHash)

	return nil
}

// APIKeyList is one page of keys.
type APIKeyList struct {
	Items      []*objects.APIKey `json:"items"`
	TotalCount int               `json:"totalCount"`
	HasMore    bool              `json:"hasMore"`
	NextOffset int               `json:"nextOffset"`
}

func (s *APIKeyService) ListAPIKeys(ctx context.Context, spec query.Spec) (*APIKeyList, error) {
	result, err := s.query.Query(ctx, scopes.ResourceAPIKeys, spec)
	if err != nil {
		return nil, err
	}

	items := make([]*objects.APIKey, len(result.Items))
	for i, record := range result.Items {
		items[i] = apiKeyFromRecord(record)
	}

	return &APIKeyList{
		Items:      items,
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore(),
		NextOffset: result.NextOffset(),
	}, nil
}

// AuthenticateAPIKey resolves a presented raw secret to its key. The lookup
// runs with a system bypass since there is no principal yet; hits are cached
// briefly and concurrent lookups for the same secret are deduplicated.
func (s *APIKeyService) AuthenticateAPIKey(ctx context.Context, raw string) (*objects.APIKey, error) {
	if !strings.HasPrefix(raw, secret.Prefix) {
		return nil, ErrInvalidAPIKey
	}

	hash := secret.Hash(raw)
	cacheKey := apiKeyCacheKey(hash)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		if !cached.Enabled() {
			return nil, ErrInvalidAPIKey
		}

		return cached, nil
	}

	value, err, _ := s.sfg.Do(cacheKey, func() (any, error) {
		return s.lookupBySecret(ctx, raw, hash)
	})
	if err != nil {
		return nil, err
	}

	apiKey := value.(*objects.APIKey)

	if err := s.cache.Set(ctx, cacheKey, apiKey); err != nil {
		log.Warn(ctx, "failed to cache api key", log.Cause(err))
	}

	if !apiKey.Enabled() {
		return nil, ErrInvalidAPIKey
	}

	return apiKey, nil
}

func (s *APIKeyService) lookupBySecret(ctx context.Context, raw, hash string) (*objects.APIKey, error) {
	return authz.RunWithSystemBypass(ctx, "api_key.lookup", func(ctx context.Context) (*objects.APIKey, error) {
		record, err := s.store.GetBySecretHash(ctx, scopes.ResourceAPIKeys, hash)
		if err != nil {
			if errs.IsKind(err, errs.KindNotFound) {
				return nil, ErrInvalidAPIKey
			}

			return nil, err
		}

		if !secret.Verify(record.SecretHash, raw) {
			return nil, ErrInvalidAPIKey
		}

		// A deactivated owner takes all of their keys with them.
		owner, err := s.store.Get(ctx, scopes.ResourceUsers, record.OwnerID)
		if err != nil {
			if errs.IsKind(err, errs.KindNotFound) {
				return nil, ErrInvalidAPIKey
			}

			return nil, err
		}

		if owner.Status != string(objects.UserStatusActivated) {
			return nil, ErrInvalidAPIKey
		}

		return apiKeyFromRecord(record), nil
	})
}

// InvalidateOwnerKeys drops cached auth entries for every key the owner
// holds, so an owner deactivation takes effect immediately instead of after
// the cache TTL.
func (s *APIKeyService) InvalidateOwnerKeys(ctx context.Context, ownerID uuid.UUID) {
	_, err := authz.RunWithSystemBypass(ctx, "api_key.invalidate_owner", func(ctx context.Context) (struct{}, error) {
		records, _, err := s.store.List(ctx, scopes.ResourceAPIKeys, store.Filter{OwnerID: &ownerID}, store.Sort{}, store.Page{})
		if err != nil {
			return struct{}{}, err
		}

		for _, record := range records {
			if record.SecretHash != "" {
				s.invalidate(ctx, record.SecretHash)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		log.Warn(ctx, "failed to invalidate owner api keys",
			log.String("owner_id", ownerID.String()), log.Cause(err))
	}
}

func (s *APIKeyService) invalidate(ctx context.Context, secretHash string) {
	if err := s.cache.Delete(ctx, apiKeyCacheKey(secretHash)); err != nil {
		log.Debug(ctx, "failed to invalidate api key cache", log.Cause(err))
	}
}

func apiKeyCacheKey(secretHash string) string {
	return fmt.Sprintf("apikey:%x", xxhash.Sum64String(secretHash))
}

func apiKeyFromRecord(record *store.Record) *objects.APIKey {
	return &objects.APIKey{
		ID:            record.ID,
		OwnerID:       record.OwnerID,
		Name:          record.Name,
		DisplayPrefix: record.DisplayPrefix,
		SecretHash:    record.SecretHash,
		Status:        objects.APIKeyStatus(record.Status),
		Scopes:        store.DecodeList(record.Attrs[store.AttrScopes]),
		Labels:        record.Labels,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
		CreatedBy:     record.CreatedBy,
		UpdatedBy:     record.UpdatedBy,
	}
}
