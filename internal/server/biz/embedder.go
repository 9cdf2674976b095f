package biz

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/authz"
	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/query"
	"github.com/embedhub/embedhub/internal/scopes"
	"github.com/embedhub/embedhub/internal/store"
)

type EmbedderServiceParams struct {
	fx.In

	Store store.Store
	Clock store.Clock
	Query *query.Engine
}

type EmbedderService struct {
	*AbstractService

	query *query.Engine
}

func NewEmbedderService(params EmbedderServiceParams) *EmbedderService {
	return &EmbedderService{
		AbstractService: &AbstractService{store: params.Store, clock: params.Clock},
		query:           params.Query,
	}
}

type CreateEmbedderInput struct {
	Name       string         `json:"name"`
	Provider   string         `json:"provider"`
	Model      string         `json:"model"`
	Dimensions int            `json:"dimensions"`
	OwnerID    string         `json:"ownerID"`
	PublicRead bool           `json:"publicRead"`
	Labels     objects.Labels `json:"labels"`
}

func (input CreateEmbedderInput) validate() error {
	if strings.TrimSpace(input.Name) == "" {
		return errs.InvalidArgumentf("embedder name is required")
	}

	if strings.TrimSpace(input.Provider) == "" {
		return errs.InvalidArgumentf("embedder provider is required")
	}

	if strings.TrimSpace(input.Model) == "" {
		return errs.InvalidArgumentf("embedder model is required")
	}

	if input.Dimensions <= 0 {
		return errs.InvalidArgumentf("embedder dimensions must be positive, got %d", input.Dimensions)
	}

	return nil
}

// CreateEmbedder registers an embedder configuration for the resolved owner.
func (s *EmbedderService) CreateEmbedder(ctx context.Context, input CreateEmbedderInput) (*objects.Embedder, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ownerID, err := authz.ResolveOwner(ctx, scopes.ResourceEmbedders, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceEmbedders, scopes.ActionCreate, ownerID); err != nil {
		return nil, err
	}

	now := s.now()
	actor := s.actorID(ctx)

	record := &store.Record{
		ID:         uuid.New(),
		Type:       scopes.ResourceEmbedders,
		OwnerID:    ownerID,
		Name:       input.Name,
		Labels:     input.Labels.Clone(),
		PublicRead: input.PublicRead,
		Attrs: map[string]string{
			store.AttrProvider:   input.Provider,
			store.AttrModel:      input.Model,
			store.AttrDimensions: strconv.Itoa(input.Dimensions),
		},
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}

	return embedderFromRecord(record), nil
}

type UpdateEmbedderInput struct {
	Name       *string             `json:"name"`
	Provider   *string             `json:"provider"`
	Model      *string             `json:"model"`
	Dimensions *int                `json:"dimensions"`
	PublicRead *bool               `json:"publicRead"`
	Labels     objects.LabelUpdate `json:"labels"`
}

func (s *EmbedderService) UpdateEmbedder(ctx context.Context, id uuid.UUID, input UpdateEmbedderInput) (*objects.Embedder, error) {
	if !input.Labels.Valid() {
		return nil, errs.InvalidArgumentf("labels update may set either replace or merge, not both")
	}

	record, err := s.store.Get(ctx, scopes.ResourceEmbedders, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceEmbedders, scopes.ActionUpdate, record.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, errs.InvalidArgumentf("embedder name is required")
		}

		record.Name = *input.Name
	}

	if input.Provider != nil {
		if strings.TrimSpace(*input.Provider) == "" {
			return nil, errs.InvalidArgumentf("embedder provider is required")
		}

		record.Attrs[store.AttrProvider] = *input.Provider
	}

	if input.Model != nil {
		if strings.TrimSpace(*input.Model) == "" {
			return nil, errs.InvalidArgumentf("embedder model is required")
		}

		record.Attrs[store.AttrModel] = *input.Model
	}

	if input.Dimensions != nil {
		if *input.Dimensions <= 0 {
			return nil, errs.InvalidArgumentf("embedder dimensions must be positive, got %d", *input.Dimensions)
		}

		record.Attrs[store.AttrDimensions] = strconv.Itoa(*input.Dimensions)
	}

	if input.PublicRead != nil {
		record.PublicRead = *input.PublicRead
	}

	record.Labels = input.Labels.Apply(record.Labels)
	record.UpdatedAt = s.now()
	record.UpdatedBy = s.actorID(ctx)

	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	return embedderFromRecord(record), nil
}

func (s *EmbedderService) GetEmbedder(ctx context.Context, id uuid.UUID) (*objects.Embedder, error) {
	record, err := s.store.Get(ctx, scopes.ResourceEmbedders, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeRead(ctx, scopes.ResourceEmbedders, record); err != nil {
		return nil, err
	}

	return embedderFromRecord(record), nil
}

// DeleteEmbedder deletes an embedder. Spaces referencing it keep the dangling
// id; reads tolerate the missing reference.
func (s *EmbedderService) DeleteEmbedder(ctx context.Context, id uuid.UUID) error {
	record, err := s.store.Get(ctx, scopes.ResourceEmbedders, id)
	if err != nil {
		return err
	}

	if err := authz.Authorize(ctx, scopes.ResourceEmbedders, scopes.ActionDelete, record.OwnerID); err != nil {
		return err
	}

	return s.store.Delete(ctx, scopes.ResourceEmbedders, id)
}

// EmbedderList is one page of embedders.
type EmbedderList struct {
	Items      []*objects.Embedder `json:"items"`
	TotalCount int                 `json:"totalCount"`
	HasMore    bool                `json:"hasMore"`
	NextOffset int                 `json:"nextOffset"`
}

func (s *EmbedderService) ListEmbedders(ctx context.Context, spec query.Spec) (*EmbedderList, error) {
	result, err := s.query.Query(ctx, scopes.ResourceEmbedders, spec)
	if err != nil {
		return nil, err
	}

	items := make([]*objects.Embedder, len(result.Items))
	for i, record := range result.Items {
		items[i] = embedderFromRecord(record)
	}

	return &EmbedderList{
		Items:      items,
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore(),
		NextOffset: result.NextOffset(),
	}, nil
}

func embedderFromRecord(record *store.Record) *objects.Embedder {
	dimensions, _ := strconv.Atoi(record.Attrs[store.AttrDimensions])

	return &objects.Embedder{
		ID:         record.ID,
		OwnerID:    record.OwnerID,
		Name:       record.Name,
		Provider:   record.Attrs[store.AttrProvider],
		Model:      record.Attrs[store.AttrModel],
		Dimensions: dimensions,
		PublicRead: record.PublicRead,
		Labels:     record.Labels,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
		CreatedBy:  record.CreatedBy,
		UpdatedBy:  record.UpdatedBy,
	}
}
