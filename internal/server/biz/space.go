package biz

import (
	"context"
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

type SpaceServiceParams struct {
	fx.In

	Store store.Store
	Clock store.Clock
	Query *query.Engine
}

type SpaceService struct {
	*AbstractService

	query *query.Engine
}

func NewSpaceService(params SpaceServiceParams) *SpaceService {
	return &SpaceService{
		AbstractService: &AbstractService{store: params.Store, clock: params.Clock},
		query:           params.Query,
	}
}

type CreateSpaceInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	EmbedderID  string         `json:"embedderID"`
	OwnerID     string         `json:"ownerID"`
	PublicRead  bool           `json:"publicRead"`
	Labels      objects.Labels `json:"labels"`
}

// CreateSpace creates a new space for the resolved owner.
func (s *SpaceService) CreateSpace(ctx context.Context, input CreateSpaceInput) (*objects.Space, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errs.InvalidArgumentf("space name is required")
	}

	ownerID, err := authz.ResolveOwner(ctx, scopes.ResourceSpaces, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceSpaces, scopes.ActionCreate, ownerID); err != nil {
		return nil, err
	}

	var embedderID uuid.UUID

	if input.EmbedderID != "" {
		embedderID, err = uuid.Parse(input.EmbedderID)
		if err != nil {
			return nil, errs.InvalidArgumentf("malformed embedder id %q", input.EmbedderID)
		}

		// The embedder must exist and be readable by the actor.
		embedderRecord, err := s.store.Get(ctx, scopes.ResourceEmbedders, embedderID)
		if err != nil {
			return nil, err
		}

		if err := authorizeRead(ctx, scopes.ResourceEmbedders, embedderRecord); err != nil {
			return nil, err
		}
	}

	now := s.now()
	actor := s.actorID(ctx)

	record := &store.Record{
		ID:         uuid.New(),
		Type:       scopes.ResourceSpaces,
		OwnerID:    ownerID,
		Name:       input.Name,
		Labels:     input.Labels.Clone(),
		PublicRead: input.PublicRead,
		Attrs: map[string]string{
			store.AttrDescription: input.Description,
		},
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}

	if embedderID != uuid.Nil {
		record.Attrs[store.AttrEmbedderID] = embedderID.String()
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}

	return spaceFromRecord(record), nil
}

type UpdateSpaceInput struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	PublicRead  *bool               `json:"publicRead"`
	Labels      objects.LabelUpdate `json:"labels"`
}

// UpdateSpace updates an existing space. The record is loaded before the
// permission check, so NotFound surfaces ahead of PermissionDenied.
func (s *SpaceService) UpdateSpace(ctx context.Context, id uuid.UUID, input UpdateSpaceInput) (*objects.Space, error) {
	if !input.Labels.Valid() {
		return nil, errs.InvalidArgumentf("labels update may set either replace or merge, not both")
	}

	record, err := s.store.Get(ctx, scopes.ResourceSpaces, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceSpaces, scopes.ActionUpdate, record.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, errs.InvalidArgumentf("space name is required")
		}

		record.Name = *input.Name
	}

	if input.Description != nil {
		record.Attrs[store.AttrDescription] = *input.Description
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

	return spaceFromRecord(record), nil
}

// GetSpace loads a space by id.
func (s *SpaceService) GetSpace(ctx context.Context, id uuid.UUID) (*objects.Space, error) {
	record, err := s.store.Get(ctx, scopes.ResourceSpaces, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeRead(ctx, scopes.ResourceSpaces, record); err != nil {
		return nil, err
	}

	return spaceFromRecord(record), nil
}

// DeleteSpace deletes a space outright; there is no soft delete.
func (s *SpaceService) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	record, err := s.store.Get(ctx, scopes.ResourceSpaces, id)
	if err != nil {
		return err
	}

	if err := authz.Authorize(ctx, scopes.ResourceSpaces, scopes.ActionDelete, record.OwnerID); err != nil {
		return err
	}

	// A concurrent delete may have raced us; NotFound is reported as-is.
	return s.store.Delete(ctx, scopes.ResourceSpaces, id)
}

// SpaceList is one page of spaces.
type SpaceList struct {
	Items      []*objects.Space `json:"items"`
	TotalCount int              `json:"totalCount"`
	HasMore    bool             `json:"hasMore"`
	NextOffset int              `json:"nextOffset"`
}

// ListSpaces lists spaces visible to the current principal.
func (s *SpaceService) ListSpaces(ctx context.Context, spec query.Spec) (*SpaceList, error) {
	result, err := s.query.Query(ctx, scopes.ResourceSpaces, spec)
	if err != nil {
		return nil, err
	}

	items := make([]*objects.Space, len(result.Items))
	for i, record := range result.Items {
		items[i] = spaceFromRecord(record)
	}

	return &SpaceList{
		Items:      items,
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore(),
		NextOffset: result.NextOffset(),
	}, nil
}

// authorizeRead authorizes a read, admitting public-read records that the
// permission check alone would deny.
func authorizeRead(ctx context.Context, resource scopes.Resource, record *store.Record) error {
	err := authz.Authorize(ctx, resource, scopes.ActionRead, record.OwnerID)
	if err != nil && errs.IsKind(err, errs.KindPermissionDenied) && record.PublicRead {
		return nil
	}

	return err
}

func spaceFromRecord(record *store.Record) *objects.Space {
	space := &objects.Space{
		ID:          record.ID,
		OwnerID:     record.OwnerID,
		Name:        record.Name,
		Description: record.Attrs[store.AttrDescription],
		PublicRead:  record.PublicRead,
		Labels:      record.Labels,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		CreatedBy:   record.CreatedBy,
		UpdatedBy:   record.UpdatedBy,
	}

	if raw, ok := record.Attrs[store.AttrEmbedderID]; ok {
		if embedderID, err := uuid.Parse(raw); err == nil {
			space.EmbedderID = embedderID
		}
	}

	return space
}
