package biz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/query"
)

func TestCreateEmbedder(t *testing.T) {
	valid := CreateEmbedderInput{
		Name: "minilm", Provider: "local", Model: "all-MiniLM-L6-v2", Dimensions: 384,
	}

	t.Run("creates with provider metadata", func(t *testing.T) {
		env := setupTestEnv(t)
		actorID := uuid.New()

		embedder, err := env.Embedders.CreateEmbedder(memberCtx(t, actorID), valid)
		require.NoError(t, err)
		require.Equal(t, actorID, embedder.OwnerID)
		require.Equal(t, "local", embedder.Provider)
		require.Equal(t, "all-MiniLM-L6-v2", embedder.Model)
		require.Equal(t, 384, embedder.Dimensions)
	})

	t.Run("input validation", func(t *testing.T) {
		env := setupTestEnv(t)
		ctx := memberCtx(t, uuid.New())

		cases := []struct {
			name   string
			mutate func(input *CreateEmbedderInput)
		}{
			{"missing name", func(input *CreateEmbedderInput) { input.Name = " " }},
			{"missing provider", func(input *CreateEmbedderInput) { input.Provider = "" }},
			{"missing model", func(input *CreateEmbedderInput) { input.Model = "" }},
			{"zero dimensions", func(input *CreateEmbedderInput) { input.Dimensions = 0 }},
			{"negative dimensions", func(input *CreateEmbedderInput) { input.Dimensions = -1 }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				input := valid
				tc.mutate(&input)

				_, err := env.Embedders.CreateEmbedder(ctx, input)
				require.True(t, errs.IsKind(err, errs.KindInvalidArgument))
			})
		}
	})
}

func TestEmbedderLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	actorID := uuid.New()
	ctx := memberCtx(t, actorID)

	embedder, err := env.Embedders.CreateEmbedder(ctx, CreateEmbedderInput{
		Name: "minilm", Provider: "local", Model: "all-MiniLM-L6-v2", Dimensions: 384,
	})
	require.NoError(t, err)

	t.Run("partial update keeps the rest intact", func(t *testing.T) {
		updated, err := env.Embedders.UpdateEmbedder(ctx, embedder.ID, UpdateEmbedderInput{
			Model: strPtr("all-mpnet-base-v2"),
		})
		require.NoError(t, err)
		require.Equal(t, "all-mpnet-base-v2", updated.Model)
		require.Equal(t, "local", updated.Provider)
		require.Equal(t, 384, updated.Dimensions)
	})

	t.Run("foreign member cannot read a private embedder", func(t *testing.T) {
		_, err := env.Embedders.GetEmbedder(memberCtx(t, uuid.New()), embedder.ID)
		require.True(t, errs.IsKind(err, errs.KindPermissionDenied))
	})

	t.Run("listing stays within the owner's view", func(t *testing.T) {
		list, err := env.Embedders.ListEmbedders(ctx, query.Spec{})
		require.NoError(t, err)
		require.Equal(t, 1, list.TotalCount)
	})

	t.Run("delete leaves referencing spaces intact", func(t *testing.T) {
		space, err := env.Spaces.CreateSpace(ctx, CreateSpaceInput{
			Name:       "docs",
			EmbedderID: embedder.ID.String(),
		})
		require.NoError(t, err)

		require.NoError(t, env.Embedders.DeleteEmbedder(ctx, embedder.ID))

		got, err := env.Spaces.GetSpace(ctx, space.ID)
		require.NoError(t, err)
		require.Equal(t, embedder.ID, got.EmbedderID)
	})
}
