package objects

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabelUpdate(t *testing.T) {
	existing := Labels{"env": "prod", "team": "search"}

	t.Run("none leaves labels unchanged", func(t *testing.T) {
		update := LabelUpdate{}
		require.Equal(t, LabelUpdateNone, update.Mode())
		require.True(t, update.Valid())
		require.Equal(t, existing, update.Apply(existing))
	})

	t.Run("replace swaps the map wholesale", func(t *testing.T) {
		update := LabelUpdate{Replace: Labels{"env": "staging"}}
		require.Equal(t, LabelUpdateReplace, update.Mode())

		result := update.Apply(existing)
		require.Equal(t, Labels{"env": "staging"}, result)
	})

	t.Run("replace with empty map clears all labels", func(t *testing.T) {
		update := LabelUpdate{Replace: Labels{}}
		require.Equal(t, LabelUpdateReplace, update.Mode())
		require.Empty(t, update.Apply(existing))
	})

	t.Run("merge overwrites and inserts, keeps the rest", func(t *testing.T) {
		update := LabelUpdate{Merge: Labels{"env": "staging", "tier": "gold"}}
		require.Equal(t, LabelUpdateMerge, update.Mode())

		result := update.Apply(existing)
		require.Equal(t, Labels{"env": "staging", "team": "search", "tier": "gold"}, result)
	})

	t.Run("merge has no removal semantics", func(t *testing.T) {
		update := LabelUpdate{Merge: Labels{}}

		result := update.Apply(existing)
		require.Equal(t, existing, result)
	})

	t.Run("apply never mutates the existing map", func(t *testing.T) {
		update := LabelUpdate{Merge: Labels{"env": "staging"}}
		_ = update.Apply(existing)
		require.Equal(t, "prod", existing["env"])
	})

	t.Run("both strategies at once is invalid", func(t *testing.T) {
		update := LabelUpdate{Replace: Labels{}, Merge: Labels{}}
		require.False(t, update.Valid())
	})
}

func TestLabelsClone(t *testing.T) {
	var nilLabels Labels

	cloned := nilLabels.Clone()
	require.NotNil(t, cloned)
	require.Empty(t, cloned)

	original := Labels{"a": "1"}
	cloned = original.Clone()
	cloned["a"] = "2"
	require.Equal(t, "1", original["a"])
}
