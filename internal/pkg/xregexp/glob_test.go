package xregexp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern string
		str     string
		want    bool
	}{
		{"*", "anything", true},
		{"*", "", true},
		{"alpha", "alpha", true},
		{"alpha", "Alpha", true},
		{"alpha", "alphabet", false},
		{"al*", "alphabet", true},
		{"*bet", "alphabet", true},
		{"*pha*", "alphabet", true},
		{"a?pha", "alpha", true},
		{"a?pha", "aalpha", false},
		{"a.b", "a.b", true},
		{"a.b", "axb", false},
		{"[abc]", "[abc]", true},
		{"[abc]", "a", false},
		{"", "", true},
		{"", "x", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, MatchGlob(tc.pattern, tc.str),
			"pattern %q against %q", tc.pattern, tc.str)
	}

	t.Run("patterns are cached across calls", func(t *testing.T) {
		require.True(t, MatchGlob("cache*", "cached"))
		require.True(t, MatchGlob("cache*", "caches"))
		require.False(t, MatchGlob("cache*", "stale"))
	})
}

func TestGlobToRegexp(t *testing.T) {
	require.Equal(t, "^.*$", GlobToRegexp("*"))
	require.Equal(t, "^a.b$", GlobToRegexp("a?b"))
	require.Equal(t, `^a\.b$`, GlobToRegexp("a.b"))
}

func TestGlobToLike(t *testing.T) {
	require.Equal(t, "%", GlobToLike("*"))
	require.Equal(t, "a_b", GlobToLike("a?b"))
	require.Equal(t, `a\%b`, GlobToLike("a%b"))
	require.Equal(t, `a\_b`, GlobToLike("a_b"))
	require.Equal(t, `a\\b`, GlobToLike(`a\b`))
}
