// Package xregexp provides cached pattern matching for resource name globs.
// Patterns support * (any run) and ? (any single character); every other
// character matches literally, so regex metacharacters are escaped here and
// never left to the caller.
package xregexp

import (
	"strings"

	"github.com/dlclark/regexp2/v2"

	"github.com/embedhub/embedhub/internal/pkg/xmap"
)

type globCache struct {
	regex      *regexp2.Regexp
	compileErr bool
}

var globalCache = xmap.New[string, *globCache]()

// MatchGlob reports whether str matches the glob pattern, case-insensitively.
func MatchGlob(pattern string, str string) bool {
	cached := getOrCompile(pattern)
	if cached.compileErr {
		return false
	}

	match, _ := cached.regex.MatchString(str)

	return match
}

func getOrCompile(pattern string) *globCache {
	if cached, ok := globalCache.Load(pattern); ok {
		return cached
	}

	cached := &globCache{}

	compiled, err := regexp2.Compile(GlobToRegexp(pattern), regexp2.IgnoreCase)
	if err != nil {
		cached.compileErr = true
	} else {
		cached.regex = compiled
	}

	globalCache.Store(pattern, cached)

	return cached
}

// GlobToRegexp translates a glob pattern to an anchored regular expression,
// escaping everything except the glob metacharacters.
func GlobToRegexp(pattern string) string {
	var sb strings.Builder

	sb.WriteString("^")

	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp2.Escape(string(r)))
		}
	}

	sb.WriteString("$")

	return sb.String()
}

// GlobToLike translates a glob pattern to a SQL LIKE pattern with backslash
// escaping, for stores that push name matching into the database.
func GlobToLike(pattern string) string {
	var sb strings.Builder

	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString("%")
		case '?':
			sb.WriteString("_")
		case '%', '_', '\\':
			sb.WriteString("\\")
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
