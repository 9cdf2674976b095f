package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: resources.type, resources.owner_id (2067)")))

	// Other constraint classes must not be reported as conflicts.
	require.False(t, isUniqueViolation(errors.New("constraint failed: NOT NULL constraint failed: resources.name (1299)")))
	require.False(t, isUniqueViolation(errors.New("constraint failed: CHECK constraint failed (275)")))
	require.False(t, isUniqueViolation(nil))
}
