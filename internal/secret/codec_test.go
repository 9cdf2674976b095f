package secret

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecGenerate(t *testing.T) {
	t.Run("credential shape", func(t *testing.T) {
		codec := NewCodec(nil)

		credential, err := codec.Generate()
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(credential.Raw, Prefix))
		require.Len(t, credential.DisplayPrefix, displayPrefixLen)
		require.True(t, strings.HasPrefix(credential.Raw, credential.DisplayPrefix))
		require.Equal(t, Hash(credential.Raw), credential.Hash)
		require.NotContains(t, credential.Hash, credential.Raw)
	})

	t.Run("deterministic with injected source", func(t *testing.T) {
		codec := NewCodec(bytes.NewReader(make([]byte, 64)))

		first, err := codec.Generate()
		require.NoError(t, err)

		second, err := NewCodec(bytes.NewReader(make([]byte, 64))).Generate()
		require.NoError(t, err)

		require.Equal(t, first.Raw, second.Raw)
		require.Equal(t, first.Hash, second.Hash)
	})

	t.Run("distinct credentials from random source", func(t *testing.T) {
		codec := NewCodec(nil)

		first, err := codec.Generate()
		require.NoError(t, err)

		second, err := codec.Generate()
		require.NoError(t, err)

		require.NotEqual(t, first.Raw, second.Raw)
	})

	t.Run("exhausted source fails", func(t *testing.T) {
		codec := NewCodec(bytes.NewReader(make([]byte, 4)))

		_, err := codec.Generate()
		require.Error(t, err)
	})
}

func TestVerify(t *testing.T) {
	codec := NewCodec(nil)

	credential, err := codec.Generate()
	require.NoError(t, err)

	t.Run("correct secret", func(t *testing.T) {
		require.True(t, Verify(credential.Hash, credential.Raw))
	})

	t.Run("wrong secret", func(t *testing.T) {
		require.False(t, Verify(credential.Hash, credential.Raw+"x"))
	})

	t.Run("malformed stored hash", func(t *testing.T) {
		require.False(t, Verify("not-hex", credential.Raw))
		require.False(t, Verify("", credential.Raw))
	})
}
