package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jwt.secret")

	first, err := LoadOrGenerateSecret(path, 32)
	require.NoError(t, err)
	require.Len(t, first, 43)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Second load returns the persisted value
	second, err := LoadOrGenerateSecret(path, 32)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLoadOrGenerateSecret_Errors(t *testing.T) {
	t.Run("bad size", func(t *testing.T) {
		_, err := LoadOrGenerateSecret(filepath.Join(t.TempDir(), "s"), 0)
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "s")
		require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))
		_, err := LoadOrGenerateSecret(path, 32)
		require.Error(t, err)
	})
}

func TestGetPepperIsStable(t *testing.T) {
	a := GetPepper()
	b := GetPepper()
	require.NotEmpty(t, a)
	require.Equal(t, a, b)
}
