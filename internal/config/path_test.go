package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("tilde prefix", func(t *testing.T) {
		assert.Equal(t, filepath.Join(home, "finance"), ExpandPath("~/finance"))
	})

	t.Run("bare tilde", func(t *testing.T) {
		assert.Equal(t, home, ExpandPath("~"))
	})

	t.Run("environment variable", func(t *testing.T) {
		t.Setenv("FINKEEP_TEST_DIR", "/srv/finkeep")
		assert.Equal(t, "/srv/finkeep/data", ExpandPath("$FINKEEP_TEST_DIR/data"))
	})

	t.Run("plain path unchanged", func(t *testing.T) {
		assert.Equal(t, "/var/lib/finkeep", ExpandPath("/var/lib/finkeep"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", ExpandPath(""))
	})
}

func TestDefaultDataDir(t *testing.T) {
	dir := DefaultDataDir()
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir) || dir == "data")
}
