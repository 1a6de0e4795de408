package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recordstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "storage:\n  data_dir: /tmp/data\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/data", cfg.Storage.DataDir)
	require.Equal(t, 16, cfg.BufferPool.Capacity)
	require.Equal(t, PolicyFIFO, cfg.BufferPool.Policy)
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	path := writeConfig(t, "buffer_pool:\n  policy: mru\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveCapacity(t *testing.T) {
	path := writeConfig(t, "buffer_pool:\n  capacity: 0\n")
	_, err := Load(path)
	require.Error(t, err)
}
