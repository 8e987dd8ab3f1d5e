package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfigDir points the config commands at a temp directory.
func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	original := configDir
	configDir = dir
	t.Cleanup(func() { configDir = original })
	return dir
}

func TestConfigPathCmd(t *testing.T) {
	dir := withConfigDir(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "config.toml"))
}

func TestConfigShowCmd_Defaults(t *testing.T) {
	withConfigDir(t)

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "mode:             mock")
	assert.Contains(t, out, "chunk size:       500 runes (100 overlap)")
	assert.Contains(t, out, "top k:            5")
}

func TestConfigInitCmd_WritesFile(t *testing.T) {
	dir := withConfigDir(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	assert.FileExists(t, filepath.Join(dir, "config.toml"))
}
