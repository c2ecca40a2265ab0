package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	ck := assert.New(t)
	cfg := Default()
	ck.Equal(64*1024, cfg.Scan.BufferSize)
	ck.Equal(3, cfg.Zone.ContextLines)
	ck.True(cfg.Save.Backup)
	ck.False(cfg.Patch.StrictCheck)
}

func TestLoadOverrides(t *testing.T) {
	ck := assert.New(t)
	path := filepath.Join(t.TempDir(), "largexml.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
zone:
  contextLines: 7
patch:
  stateDir: /var/lib/largexml
  strictCheck: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	ck.Equal(7, cfg.Zone.ContextLines)
	ck.Equal("/var/lib/largexml", cfg.Patch.StateDir)
	ck.True(cfg.Patch.StrictCheck)
	// untouched sections keep defaults
	ck.Equal(64*1024, cfg.Scan.BufferSize)
	ck.Equal(4096, cfg.Zone.ByteBudget)
}

func TestLoadErrors(t *testing.T) {
	ck := assert.New(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	ck.Error(err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: [not a map"), 0o644))
	_, err = Load(path)
	ck.Error(err)
}
