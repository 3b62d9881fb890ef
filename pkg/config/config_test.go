package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/fortrec/pkg/dtype"
)

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.MarkerWidth = 8
	cfg.ByteOrder = "big"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	order, err := loaded.Order()
	require.NoError(t, err)
	assert.Equal(t, dtype.Big, order)
}

func TestConfig_LoadMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.MarkerWidth = 3
	assert.Error(t, cfg.Validate())

	cfg.MarkerWidth = 8
	cfg.ByteOrder = "middle"
	assert.Error(t, cfg.Validate())
}

func TestConfig_LoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("marker_width: 5\n"), 0600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_DefaultOrderIsNative(t *testing.T) {
	order, err := (&Config{}).Order()
	require.NoError(t, err)
	assert.Equal(t, dtype.Native, order)
}
