package sh

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/shx.yaml", []byte("debug: true\nreaper_poll_limit: 10\n"), 0644)

	cfg, err := LoadConfig(fs, "/shx.yaml")
	require.NoError(t, err)
	require.True(t, cfg.Debug)
	require.Equal(t, 10, cfg.ReaperPollLimit)
	require.True(t, cfg.EnableReaper, "enable_reaper default must survive when the file doesn't set it")
}

func TestLoadConfigRejectsBadPollLimit(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/shx.yaml", []byte("reaper_poll_limit: 0\n"), 0644)

	_, err := LoadConfig(fs, "/shx.yaml")
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := LoadConfig(fs, "/nope.yaml")
	require.Error(t, err)
}
