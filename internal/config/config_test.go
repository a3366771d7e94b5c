package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
spectra:
  filesystem_path: /data/spectra
  jobs_path: /data/jobs
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultAppLogLevel, cfg.App.LogLevel)
	assert.Equal(t, defaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, defaultFigureTTLSeconds, cfg.Server.FigureTTLSeconds)
	assert.Equal(t, defaultLegendHideThreshold, cfg.Spectra.LegendHideThreshold)
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
app:
  log_level: debug
server:
  addr: ":9000"
  figure_ttl_seconds: 60
spectra:
  filesystem_path: /srv/spectra
  jobs_path: /srv/jobs
  legend_hide_threshold: 3
  watch_roots: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 60, cfg.Server.FigureTTLSeconds)
	assert.Equal(t, "/srv/spectra", cfg.Spectra.FilesystemPath)
	assert.Equal(t, 3, cfg.Spectra.LegendHideThreshold)
	assert.True(t, cfg.Spectra.WatchRoots)
}

func TestLoadRequiresRootPaths(t *testing.T) {
	path := writeConfig(t, `
spectra:
  filesystem_path: /data/spectra
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs_path")
}

func TestLoadRejectsRelativeRoots(t *testing.T) {
	path := writeConfig(t, `
spectra:
  filesystem_path: data/spectra
  jobs_path: /data/jobs
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}
