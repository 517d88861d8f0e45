package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/database"
	"github.com/thenoetrevino/syllabus/internal/events"
	"github.com/thenoetrevino/syllabus/internal/models"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "syllabus")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvDatabasePath, "")
	t.Setenv(EnvThemeFile, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, models.DefaultCollection, cfg.Ordering.Collection)
	require.NotNil(t, cfg.Ordering.TraversalSlack)
	assert.Equal(t, chain.DefaultTraversalSlack, *cfg.Ordering.TraversalSlack)
	assert.False(t, cfg.Ordering.SyncLegacyIndex)
	assert.Equal(t, events.DefaultBuffer, cfg.Events.Buffer)
	assert.Equal(t, database.DefaultWatchInterval, cfg.Events.WatchInterval)
	assert.Equal(t, "default", cfg.ColorScheme.Preset)
	assert.NotEmpty(t, cfg.ColorScheme.Accent)
	assert.Empty(t, cfg.Database.Path)
}

func TestLoadConfigWithFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvDatabasePath, "")
	t.Setenv(EnvThemeFile, "")
	writeConfig(t, dir, `database:
  path: /tmp/courses.db
logging:
  level: debug
ordering:
  collection: spring
  traversal_slack: 0
  sync_legacy_index: true
events:
  watch_interval: 2s
theme:
  preset: monochrome
  accent: "#123456"
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/courses.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "spring", cfg.Ordering.Collection)
	assert.Equal(t, 0, *cfg.Ordering.TraversalSlack, "an explicit zero slack is kept")
	assert.True(t, cfg.Ordering.SyncLegacyIndex)
	assert.Equal(t, events.DefaultBuffer, cfg.Events.Buffer)
	assert.Equal(t, 2*time.Second, cfg.Events.WatchInterval)
	assert.Equal(t, "#123456", cfg.ColorScheme.Accent)
	assert.Equal(t, "#FFFFFF", cfg.ColorScheme.Title, "unset colors come from the preset")
}

func TestLoadConfig_EnvDatabaseOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvThemeFile, "")
	t.Setenv(EnvDatabasePath, "/override.db")
	writeConfig(t, dir, "database:\n  path: /from-file.db\n")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/override.db", cfg.Database.Path)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "ordering: [unclosed"},
		{"negative slack", "ordering:\n  traversal_slack: -1\n"},
		{"negative buffer", "events:\n  buffer: -5\n"},
		{"negative watch interval", "events:\n  watch_interval: -1s\n"},
		{"unknown level", "logging:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestThemeFileLoading(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvDatabasePath, "")

	themePath := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(themePath, []byte(`theme:
  accent: "#FF0000"
  title: "#00FF00"
`), 0o644))
	t.Setenv(EnvThemeFile, themePath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "#FF0000", cfg.ColorScheme.Accent)
	assert.Equal(t, "#00FF00", cfg.ColorScheme.Title)
	assert.NotEmpty(t, cfg.ColorScheme.ErrorFg, "other colors keep their defaults")
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvDatabasePath, "")
	t.Setenv(EnvThemeFile, "")

	cfg := Default()
	cfg.Ordering.Collection = "fall"
	cfg.Ordering.SyncLegacyIndex = true
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(dir, "syllabus", "config.yaml"))
	require.NoError(t, err)

	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fall", reloaded.Ordering.Collection)
	assert.True(t, reloaded.Ordering.SyncLegacyIndex)
}
