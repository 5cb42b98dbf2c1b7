package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "./.backscroll/system.log", cfg.Logging.LogFile)
	assert.False(t, cfg.Logging.Preserve)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.Equal(t, "./.backscroll/history.db", cfg.History.Path)
	assert.False(t, cfg.History.HideServer)

	assert.Equal(t, 200, cfg.Scrollback.WindowSize)
	assert.Equal(t, 1.0, cfg.Scrollback.RowHeight)
	assert.Equal(t, 3.0, cfg.Scrollback.BufferPages)
	assert.Equal(t, 10, cfg.Scrollback.MinGrowth)
	assert.Equal(t, 50*time.Millisecond, cfg.Scrollback.RetryDelay)
	assert.True(t, cfg.Scrollback.MarkReadOnBottom)
	assert.True(t, cfg.Scrollback.InfiniteScroll)

	assert.Equal(t, 100, cfg.Backfill.PageSize)
	assert.Equal(t, 2.0, cfg.Backfill.Rate)
	assert.Equal(t, 1, cfg.Backfill.Burst)

	assert.True(t, cfg.Display.Markdown)
	assert.Equal(t, "15:04", cfg.Display.TimestampFormat)

	assert.Same(t, cfg, Get())
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test-settings.yaml")

	configContent := `
logging:
  log_file: /tmp/test.log
  preserve: true
  level: debug
history:
  path: ":memory:"
  hide_server: true
scrollback:
  window_size: 50
  buffer_pages: 1.5
  retry_delay: "120ms"
  mark_read_on_bottom: false
backfill:
  page_size: 25
  rate: 0.5
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	viper.Reset()

	cfg, err := Load(configFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/tmp/test.log", cfg.Logging.LogFile)
	assert.True(t, cfg.Logging.Preserve)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":memory:", cfg.History.Path)
	assert.True(t, cfg.History.HideServer)
	assert.Equal(t, 50, cfg.Scrollback.WindowSize)
	assert.Equal(t, 1.5, cfg.Scrollback.BufferPages)
	assert.Equal(t, 120*time.Millisecond, cfg.Scrollback.RetryDelay)
	assert.False(t, cfg.Scrollback.MarkReadOnBottom)
	assert.Equal(t, 25, cfg.Backfill.PageSize)
	assert.Equal(t, 0.5, cfg.Backfill.Rate)

	// Untouched keys keep their defaults
	assert.Equal(t, 1.0, cfg.Scrollback.RowHeight)
	assert.True(t, cfg.Scrollback.InfiniteScroll)
	assert.Equal(t, filepath.Join(tmpDir, "test-settings.yaml"), GetConfigFileUsed())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BACKSCROLL_HISTORY_PATH", "/var/tmp/chat.db")
	t.Setenv("BACKSCROLL_HISTORY_HIDE_SERVER", "true")
	t.Setenv("BACKSCROLL_SCROLLBACK_WINDOW_SIZE", "75")
	t.Setenv("BACKSCROLL_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/var/tmp/chat.db", cfg.History.Path)
	assert.True(t, cfg.History.HideServer)
	assert.Equal(t, 75, cfg.Scrollback.WindowSize)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"zero window", "scrollback:\n  window_size: 0\n", "scrollback.window_size"},
		{"negative row height", "scrollback:\n  row_height: -2\n", "scrollback.row_height"},
		{"negative buffer", "scrollback:\n  buffer_pages: -1\n", "scrollback.buffer_pages"},
		{"zero page size", "backfill:\n  page_size: 0\n", "backfill.page_size"},
		{"bad retry delay", "scrollback:\n  retry_delay: \"soon\"\n", "retry_delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "settings.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.content), 0644))

			viper.Reset()
			_, err := Load(configFile)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	viper.Reset()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildSettingsPath(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	viper.Set("config.path", dir)

	assert.Equal(t, filepath.Join(dir, "system.log"), BuildSettingsPath("system.log"))
}

func TestWriteDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := Load("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	require.NoError(t, WriteDefaults(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "window_size: 200")

	assert.Error(t, WriteDefaults(path), "an existing file is kept")

	viper.Reset()
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Scrollback.WindowSize)
	assert.Equal(t, 50*time.Millisecond, cfg.Scrollback.RetryDelay)
}
