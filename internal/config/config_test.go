package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfiguration_Defaults(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 2.0, cfg.Export.Scale)
	assert.Equal(t, 1000, cfg.Export.CanvasWidth)
	assert.Equal(t, 1414, cfg.Export.CanvasHeight)
	assert.Equal(t, 300*time.Millisecond, cfg.Export.SettleDelay)
	assert.True(t, cfg.Autosave.Enabled)
}

func TestLoadConfiguration_Overlay(t *testing.T) {
	path := writeFile(t, `
version: 1
storage:
  db_path: /tmp/studio/test.db
  data_dir: /tmp/studio/data
export:
  output_dir: /tmp/studio/out
  scale: 3
  canvas_width: 800
  canvas_height: 1131
  settle_delay: 1s
autosave:
  enabled: false
`)
	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/studio/test.db", cfg.Storage.DBPath)
	assert.Equal(t, 3.0, cfg.Export.Scale)
	assert.Equal(t, time.Second, cfg.Export.SettleDelay)
	assert.False(t, cfg.Autosave.Enabled)
	assert.Equal(t, "@every 1m", cfg.Autosave.Schedule, "unset keys keep defaults")
}

func TestLoadConfiguration_UnknownField(t *testing.T) {
	path := writeFile(t, "version: 1\nexport:\n  dpi: 300\n")
	_, err := LoadConfiguration(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dpi")
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	tests := map[string]string{
		"version":       "version: 2\n",
		"scale":         "version: 1\nexport:\n  scale: 0\n",
		"canvas":        "version: 1\nexport:\n  canvas_width: 10\n",
		"log level":     "version: 1\nlogging:\n  console:\n    level: loud\n",
		"no schedule":   "version: 1\nautosave:\n  enabled: true\n  schedule: \"\"\n",
		"log file mode": "version: 1\nlogging:\n  file:\n    level: normal\n    mode: sometimes\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfiguration(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDump_RoundTrip(t *testing.T) {
	cfg := Default()
	data, err := Dump(cfg)
	require.NoError(t, err)

	got, err := LoadConfiguration(writeFile(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoggingConfig_Prepare(t *testing.T) {
	dir := t.TempDir()
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: filepath.Join(dir, "studio.log"), Mode: "overwrite"},
	}
	log, err := conf.Prepare(os.Stderr, os.Stderr)
	require.NoError(t, err)
	log.Debug("hello from test")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "studio.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestLoggingConfig_PrepareNoFile(t *testing.T) {
	conf := LoggingConfig{ConsoleLogger: LoggerConfig{Level: "none"}, FileLogger: LoggerConfig{Level: "none"}}
	log, err := conf.Prepare(os.Stderr, os.Stderr)
	require.NoError(t, err)
	assert.NotNil(t, log)
}
