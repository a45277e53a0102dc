package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// CONFIG TESTS
// ============================================================================

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Load.ChunkSize)
	assert.Equal(t, 10, cfg.Load.MaxErrors)
	assert.False(t, cfg.Load.Strict)
	assert.Equal(t, 10, cfg.Metrics.TopN)
	assert.Equal(t, 30, cfg.Metrics.HistogramBins)
	assert.Equal(t, 0.95, cfg.Metrics.Percentile)
	assert.Equal(t, 16, cfg.Dashboard.CacheSize)
	assert.Equal(t, []string{"overview", "revenue", "operations"}, cfg.Dashboard.Sections)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Export.Format)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ridepulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  path: s3://rides/ncr.csv
  region: ap-south-1
load:
  strict: true
metrics:
  top-n: 5
dashboard:
  sections: [left, right]
  timeout: 2m
export:
  format: xlsx
`), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "s3://rides/ncr.csv", cfg.Source.Path)
	assert.Equal(t, "ap-south-1", cfg.Source.Region)
	assert.True(t, cfg.Load.Strict)
	assert.Equal(t, 5, cfg.Metrics.TopN)
	assert.Equal(t, []string{"left", "right"}, cfg.Dashboard.Sections)
	assert.Equal(t, 2*time.Minute, cfg.Dashboard.Timeout)
	assert.Equal(t, "xlsx", cfg.Export.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RIDEPULSE_METRICS_TOP_N", "7")
	t.Setenv("RIDEPULSE_LOAD_STRICT", "true")
	t.Setenv("RIDEPULSE_DASHBOARD_SECTIONS", "a,b,c")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Metrics.TopN)
	assert.True(t, cfg.Load.Strict)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Dashboard.Sections)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"bad level", "logging.level", "verbose"},
		{"bad format", "export.format", "pdf"},
		{"percentile above one", "metrics.percentile", 1.5},
		{"zero top-n", "metrics.top-n", 0},
		{"no sections", "dashboard.sections", []string{}},
		{"file output without path", "logging.output", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := Load(v, "")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

// ============================================================================
// LOGGER TESTS
// ============================================================================

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "ridepulse", entry["app"])
	assert.Equal(t, 3.0, entry["rows"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(LoggingConfig{Level: "debug", Format: "text"}, &buf).Debug("loaded")
	assert.Contains(t, buf.String(), "msg=loaded")
	assert.Contains(t, buf.String(), "app=ridepulse")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestOpenLogOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ridepulse.log")
	w, closer, err := OpenLogOutput(LoggingConfig{Output: "file", FilePath: path})
	require.NoError(t, err)

	NewLogger(LoggingConfig{Level: "info"}, w).Info("written")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}
