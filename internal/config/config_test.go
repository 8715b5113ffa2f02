package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ridership/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data/raw", cfg.Paths.RawDir)
	assert.Equal(t, "data/processed", cfg.Paths.ProcessedDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, int32(2), cfg.Transform.PerDayPrecision)
	assert.Equal(t, "none", cfg.Tracing.Exporter)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Scraper.Headless)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_NoFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, Default().Paths, cfg.Paths)
	assert.Equal(t, Default().Transform, cfg.Transform)
}

func TestLoadFile_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
paths:
  raw_dir: input
  processed_file: out.csv
logging:
  level: debug
transform:
  per_day_precision: 4
scraper:
  timeout: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "input", cfg.Paths.RawDir)
	assert.Equal(t, "out.csv", cfg.Paths.ProcessedFile)
	assert.Equal(t, "data/processed", cfg.Paths.ProcessedDir, "untouched keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, int32(4), cfg.Transform.PerDayPrecision)
	assert.Equal(t, 5*time.Minute, cfg.Scraper.Timeout)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths:\n  raw_dir: from-file\n"), 0644))

	t.Setenv("RIDERSHIP_PATHS_RAW_DIR", "from-env")
	t.Setenv("RIDERSHIP_TRANSFORM_PER_DAY_PRECISION", "0")
	t.Setenv("RIDERSHIP_TRACING_EXPORTER", "stdout")
	t.Setenv("RIDERSHIP_SCRAPER_HEADLESS", "false")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Paths.RawDir)
	assert.Equal(t, int32(0), cfg.Transform.PerDayPrecision)
	assert.Equal(t, "stdout", cfg.Tracing.Exporter)
	assert.False(t, cfg.Scraper.Headless)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "unreadable yaml",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte("paths: [unclosed"), 0644))
				return path
			},
		},
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.yaml")
			},
		},
		{
			name: "invalid log level",
			setup: func(t *testing.T) string {
				t.Setenv("RIDERSHIP_LOGGING_LEVEL", "loud")
				return ""
			},
		},
		{
			name: "precision out of range",
			setup: func(t *testing.T) string {
				t.Setenv("RIDERSHIP_TRANSFORM_PER_DAY_PRECISION", "42")
				return ""
			},
		},
		{
			name: "unparseable env value",
			setup: func(t *testing.T) string {
				t.Setenv("RIDERSHIP_SCRAPER_TIMEOUT", "soon")
				return ""
			},
		},
		{
			name: "empty raw dir",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte("paths:\n  raw_dir: \"\"\n"), 0644))
				return path
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)

			cfg, err := LoadFile(path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig), "got %v", err)
		})
	}
}

func TestValidate_FilePathRequiredForFileOutput(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FilePath")

	cfg.Logging.Output = "console"
	assert.NoError(t, cfg.Validate())
}
