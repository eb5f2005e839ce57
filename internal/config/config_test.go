package config

import (
	"testing"

	"gostai/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"STAI_DATA_FILE", "STAI_ALPHA", "STAI_OUTPUT_DIR", "STAI_FORMAT", "STAI_PLOTS", "STAI_PLOT_SEED", "STAI_PLOT_DPI", "STAI_SUMMARY_XLSX", "STAI_COLOR"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultDataFile, cfg.Data.File)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.True(t, cfg.Plot.Enabled)
	assert.Equal(t, int64(42), cfg.Plot.Seed)
	assert.Equal(t, 300, cfg.Plot.DPI)
	assert.False(t, cfg.Output.SummaryXLSX)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STAI_DATA_FILE", "survey.xlsx")
	t.Setenv("STAI_ALPHA", "0.01")
	t.Setenv("STAI_FORMAT", "Markdown")
	t.Setenv("STAI_PLOTS", "false")
	t.Setenv("STAI_PLOT_SEED", "7")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "survey.xlsx", cfg.Data.File)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.Equal(t, FormatMarkdown, cfg.Output.Format)
	assert.False(t, cfg.Plot.Enabled)
	assert.Equal(t, int64(7), cfg.Plot.Seed)
}

func TestFromEnv_RejectsBadAlpha(t *testing.T) {
	t.Setenv("STAI_ALPHA", "1.5")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidate_Format(t *testing.T) {
	t.Setenv("STAI_FORMAT", "")
	cfg, err := FromEnv()
	require.NoError(t, err)

	cfg.Output.Format = "pdf"
	assert.Error(t, cfg.Validate())
}
