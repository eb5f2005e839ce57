package config

import (
	"os"
	"strconv"
	"strings"

	"gostai/internal/errors"

	"github.com/joho/godotenv"
)

// Default input file and output folder, matching the survey deliverables
const (
	DefaultDataFile  = "element_judgment_29participants_complete.csv"
	DefaultOutputDir = "element_analysis"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Analysis AnalysisConfig
	Output   OutputConfig
	Plot     PlotConfig
	LogLevel string
}

// DataConfig holds input settings
type DataConfig struct {
	File string
}

// AnalysisConfig holds statistical settings
type AnalysisConfig struct {
	Alpha float64 // normality and significance threshold
}

// OutputConfig holds report and file output settings
type OutputConfig struct {
	Dir         string
	Format      string // text, markdown or html
	SummaryXLSX bool
	Color       bool
}

// PlotConfig holds chart rendering settings
type PlotConfig struct {
	Enabled bool
	Seed    int64 // jitter seed; fixed so repeated runs draw identical charts
	DPI     int
}

// Report formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Load reads an optional .env file, then configuration from environment
// variables, and validates it
func Load() (*Config, error) {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from environment variables only
func FromEnv() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			File: getEnvOrDefault("STAI_DATA_FILE", DefaultDataFile),
		},
		Analysis: AnalysisConfig{
			Alpha: getEnvFloatOrDefault("STAI_ALPHA", 0.05),
		},
		Output: OutputConfig{
			Dir:         getEnvOrDefault("STAI_OUTPUT_DIR", DefaultOutputDir),
			Format:      strings.ToLower(getEnvOrDefault("STAI_FORMAT", FormatText)),
			SummaryXLSX: getEnvBoolOrDefault("STAI_SUMMARY_XLSX", false),
			Color:       getEnvBoolOrDefault("STAI_COLOR", true),
		},
		Plot: PlotConfig{
			Enabled: getEnvBoolOrDefault("STAI_PLOTS", true),
			Seed:    int64(getEnvIntOrDefault("STAI_PLOT_SEED", 42)),
			DPI:     getEnvIntOrDefault("STAI_PLOT_DPI", 300),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Validate checks value ranges; flags may change fields after Load, so callers re-validate
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.File) == "" {
		return errors.ConfigInvalid("data file is required")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("alpha must be in (0, 1)")
	}
	switch c.Output.Format {
	case FormatText, FormatMarkdown, FormatHTML:
	default:
		return errors.ConfigInvalid("format must be one of text, markdown, html")
	}
	if c.Plot.Enabled && strings.TrimSpace(c.Output.Dir) == "" {
		return errors.ConfigInvalid("output directory is required when plots are enabled")
	}
	if c.Plot.DPI <= 0 {
		return errors.ConfigInvalid("plot DPI must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
