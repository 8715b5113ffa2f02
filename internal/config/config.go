package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "ridership/internal/errors"
	"ridership/internal/validation"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "RIDERSHIP"

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Transform TransformConfig `yaml:"transform" envconfig:"TRANSFORM"`
	Tracing   TracingConfig   `yaml:"tracing" envconfig:"TRACING"`
	Metrics   MetricsConfig   `yaml:"metrics" envconfig:"METRICS"`
	Scraper   ScraperConfig   `yaml:"scraper" envconfig:"SCRAPER"`
}

// PathsConfig contains file system paths configuration.
// Relative directories are resolved against BaseDir, or the working directory when BaseDir is empty.
type PathsConfig struct {
	BaseDir       string `yaml:"base_dir" envconfig:"BASE_DIR"`
	RawDir        string `yaml:"raw_dir" envconfig:"RAW_DIR" validate:"required"`
	ProcessedDir  string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" validate:"required"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
	RawFile       string `yaml:"raw_file" envconfig:"RAW_FILE" validate:"required"`
	ProcessedFile string `yaml:"processed_file" envconfig:"PROCESSED_FILE" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TransformConfig controls how derived columns are computed
type TransformConfig struct {
	// PerDayPrecision is the number of decimal places kept in ridership_per_day.
	PerDayPrecision int32 `yaml:"per_day_precision" envconfig:"PER_DAY_PRECISION" validate:"gte=0,lte=10"`
}

// TracingConfig selects the span exporter
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled" envconfig:"ENABLED"`
	Exporter string `yaml:"exporter" envconfig:"EXPORTER" validate:"oneof=stdout none"`
}

// MetricsConfig controls the Prometheus textfile written at the end of a run
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled" envconfig:"ENABLED"`
	TextfilePath string `yaml:"textfile_path" envconfig:"TEXTFILE_PATH" validate:"required_if=Enabled true"`
}

// ScraperConfig contains browser automation settings for the ridership portal
type ScraperConfig struct {
	URL            string        `yaml:"url" envconfig:"URL" validate:"required,url"`
	Headless       bool          `yaml:"headless" envconfig:"HEADLESS"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	PageDelay      time.Duration `yaml:"page_delay" envconfig:"PAGE_DELAY" validate:"gte=0"`
	PanelSelector  string        `yaml:"panel_selector" envconfig:"PANEL_SELECTOR" validate:"required"`
	RouteSelector  string        `yaml:"route_selector" envconfig:"ROUTE_SELECTOR" validate:"required"`
	MonthSelector  string        `yaml:"month_selector" envconfig:"MONTH_SELECTOR" validate:"required"`
	YearSelector   string        `yaml:"year_selector" envconfig:"YEAR_SELECTOR" validate:"required"`
	SubmitSelector string        `yaml:"submit_selector" envconfig:"SUBMIT_SELECTOR"`
	TableSelector  string        `yaml:"table_selector" envconfig:"TABLE_SELECTOR" validate:"required"`
}

// Load loads configuration from defaults, an optional YAML file, a .env file
// and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", configFile), err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, apperrors.NewConfigError("failed to load .env", err)
	}

	// No default tags: fields without a matching variable keep the file or default value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every section against its validation tags
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadDotEnv exports variables from a .env file without overriding ones already set
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			RawDir:        "data/raw",
			ProcessedDir:  "data/processed",
			LogsDir:       "logs",
			RawFile:       "ridership.csv",
			ProcessedFile: "ridership_cleaned.csv",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/ridership.log",
		},
		Transform: TransformConfig{
			PerDayPrecision: 2,
		},
		Tracing: TracingConfig{
			Enabled:  false,
			Exporter: "none",
		},
		Metrics: MetricsConfig{
			Enabled:      false,
			TextfilePath: "logs/ridership.prom",
		},
		Scraper: ScraperConfig{
			URL:            "https://www.mta.maryland.gov/performance-improvement",
			Headless:       true,
			Timeout:        30 * time.Minute,
			PageDelay:      time.Second,
			PanelSelector:  "h3#ui-id-5",
			RouteSelector:  `select[name="ridership-select-route"]`,
			MonthSelector:  `select[name="ridership-select-month"]`,
			YearSelector:   `select[name="ridership-select-year"]`,
			SubmitSelector: "",
			TableSelector:  "div#container-ridership-table > table",
		},
	}
}
