package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Goals    GoalsConfig      `yaml:"goals" envconfig:"GOALS"`
	Columns  ColumnsConfig    `yaml:"columns" envconfig:"COLUMNS"`
	Analysis AnalysisConfig   `yaml:"analysis" envconfig:"ANALYSIS"`
	Upload   UploadConfig     `yaml:"upload" envconfig:"UPLOAD"`
	Holidays map[int][]string `yaml:"holidays"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	UploadsDir string `yaml:"uploads_dir" envconfig:"UPLOADS_DIR" default:"data/uploads"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// GoalsConfig contains the productivity goal policy. The weekly goal is
// discounted by DailyGoal for every holiday falling inside a given week.
type GoalsConfig struct {
	DailyGoal  int `yaml:"daily_goal" envconfig:"DAILY_GOAL" default:"8" validate:"min=1"`
	WeeklyGoal int `yaml:"weekly_goal" envconfig:"WEEKLY_GOAL" default:"40" validate:"min=1"`
}

// ColumnsConfig maps canonical field names to the source spreadsheet
// headers. The defaults match the upstream operations workbook.
type ColumnsConfig struct {
	ClosingDate  string `yaml:"closing_date" envconfig:"CLOSING_DATE" default:"Date (Data Fechamento Operações)" validate:"required"`
	Technician   string `yaml:"technician" envconfig:"TECHNICIAN" default:"Nome Colaborador" validate:"required"`
	Productivity string `yaml:"productivity" envconfig:"PRODUCTIVITY" default:"QTD. PROXXIMA | Produtivas - Fechamento Geral" validate:"required"`
	ProtocolID   string `yaml:"protocol_id" envconfig:"PROTOCOL_ID" default:"ID Protocolo | Proxxima" validate:"required"`
	Region       string `yaml:"region" envconfig:"REGION" default:"Bairro"`
}

// AnalysisConfig contains trend and pattern detection thresholds.
type AnalysisConfig struct {
	TrendWindow            int     `yaml:"trend_window" envconfig:"TREND_WINDOW" default:"4" validate:"min=2"`
	SlopeRising            float64 `yaml:"slope_rising" envconfig:"SLOPE_RISING" default:"0.5"`
	SlopeFalling           float64 `yaml:"slope_falling" envconfig:"SLOPE_FALLING" default:"-0.5"`
	ForecastWindow         int     `yaml:"forecast_window" envconfig:"FORECAST_WINDOW" default:"3" validate:"min=2"`
	OscillationMinWeeks    int     `yaml:"oscillation_min_weeks" envconfig:"OSCILLATION_MIN_WEEKS" default:"4" validate:"min=2"`
	OscillationTransitions int     `yaml:"oscillation_transitions" envconfig:"OSCILLATION_TRANSITIONS" default:"2" validate:"min=1"`
	RegionFailureRate      float64 `yaml:"region_failure_rate" envconfig:"REGION_FAILURE_RATE" default:"0.3" validate:"min=0,max=1"`
}

// UploadConfig contains workbook upload limits.
type UploadConfig struct {
	MaxSizeBytes int64  `yaml:"max_size_bytes" envconfig:"MAX_SIZE_BYTES" default:"20971520" validate:"min=1"`
	SheetName    string `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"1. ANALÍTICO |  Produtivas -..."`
}

// defaultHolidays is the embedded national holiday calendar used when the
// config file does not provide one.
var defaultHolidays = map[int][]string{
	2024: {
		"2024-01-01", "2024-02-12", "2024-02-13", "2024-03-29",
		"2024-05-01", "2024-09-07", "2024-10-12", "2024-11-02",
		"2024-11-15", "2024-12-25",
	},
	2025: {
		"2025-01-01", "2025-02-12", "2025-02-13", "2025-03-29",
		"2025-05-01", "2025-09-07", "2025-10-12", "2025-11-02",
		"2025-11-15", "2025-12-25",
	},
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables win over file values.
func Load() (*Config, error) {
	var cfg *Config
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		cfg, err = loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	} else {
		cfg = &Config{}
	}

	if err := envconfig.Process("PRODBOARD", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if len(cfg.Holidays) == 0 {
		cfg.Holidays = defaultHolidays
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := cfg.ensureDirs(); err != nil {
		return nil, fmt.Errorf("failed to prepare directories: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// getConfigFilePath returns the config file path, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("PRODBOARD_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// Validate checks structural validity of the configuration, including the
// holiday calendar date format.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	for year, dates := range c.Holidays {
		for _, d := range dates {
			parsed, err := time.Parse("2006-01-02", d)
			if err != nil {
				return fmt.Errorf("holiday %q for year %d: %w", d, year, err)
			}
			if parsed.Year() != year {
				return fmt.Errorf("holiday %q listed under year %d", d, year)
			}
		}
	}
	return nil
}

// HolidayDates returns the parsed holiday dates for the given year in
// chronological order. Unknown years yield an empty slice.
func (c *Config) HolidayDates(year int) []time.Time {
	raw := c.Holidays[year]
	dates := make([]time.Time, 0, len(raw))
	for _, d := range raw {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		dates = append(dates, parsed)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// AllHolidayDates returns every configured holiday across all years.
func (c *Config) AllHolidayDates() []time.Time {
	var dates []time.Time
	years := make([]int, 0, len(c.Holidays))
	for y := range c.Holidays {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		dates = append(dates, c.HolidayDates(y)...)
	}
	return dates
}

// ColumnMapping returns the canonical-field → source-header mapping used by
// the column mapper. Region is optional and omitted when unset.
func (c *Config) ColumnMapping() map[string]string {
	m := map[string]string{
		"closing_date": c.Columns.ClosingDate,
		"technician":   c.Columns.Technician,
		"productivity": c.Columns.Productivity,
		"protocol_id":  c.Columns.ProtocolID,
	}
	if c.Columns.Region != "" {
		m["region"] = c.Columns.Region
	}
	return m
}

func (c *Config) ensureDirs() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.UploadsDir, c.Paths.ReportsDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// UploadPath returns the path under the uploads directory for a stored
// workbook with the given name.
func (c *Config) UploadPath(name string) string {
	return filepath.Join(c.Paths.UploadsDir, name)
}
