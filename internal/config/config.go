package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	DataDir       string `yaml:"data_dir"`
	Store         string `yaml:"store"`
	RemindersFile string `yaml:"reminders_file"`
	StateFile     string `yaml:"state_file"`
	SQLitePath    string `yaml:"sqlite_path"`
	DatabaseURI   string `yaml:"database_uri"`

	// CheckInterval is the due-check polling period. A reminder fires at most
	// one interval after its scheduled instant.
	CheckInterval   time.Duration `yaml:"check_interval"`
	// Timezone is an IANA zone name for reminder dates and times. Empty means
	// the system zone.
	Timezone        string        `yaml:"timezone"`
	SweepCron       string        `yaml:"sweep_cron"`
	DailySummary    bool          `yaml:"daily_summary"`
	EveningHour     int           `yaml:"evening_hour"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	AIAPIKey  string `yaml:"ai_api_key"`
	AIBaseURL string `yaml:"ai_base_url"`
	AIModel   string `yaml:"ai_model"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := ".nudge"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".nudge")
	}
	return &Config{
		DataDir:         dataDir,
		Store:           StoreFile,
		CheckInterval:   time.Minute,
		SweepCron:       "0 0 * * *",
		DailySummary:    true,
		EveningHour:     18,
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
		AIBaseURL:       "https://openrouter.ai/api/v1",
		AIModel:         "openai/gpt-4o-mini",
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment (a .env file in the working directory is honored). Environment
// variables win over the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("NUDGE_CONFIG")
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.DataDir = getEnvOrDefault("NUDGE_DATA_DIR", c.DataDir)
	c.Store = strings.ToLower(getEnvOrDefault("NUDGE_STORE", c.Store))
	c.RemindersFile = getEnvOrDefault("NUDGE_REMINDERS_FILE", c.RemindersFile)
	c.StateFile = getEnvOrDefault("NUDGE_STATE_FILE", c.StateFile)
	c.SQLitePath = getEnvOrDefault("NUDGE_SQLITE_PATH", c.SQLitePath)
	c.DatabaseURI = getEnvOrDefault("DATABASE_URI", c.DatabaseURI)
	c.SweepCron = getEnvOrDefault("NUDGE_SWEEP_CRON", c.SweepCron)
	c.Timezone = getEnvOrDefault("NUDGE_TIMEZONE", c.Timezone)
	c.MetricsAddr = getEnvOrDefault("NUDGE_METRICS_ADDR", c.MetricsAddr)
	c.LogLevel = getEnvOrDefault("NUDGE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("NUDGE_LOG_FORMAT", c.LogFormat)
	c.TelegramToken = getEnvOrDefault("TELEGRAM_TOKEN", c.TelegramToken)
	c.AIAPIKey = getEnvOrDefault("AI_API_KEY", c.AIAPIKey)
	c.AIBaseURL = getEnvOrDefault("AI_BASE_URL", c.AIBaseURL)
	c.AIModel = getEnvOrDefault("AI_MODEL", c.AIModel)

	var errs []error
	if v := os.Getenv("NUDGE_CHECK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		errs = append(errs, wrapEnv("NUDGE_CHECK_INTERVAL", err))
		c.CheckInterval = d
	}
	if v := os.Getenv("NUDGE_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		errs = append(errs, wrapEnv("NUDGE_SHUTDOWN_TIMEOUT", err))
		c.ShutdownTimeout = d
	}
	if v := os.Getenv("NUDGE_DAILY_SUMMARY"); v != "" {
		b, err := strconv.ParseBool(v)
		errs = append(errs, wrapEnv("NUDGE_DAILY_SUMMARY", err))
		c.DailySummary = b
	}
	if v := os.Getenv("NUDGE_EVENING_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		errs = append(errs, wrapEnv("NUDGE_EVENING_HOUR", err))
		c.EveningHour = n
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		errs = append(errs, wrapEnv("TELEGRAM_CHAT_ID", err))
		c.TelegramChatID = n
	}
	return errors.Join(errs...)
}

func (c *Config) resolvePaths() {
	if c.RemindersFile == "" {
		c.RemindersFile = filepath.Join(c.DataDir, "reminders.json")
	}
	if c.StateFile == "" {
		c.StateFile = filepath.Join(c.DataDir, "app_state.json")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "reminders.db")
	}
}

// Validate rejects configurations the scheduler cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreFile, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURI == "" {
			errs = append(errs, errors.New("DATABASE_URI is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q (want file, sqlite or postgres)", c.Store))
	}
	if c.CheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("check interval must be positive, got %s", c.CheckInterval))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout))
	}
	if _, err := cron.ParseStandard(c.SweepCron); err != nil {
		errs = append(errs, fmt.Errorf("invalid sweep cron %q: %w", c.SweepCron, err))
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
		}
	}
	if c.EveningHour < 0 || c.EveningHour > 23 {
		errs = append(errs, fmt.Errorf("evening hour must be 0-23, got %d", c.EveningHour))
	}
	return errors.Join(errs...)
}

// Location returns the configured time zone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// TelegramEnabled reports whether both the bot token and the target chat are configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func wrapEnv(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", key, err)
}
