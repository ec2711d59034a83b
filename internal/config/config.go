// Package config resolves where repertoires are stored and the trainer's
// settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvDir names the environment variable holding the data directory.
const EnvDir = "REP_DIR"

const (
	dbFile     = "rep.db"
	logFile    = "rep.log"
	configFile = "config.yaml"

	defaultLearningBudget = 10
	defaultLogLevel       = "info"
)

// Config holds application configuration
type Config struct {
	Dir string `yaml:"-"`

	// LearningBudget is the budget given to new repertoires.
	LearningBudget int `yaml:"learning_budget"`
	// ClampDailyCounter keeps the daily counter at or above zero when a
	// reviewed position is forgotten.
	ClampDailyCounter bool   `yaml:"clamp_daily_counter"`
	LogLevel          string `yaml:"log_level"`
	// Seed fixes the scheduler's random source; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// DBPath is the location of the repertoire database.
func (c *Config) DBPath() string {
	return filepath.Join(c.Dir, dbFile)
}

// LogPath is the location of the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, logFile)
}

// Load resolves the data directory and reads its config.yaml, if any.
// dir wins over REP_DIR (from the environment or a .env file), which wins
// over ~/.rep. The directory is created when missing.
func Load(dir string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	if dir == "" {
		dir = os.Getenv(EnvDir)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".rep")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	cfg := &Config{
		Dir:            abs,
		LearningBudget: defaultLearningBudget,
		LogLevel:       defaultLogLevel,
	}
	data, err := os.ReadFile(filepath.Join(abs, configFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the values read from config.yaml. Keys left out keep
// their defaults; an explicit learning_budget of 0 is kept.
func (c *Config) validate() error {
	if c.LearningBudget < 0 {
		return fmt.Errorf("config: learning_budget %d must not be negative", c.LearningBudget)
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
