// Package config loads the syllabus YAML configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/config/colors"
	"github.com/thenoetrevino/syllabus/internal/database"
	"github.com/thenoetrevino/syllabus/internal/events"
	"github.com/thenoetrevino/syllabus/internal/models"
)

// Environment overrides
const (
	EnvDatabasePath = "SYLLABUS_DB"
	EnvThemeFile    = "SYLLABUS_THEME_FILE"
)

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig     `yaml:"database"`
	Logging     LoggingConfig      `yaml:"logging"`
	Ordering    OrderingConfig     `yaml:"ordering"`
	Events      EventsConfig       `yaml:"events"`
	ColorScheme colors.ColorScheme `yaml:"theme"`
}

// DatabaseConfig locates the SQLite database
type DatabaseConfig struct {
	Path string `yaml:"path"` // Empty means ~/.syllabus/courses.db
}

// LoggingConfig controls the log file
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`  // Empty means ~/.syllabus/logs/syllabus.log
}

// OrderingConfig tunes the chain engine
type OrderingConfig struct {
	Collection      string `yaml:"collection"`
	TraversalSlack  *int   `yaml:"traversal_slack"`
	SyncLegacyIndex bool   `yaml:"sync_legacy_index"` // Rewrite order_index after every mutation
}

// EventsConfig sizes the in-process event broker and sets how often
// `course list --watch` polls for commits by other processes
type EventsConfig struct {
	Buffer        int           `yaml:"buffer"`
	WatchInterval time.Duration `yaml:"watch_interval"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// loadThemeFile loads and merges theme from SYLLABUS_THEME_FILE environment variable
func loadThemeFile(config *Config) {
	themeFile := os.Getenv(EnvThemeFile)
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme colors.ColorScheme `yaml:"theme"`
	}
	if yaml.Unmarshal(themeData, &themeConfig) != nil {
		return
	}

	config.ColorScheme.MergeFrom(themeConfig.Theme)
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		// Return default config if we can't determine config path
		return finish(Default()), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads config from path, returning defaults when the file does not exist
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return finish(Default()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Fill in any missing values with defaults
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return finish(&config), nil
}

// finish applies environment overrides
func finish(config *Config) *Config {
	if dbPath := os.Getenv(EnvDatabasePath); dbPath != "" {
		config.Database.Path = dbPath
	}
	loadThemeFile(config)
	return config
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(configPath)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values the engine cannot use
func (c *Config) Validate() error {
	if c.Ordering.TraversalSlack != nil && *c.Ordering.TraversalSlack < 0 {
		return fmt.Errorf("ordering.traversal_slack must not be negative, got %d", *c.Ordering.TraversalSlack)
	}
	if c.Events.Buffer < 0 {
		return fmt.Errorf("events.buffer must not be negative, got %d", c.Events.Buffer)
	}
	if c.Events.WatchInterval < 0 {
		return fmt.Errorf("events.watch_interval must not be negative, got %s", c.Events.WatchInterval)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "syllabus", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "syllabus", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Ordering.Collection == "" {
		c.Ordering.Collection = models.DefaultCollection
	}
	if c.Ordering.TraversalSlack == nil {
		slack := chain.DefaultTraversalSlack
		c.Ordering.TraversalSlack = &slack
	}
	if c.Events.Buffer == 0 {
		c.Events.Buffer = events.DefaultBuffer
	}
	if c.Events.WatchInterval == 0 {
		c.Events.WatchInterval = database.DefaultWatchInterval
	}
	c.ColorScheme.ApplyDefaults()
}
