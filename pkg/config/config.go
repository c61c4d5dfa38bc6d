package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "EXCESOLUZ_"

// Config holds all configuration options for the progress tracker
type Config struct {
	// Where progress and category counts are persisted
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Wallpaper analytics sink
	Analytics AnalyticsConfig `yaml:"analytics" json:"analytics"`

	// Resource catalogue
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// StorageConfig selects and configures the key-value backend
type StorageConfig struct {
	Backend        string `yaml:"backend" json:"backend"`
	Directory      string `yaml:"directory" json:"directory"`
	SQLitePath     string `yaml:"sqlite_path" json:"sqlite_path"`
	KeyringService string `yaml:"keyring_service" json:"keyring_service"`
	Encrypt        bool   `yaml:"encrypt" json:"encrypt"`
	Passphrase     string `yaml:"-" json:"-"`
}

// AnalyticsConfig holds the Firestore REST settings for wallpaper events
type AnalyticsConfig struct {
	Enabled         bool          `yaml:"enabled" json:"enabled"`
	ProjectID       string        `yaml:"project_id" json:"project_id"`
	APIKey          string        `yaml:"api_key" json:"api_key"`
	BaseURL         string        `yaml:"base_url" json:"base_url"`
	Collection      string        `yaml:"collection" json:"collection"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent       string        `yaml:"user_agent" json:"user_agent"`
	EventsPerMinute int           `yaml:"events_per_minute" json:"events_per_minute"`
}

// CatalogConfig points at the YAML resource catalogue
type CatalogConfig struct {
	Path string `yaml:"path" json:"path"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Desktop  bool          `yaml:"desktop" json:"desktop"`
	Duration time.Duration `yaml:"duration" json:"duration"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// Storage backends understood by storage.Open
const (
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
	BackendMemory  = "memory"
)

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        BackendFile,
			Directory:      "",
			SQLitePath:     "",
			KeyringService: "excesoluz",
		},
		Analytics: AnalyticsConfig{
			Enabled:         false,
			ProjectID:       "exceso-de-luz",
			BaseURL:         "https://firestore.googleapis.com/v1",
			Collection:      "eventos_fondos",
			Timeout:         10 * time.Second,
			UserAgent:       "excesoluz-cli/1.0",
			EventsPerMinute: 30,
		},
		Catalog: CatalogConfig{
			Path: "catalogo.yaml",
		},
		Notifications: NotificationConfig{
			Enabled:  true,
			Desktop:  false,
			Duration: 3 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if backend := os.Getenv(envPrefix + "STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}
	if dir := os.Getenv(envPrefix + "DATA_DIR"); dir != "" {
		c.Storage.Directory = dir
	}
	if path := os.Getenv(envPrefix + "SQLITE_PATH"); path != "" {
		c.Storage.SQLitePath = path
	}
	if encrypt := os.Getenv(envPrefix + "ENCRYPT"); encrypt != "" {
		c.Storage.Encrypt = strings.ToLower(encrypt) == "true"
	}
	if pass := os.Getenv(envPrefix + "PASSPHRASE"); pass != "" {
		c.Storage.Passphrase = pass
	}

	if enabled := os.Getenv(envPrefix + "ANALYTICS_ENABLED"); enabled != "" {
		c.Analytics.Enabled = strings.ToLower(enabled) == "true"
	}
	if project := os.Getenv(envPrefix + "FIREBASE_PROJECT_ID"); project != "" {
		c.Analytics.ProjectID = project
	}
	if key := os.Getenv(envPrefix + "FIREBASE_API_KEY"); key != "" {
		c.Analytics.APIKey = key
	}
	if base := os.Getenv(envPrefix + "FIRESTORE_URL"); base != "" {
		c.Analytics.BaseURL = base
	}
	if epm := os.Getenv(envPrefix + "EVENTS_PER_MINUTE"); epm != "" {
		val, err := strconv.Atoi(epm)
		if err != nil {
			return fmt.Errorf("invalid %sEVENTS_PER_MINUTE: %w", envPrefix, err)
		}
		if val > 0 {
			c.Analytics.EventsPerMinute = val
		}
	}

	if catalog := os.Getenv(envPrefix + "CATALOG"); catalog != "" {
		c.Catalog.Path = catalog
	}

	if notifEnabled := os.Getenv(envPrefix + "NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	if logLevel := os.Getenv(envPrefix + "LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv(envPrefix + "LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".excesoluz.yaml",
		".excesoluz.yml",
		filepath.Join(home, ".config", "excesoluz", "config.yaml"),
		filepath.Join(home, ".config", "excesoluz", "config.yml"),
		filepath.Join(home, ".excesoluz.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Storage.Backend) {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendKeyring:
		if c.Storage.KeyringService == "" {
			errs = append(errs, errors.New("keyring service is required for the keyring backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	if c.Analytics.Enabled {
		if c.Analytics.ProjectID == "" {
			errs = append(errs, errors.New("analytics project ID is required"))
		}
		if c.Analytics.BaseURL == "" {
			errs = append(errs, errors.New("analytics base URL is required"))
		}
		if c.Analytics.Collection == "" {
			errs = append(errs, errors.New("analytics collection is required"))
		}
		if c.Analytics.Timeout <= 0 {
			errs = append(errs, errors.New("analytics timeout must be positive"))
		}
	}
	if c.Analytics.EventsPerMinute < 0 {
		errs = append(errs, errors.New("events per minute cannot be negative"))
	}

	if c.Notifications.Duration < 0 {
		errs = append(errs, errors.New("notification duration cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file may carry the Firebase API key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Keys mirror the long flag names of the CLI.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if backend, ok := flags["storage"].(string); ok && backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}
	if dir, ok := flags["data-dir"].(string); ok && dir != "" {
		c.Storage.Directory = dir
	}
	if encrypt, ok := flags["encrypt"].(bool); ok && encrypt {
		c.Storage.Encrypt = true
	}
	if catalog, ok := flags["catalog"].(string); ok && catalog != "" {
		c.Catalog.Path = catalog
	}
	if notif, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = notif
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".excesoluz.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
