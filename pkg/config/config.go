package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath    = "config.yaml"
	defaultStateDir      = ".studiopush"
	defaultHomeURL       = "https://www.youtube.com"
	defaultUploadURL     = "https://www.youtube.com/upload"
	defaultStudioURL     = "https://studio.youtube.com"
	defaultSettleDelay   = time.Second
	defaultTitleTimeout  = 15 * time.Second
	defaultVisibility    = "private"
	defaultWindowWidth   = 1280
	defaultWindowHeight  = 900
	defaultMaxHistory    = 500
	defaultCacheDirName  = "cache"
	defaultProfileDir    = "chrome-profile"
	defaultAgeRestricted = true
)

type Config struct {
	// Path of the config file the values were read from, empty if none.
	Path string `yaml:"-"`

	Browser  BrowserConfig  `yaml:"browser"`
	Studio   StudioConfig   `yaml:"studio"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Storage  StorageConfig  `yaml:"storage"`
	History  HistoryConfig  `yaml:"history"`
}

type BrowserConfig struct {
	ProfileDir   string `yaml:"profile_dir"`
	ExecPath     string `yaml:"exec_path"`
	Headless     bool   `yaml:"headless"`
	UserAgent    string `yaml:"user_agent"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	Stealth      *bool  `yaml:"stealth"`
}

type StudioConfig struct {
	HomeURL      string        `yaml:"home_url"`
	UploadURL    string        `yaml:"upload_url"`
	StudioURL    string        `yaml:"studio_url"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	TitleTimeout time.Duration `yaml:"title_timeout"`
}

type DefaultsConfig struct {
	Visibility    string   `yaml:"visibility"`
	Tags          []string `yaml:"tags"`
	AgeRestricted *bool    `yaml:"age_restricted"`
}

type StorageConfig struct {
	CacheDir        string `yaml:"cache_dir"`
	CredentialsFile string `yaml:"credentials_file"`
}

type HistoryConfig struct {
	Dir        string `yaml:"dir"`
	MaxEntries int    `yaml:"max_entries"`
}

func (c *Config) StealthEnabled() bool {
	return c.Browser.Stealth == nil || *c.Browser.Stealth
}

func (c *Config) AgeRestrictedDefault() bool {
	if c.Defaults.AgeRestricted == nil {
		return defaultAgeRestricted
	}
	return *c.Defaults.AgeRestricted
}

// Load reads .env, then the config file named by STUDIOPUSH_CONFIG (or
// config.yaml), then applies environment overrides and defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	return LoadFrom(getEnvOrDefault("STUDIOPUSH_CONFIG", DefaultConfigPath))
}

func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if err := loadYAMLConfig(cfg, path); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("No config file found, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Path = path
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STUDIOPUSH_PROFILE_DIR"); v != "" {
		cfg.Browser.ProfileDir = v
	}
	if v := os.Getenv("STUDIOPUSH_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Browser.Headless = b
		} else {
			slog.Warn("Ignoring invalid STUDIOPUSH_HEADLESS", "value", v)
		}
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		cfg.Browser.ExecPath = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && cfg.Storage.CredentialsFile == "" {
		cfg.Storage.CredentialsFile = v
	}
}

func applyDefaults(cfg *Config) {
	applyBrowserDefaults(cfg)
	applyStudioDefaults(cfg)
	applyUploadDefaults(cfg)
	applyStorageDefaults(cfg)
	applyHistoryDefaults(cfg)
}

func applyBrowserDefaults(cfg *Config) {
	if cfg.Browser.ProfileDir == "" {
		cfg.Browser.ProfileDir = filepath.Join(stateDir(), defaultProfileDir)
	}
	if cfg.Browser.WindowWidth == 0 {
		cfg.Browser.WindowWidth = defaultWindowWidth
	}
	if cfg.Browser.WindowHeight == 0 {
		cfg.Browser.WindowHeight = defaultWindowHeight
	}
}

func applyStudioDefaults(cfg *Config) {
	if cfg.Studio.HomeURL == "" {
		cfg.Studio.HomeURL = defaultHomeURL
	}
	if cfg.Studio.UploadURL == "" {
		cfg.Studio.UploadURL = defaultUploadURL
	}
	if cfg.Studio.StudioURL == "" {
		cfg.Studio.StudioURL = defaultStudioURL
	}
	if cfg.Studio.SettleDelay == 0 {
		cfg.Studio.SettleDelay = defaultSettleDelay
	}
	if cfg.Studio.TitleTimeout == 0 {
		cfg.Studio.TitleTimeout = defaultTitleTimeout
	}
}

func applyUploadDefaults(cfg *Config) {
	if cfg.Defaults.Visibility == "" {
		cfg.Defaults.Visibility = defaultVisibility
	}
}

func applyStorageDefaults(cfg *Config) {
	if cfg.Storage.CacheDir == "" {
		cfg.Storage.CacheDir = filepath.Join(stateDir(), defaultCacheDirName)
	}
}

func applyHistoryDefaults(cfg *Config) {
	if cfg.History.Dir == "" {
		cfg.History.Dir = stateDir()
	}
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = defaultMaxHistory
	}
}

// stateDir is where the profile, cache and history live unless configured.
func stateDir() string {
	if v := os.Getenv("STUDIOPUSH_STATE_DIR"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultStateDir
	}
	return filepath.Join(home, defaultStateDir)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
