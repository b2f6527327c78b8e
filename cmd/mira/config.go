package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/mira"
	"github.com/fwojciec/mira/gemini"
	mirahttp "github.com/fwojciec/mira/http"
	"gopkg.in/yaml.v3"
)

// Fallback names accepted in configuration.
const (
	FallbackWikipedia = "wikipedia"
	FallbackGemini    = "gemini"
	FallbackNone      = "none"
)

// Config holds runtime settings for the mira CLI.
type Config struct {
	Store     string          `yaml:"store"`
	Threshold float64         `yaml:"threshold"`
	Fallback  string          `yaml:"fallback"`
	Recover   bool            `yaml:"recover"`
	LogLevel  string          `yaml:"log_level"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	Gemini    GeminiConfig    `yaml:"gemini"`
}

// WikipediaConfig configures the Wikipedia fallback.
type WikipediaConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// GeminiConfig configures the Gemini fallback.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Store:     filepath.Join(defaultDir(), "database.json"),
		Threshold: mira.DefaultThreshold,
		Fallback:  FallbackWikipedia,
		LogLevel:  "warn",
		Wikipedia: WikipediaConfig{
			Endpoint: mirahttp.DefaultEndpoint,
			Timeout:  mirahttp.DefaultTimeout,
		},
		Gemini: GeminiConfig{
			Model: gemini.DefaultModel,
		},
	}
}

// LoadConfig builds a Config from defaults, an optional YAML file and the
// environment. An explicitly named file (path or MIRA_CONFIG) must exist; the
// default ~/.mira/config.yaml is optional.
func LoadConfig(path string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := true
	if path == "" {
		path = getenv("MIRA_CONFIG")
	}
	if path == "" {
		path = filepath.Join(defaultDir(), "config.yaml")
		explicit = false
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnvOverrides(cfg, getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides allows environment variables to override file values.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	if v := getenv("MIRA_STORE"); v != "" {
		cfg.Store = v
	}
	if v := getenv("MIRA_FALLBACK"); v != "" {
		cfg.Fallback = v
	}
	if v := getenv("MIRA_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MIRA_THRESHOLD value: %w", err)
		}
		cfg.Threshold = threshold
	}
	if v := getenv("MIRA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("MIRA_WIKIPEDIA_ENDPOINT"); v != "" {
		cfg.Wikipedia.Endpoint = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Store == "" {
		return mira.Errorf(mira.EINVALID, "store path required")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return mira.Errorf(mira.EINVALID, "threshold must be between 0 and 1, got %v", c.Threshold)
	}
	switch c.Fallback {
	case FallbackWikipedia:
		if c.Wikipedia.Timeout <= 0 {
			return mira.Errorf(mira.EINVALID, "wikipedia timeout must be positive, got %s", c.Wikipedia.Timeout)
		}
	case FallbackNone:
	case FallbackGemini:
		if c.Gemini.APIKey == "" {
			return mira.Errorf(mira.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
	default:
		return mira.Errorf(mira.EINVALID, "unknown fallback %q (want wikipedia, gemini or none)", c.Fallback)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, mira.Errorf(mira.EINVALID, "invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// UsesSQLite reports whether the store path selects the SQLite backend.
func (c *Config) UsesSQLite() bool {
	switch strings.ToLower(filepath.Ext(c.Store)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mira"
	}
	return filepath.Join(home, ".mira")
}
