package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	BackendSelenium   = "selenium"
	BackendPlaywright = "playwright"

	DefaultMaxTimeout   = 30 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultDriverPort   = 9515
)

// Config holds everything read from the environment at startup
type Config struct {
	// MaxTimeout bounds every wait performed by the wrapper
	MaxTimeout   time.Duration
	PollInterval time.Duration

	Backend      string
	DriverPath   string
	ChromeBinary string
	RemoteURL    string
	DriverPort   int
	Headless     bool

	LogLevel logrus.Level
	StateDir string
}

// Load - reads an optional .env file and then the environment
func Load(envFiles ...string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		MaxTimeout:   DefaultMaxTimeout,
		PollInterval: DefaultPollInterval,
		Backend:      BackendSelenium,
		DriverPort:   DefaultDriverPort,
		LogLevel:     logrus.InfoLevel,
	}

	var err error
	if v := os.Getenv("WEBDRIVER_MAX_TIMEOUT"); v != "" {
		if cfg.MaxTimeout, err = ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid WEBDRIVER_MAX_TIMEOUT: %w", err)
		}
	}
	if v := os.Getenv("WEBDRIVER_POLL_INTERVAL"); v != "" {
		if cfg.PollInterval, err = ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid WEBDRIVER_POLL_INTERVAL: %w", err)
		}
	}
	if v := os.Getenv("BROWSER_BACKEND"); v != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	cfg.DriverPath = os.Getenv("BROWSER_DRIVER_PATH")
	cfg.ChromeBinary = os.Getenv("CHROME_BINARY_PATH")
	cfg.RemoteURL = os.Getenv("WEBDRIVER_REMOTE_URL")
	if v := os.Getenv("WEBDRIVER_PORT"); v != "" {
		if cfg.DriverPort, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid WEBDRIVER_PORT: %w", err)
		}
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		if cfg.Headless, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid HEADLESS: %w", err)
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if cfg.LogLevel, err = logrus.ParseLevel(v); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	cfg.StateDir = os.Getenv("WEBDRIVER_STATE_DIR")
	if cfg.StateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		cfg.StateDir = filepath.Join(homeDir, ".webdriver_wrapper")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate - checks values that cannot be used as given
func (c *Config) Validate() error {
	if c.MaxTimeout <= 0 {
		return fmt.Errorf("max timeout must be positive, got %s", c.MaxTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	switch c.Backend {
	case BackendSelenium, BackendPlaywright:
	default:
		return fmt.Errorf("unknown browser backend %q", c.Backend)
	}
	return nil
}

// NewLogger - builds the process logger at the configured level
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// ParseDuration accepts a Go duration ("45s", "1m") or a bare number of seconds
func ParseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}
