package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"WEBDRIVER_MAX_TIMEOUT", "WEBDRIVER_POLL_INTERVAL", "BROWSER_BACKEND",
	"BROWSER_DRIVER_PATH", "CHROME_BINARY_PATH", "WEBDRIVER_REMOTE_URL",
	"WEBDRIVER_PORT", "HEADLESS", "LOG_LEVEL", "WEBDRIVER_STATE_DIR",
}

// clearEnv unsets every key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30", 30 * time.Second, false},
		{"1.5", 1500 * time.Millisecond, false},
		{"45s", 45 * time.Second, false},
		{" 2m ", 2 * time.Minute, false},
		{"250ms", 250 * time.Millisecond, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEBDRIVER_STATE_DIR", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTimeout, cfg.MaxTimeout)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, BackendSelenium, cfg.Backend)
	assert.Equal(t, DefaultDriverPort, cfg.DriverPort)
	assert.False(t, cfg.Headless)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "WEBDRIVER_MAX_TIMEOUT=10\nBROWSER_BACKEND=Playwright\nHEADLESS=true\nLOG_LEVEL=debug\nWEBDRIVER_PORT=4444\n" +
		"WEBDRIVER_STATE_DIR=" + dir + "\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))
	t.Cleanup(func() {
		for _, key := range envKeys {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.MaxTimeout)
	assert.Equal(t, BackendPlaywright, cfg.Backend)
	assert.True(t, cfg.Headless)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 4444, cfg.DriverPort)
	assert.Equal(t, dir, cfg.StateDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"WEBDRIVER_MAX_TIMEOUT", "forever"},
		{"WEBDRIVER_MAX_TIMEOUT", "0"},
		{"WEBDRIVER_POLL_INTERVAL", "-1s"},
		{"BROWSER_BACKEND", "netscape"},
		{"WEBDRIVER_PORT", "http"},
		{"HEADLESS", "maybe"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("WEBDRIVER_STATE_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
