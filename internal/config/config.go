// Package config loads environment-driven configuration for the CDP
// session engine: godotenv-backed environment variables with
// getEnvOrDefault-style helpers.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

// Config holds all configuration for the CDP agent process.
type Config struct {
	// CDP connection settings.
	CDPAddress string
	CDPPort int

	// Launcher settings.
	LaunchChrome bool // if false, attach to an already-running Chrome instead
	ProfileDir string
	WindowSize string
	StartURL string

	// Session projection caps and timeouts (this contract "Configuration").
	Timeout time.Duration
	MaxRequests int
	MaxMessages int
	LogBufferCap int
	AsyncStackDepth int
	DetectionWindow time.Duration

	// HTTP shell settings.
	APIAddress string
	APIPort int
	APIPortFallback bool
	APIPortCandidates []string

	// Logging settings, grounded in cmd/controller/main.go's
	// lumberjack+slog setup.
	LogFile string
	LogMaxSizeMB int
	LogMaxBackups int
	LogMaxAgeDays int
	LogLevel string
}

// Load reads configuration from environment variables and an optional .env
// file, matching internal/config/config.go's Load().
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		CDPAddress: getEnvOrDefault("CDPAGENT_CDP_ADDRESS", "127.0.0.1"),
		CDPPort: getEnvIntOrDefault("CDPAGENT_CDP_PORT", 9222),
		LaunchChrome: getEnvBoolOrDefault("CDPAGENT_LAUNCH_CHROME", true),
		ProfileDir: getEnvOrDefault("CDPAGENT_PROFILE_DIR", ""),
		WindowSize: getEnvOrDefault("CDPAGENT_WINDOW_SIZE", "1920,1080"),
		StartURL: getEnvOrDefault("CDPAGENT_START_URL", "about:blank"),
		Timeout: getEnvDurationOrDefault("CDPAGENT_TIMEOUT_MS", 30*time.Second),
		MaxRequests: getEnvIntOrDefault("CDPAGENT_MAX_REQUESTS", 1000),
		MaxMessages: getEnvIntOrDefault("CDPAGENT_MAX_MESSAGES", 1000),
		LogBufferCap: getEnvIntOrDefault("CDPAGENT_LOG_BUFFER_CAP", 1000),
		AsyncStackDepth: getEnvIntOrDefault("CDPAGENT_ASYNC_STACK_DEPTH", 0),
		DetectionWindow: getEnvDurationOrDefault("CDPAGENT_DETECTION_WINDOW_MS", 200*time.Millisecond),
		APIAddress: getEnvOrDefault("CDPAGENT_API_ADDRESS", "127.0.0.1"),
		APIPort: getEnvIntOrDefault("CDPAGENT_API_PORT", 8931),
		APIPortFallback: getEnvBoolOrDefault("CDPAGENT_API_PORT_FALLBACK", true),
		APIPortCandidates: []string{
			"127.0.0.1:8932",
			"127.0.0.1:8933",
			"127.0.0.1:8934",
		},
		LogFile: getEnvOrDefault("CDPAGENT_LOG_FILE", "./logs/cdpagent.log"),
		LogMaxSizeMB: getEnvIntOrDefault("CDPAGENT_LOG_MAX_SIZE_MB", 50),
		LogMaxBackups: getEnvIntOrDefault("CDPAGENT_LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvIntOrDefault("CDPAGENT_LOG_MAX_AGE_DAYS", 14),
		LogLevel: getEnvOrDefault("CDPAGENT_LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// CDPHTTPBase returns the full CDP HTTP endpoint used for /json/version and
// /json/list discovery.
func (c *Config) CDPHTTPBase() string {
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}

// SessionOptions maps configuration onto internal/cdp/session.Options.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Timeout: c.Timeout,
		MaxRequests: c.MaxRequests,
		MaxMessages: c.MaxMessages,
		LogBufferCap: c.LogBufferCap,
		AsyncStackDepth: c.AsyncStackDepth,
		DetectionWindow: c.DetectionWindow,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}
