package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	serrors "serper-client/pkg/errors"
)

// Environment variables read by FromEnvironment.
const (
	EnvAPIKey        = "SERPER_API_KEY"
	EnvBaseURL       = "SERPER_BASE_URL"
	EnvTimeoutSecs   = "SERPER_TIMEOUT_SECS"
	EnvMaxConcurrent = "SERPER_MAX_CONCURRENT"
	EnvUserAgent     = "SERPER_USER_AGENT"
	EnvEnableLogging = "SERPER_ENABLE_LOGGING"
	EnvLogLevel      = "SERPER_LOG_LEVEL"
	EnvLogFormat     = "SERPER_LOG_FORMAT"
)

// Load reads an optional .env file and then builds the configuration from
// the environment. Variables already present in the process environment
// win over the file.
func Load() (Config, error) {
	loadEnvFile()
	return FromEnvironment()
}

// FromEnvironment builds a Config from SERPER_* variables. Only the API key
// is required; numeric values that fail to parse are ignored and the
// defaults are kept.
func FromEnvironment() (Config, error) {
	v := newEnvViper()

	if !v.IsSet("api_key") {
		return Config{}, serrors.NewConfigError(EnvAPIKey + " environment variable is required")
	}

	cfg := New(v.GetString("api_key"))

	if v.IsSet("base_url") {
		cfg.BaseURL = v.GetString("base_url")
	}
	if v.IsSet("timeout_secs") {
		if secs, err := strconv.ParseUint(strings.TrimSpace(v.GetString("timeout_secs")), 10, 32); err == nil {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v.IsSet("max_concurrent") {
		if n, err := strconv.ParseUint(strings.TrimSpace(v.GetString("max_concurrent")), 10, 31); err == nil {
			cfg.MaxConcurrentRequests = int(n)
		}
	}
	if v.IsSet("user_agent") {
		cfg.UserAgent = v.GetString("user_agent")
	}
	if v.IsSet("enable_logging") {
		cfg.EnableLogging = strings.EqualFold(v.GetString("enable_logging"), "true")
	}
	if v.IsSet("log_level") {
		cfg.Logging.Level = v.GetString("log_level")
	}
	if v.IsSet("log_format") {
		cfg.Logging.Format = v.GetString("log_format")
	}

	return cfg, nil
}

func newEnvViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SERPER")
	v.AllowEmptyEnv(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for _, key := range []string{
		"api_key", "base_url", "timeout_secs", "max_concurrent",
		"user_agent", "enable_logging", "log_level", "log_format",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// loadEnvFile loads the first .env found in the working directory, its
// parents, or the module root. It returns the path it loaded, if any.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// applyDefaults fills every zero-valued field with its default.
func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxConcurrentRequests == 0 {
		cfg.MaxConcurrentRequests = DefaultMaxConcurrentRequests
	}
	if cfg.DefaultHeaders == nil {
		cfg.DefaultHeaders = map[string]string{"Content-Type": "application/json"}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
