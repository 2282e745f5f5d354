// Package config holds the client configuration and its defaults.
package config

import (
	"errors"
	"strings"
	"time"

	serrors "serper-client/pkg/errors"
	"serper-client/pkg/validation"
)

// Version is reported in the default user agent.
const Version = "0.3.0"

const (
	DefaultBaseURL               = "https://google.serper.dev"
	DefaultTimeout               = 30 * time.Second
	DefaultMaxConcurrentRequests = 5
	DefaultUserAgent             = "serper-sdk/" + Version
)

// Config is the client configuration. A Service owns its Config exclusively.
type Config struct {
	APIKey                string            `mapstructure:"api_key"`
	BaseURL               string            `mapstructure:"base_url"`
	Timeout               time.Duration     `mapstructure:"timeout"`
	MaxConcurrentRequests int               `mapstructure:"max_concurrent"`
	DefaultHeaders        map[string]string `mapstructure:"default_headers"`
	UserAgent             string            `mapstructure:"user_agent"`
	EnableLogging         bool              `mapstructure:"enable_logging"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig is consulted only when EnableLogging is set.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a configuration with the default settings and the given key.
func New(apiKey string) Config {
	cfg := Config{APIKey: apiKey}
	applyDefaults(&cfg)
	return cfg
}

// Validate checks the configuration as a whole.
func (c Config) Validate() error {
	if err := validation.ValidateNonEmpty(c.APIKey, "API key"); err != nil {
		return asConfigError(err)
	}
	if err := validation.ValidateNonEmpty(c.BaseURL, "Base URL"); err != nil {
		return asConfigError(err)
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return serrors.NewConfigError("Base URL must start with http:// or https://")
	}
	if err := validation.ValidateURL(c.BaseURL); err != nil {
		return asConfigError(err)
	}
	if c.Timeout <= 0 {
		return serrors.NewConfigError("Timeout must be greater than 0")
	}
	if c.MaxConcurrentRequests <= 0 {
		return serrors.NewConfigError("Max concurrent requests must be greater than 0")
	}
	return nil
}

// asConfigError reports a failed field check as a configuration error.
func asConfigError(err error) error {
	var e *serrors.Error
	if errors.As(err, &e) {
		return serrors.NewConfigError(e.Message)
	}
	return serrors.NewConfigError(err.Error())
}

func (c Config) WithBaseURL(baseURL string) Config {
	c.BaseURL = baseURL
	return c
}

func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}

func (c Config) WithMaxConcurrent(n int) Config {
	c.MaxConcurrentRequests = n
	return c
}

// WithHeader returns a copy with an extra default header. The header map is
// copied so the receiver is left untouched.
func (c Config) WithHeader(key, value string) Config {
	c.DefaultHeaders = cloneHeaders(c.DefaultHeaders)
	c.DefaultHeaders[key] = value
	return c
}

func (c Config) WithUserAgent(userAgent string) Config {
	c.UserAgent = userAgent
	return c
}

func (c Config) WithLogging(enable bool) Config {
	c.EnableLogging = enable
	return c
}

// Builder collects settings and produces a validated Config.
type Builder struct {
	apiKey         *string
	baseURL        *string
	timeout        *time.Duration
	maxConcurrent  *int
	defaultHeaders map[string]string
	userAgent      *string
	enableLogging  bool
}

func NewBuilder() *Builder {
	return &Builder{
		defaultHeaders: map[string]string{"Content-Type": "application/json"},
	}
}

func (b *Builder) APIKey(apiKey string) *Builder {
	b.apiKey = &apiKey
	return b
}

func (b *Builder) BaseURL(baseURL string) *Builder {
	b.baseURL = &baseURL
	return b
}

func (b *Builder) Timeout(timeout time.Duration) *Builder {
	b.timeout = &timeout
	return b
}

func (b *Builder) MaxConcurrent(n int) *Builder {
	b.maxConcurrent = &n
	return b
}

func (b *Builder) Header(key, value string) *Builder {
	b.defaultHeaders[key] = value
	return b
}

func (b *Builder) UserAgent(userAgent string) *Builder {
	b.userAgent = &userAgent
	return b
}

func (b *Builder) EnableLogging() *Builder {
	b.enableLogging = true
	return b
}

// Build fails when no API key was supplied or the result does not validate.
func (b *Builder) Build() (Config, error) {
	if b.apiKey == nil {
		return Config{}, serrors.NewConfigError("API key is required")
	}

	cfg := New(*b.apiKey)
	if b.baseURL != nil {
		cfg.BaseURL = *b.baseURL
	}
	if b.timeout != nil {
		cfg.Timeout = *b.timeout
	}
	if b.maxConcurrent != nil {
		cfg.MaxConcurrentRequests = *b.maxConcurrent
	}
	cfg.DefaultHeaders = cloneHeaders(b.defaultHeaders)
	if b.userAgent != nil {
		cfg.UserAgent = *b.userAgent
	}
	cfg.EnableLogging = b.enableLogging

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func cloneHeaders(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
