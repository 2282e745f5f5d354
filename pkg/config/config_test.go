package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "serper-client/pkg/errors"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, ok := os.LookupEnv(key)
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() {
		if ok {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func clearSerperEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAPIKey, EnvBaseURL, EnvTimeoutSecs, EnvMaxConcurrent,
		EnvUserAgent, EnvEnableLogging, EnvLogLevel, EnvLogFormat,
	} {
		unsetEnv(t, key)
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg := New("test-key")

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "https://google.serper.dev", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxConcurrentRequests)
	assert.Equal(t, "application/json", cfg.DefaultHeaders["Content-Type"])
	assert.Equal(t, "serper-sdk/"+Version, cfg.UserAgent)
	assert.False(t, cfg.EnableLogging)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", New("valid-key"), ""},
		{"empty api key", New(""), "API key cannot be empty"},
		{"blank api key", New("   "), "API key cannot be empty"},
		{"empty base url", New("key").WithBaseURL(" "), "Base URL cannot be empty"},
		{"invalid base url", New("key").WithBaseURL("invalid-url"), "Base URL must start with http:// or https://"},
		{"unparseable base url", New("key").WithBaseURL("https://bad host"), "Invalid URL: https://bad host"},
		{"http base url", New("key").WithBaseURL("http://localhost:8080"), ""},
		{"zero timeout", New("key").WithTimeout(0), "Timeout must be greater than 0"},
		{"zero concurrency", New("key").WithMaxConcurrent(0), "Max concurrent requests must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, serrors.IsConfigError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_FluentSettersReturnCopies(t *testing.T) {
	base := New("key")
	cfg := base.
		WithBaseURL("https://test.com").
		WithTimeout(45*time.Second).
		WithMaxConcurrent(8).
		WithHeader("X-Test", "value").
		WithUserAgent("test-agent").
		WithLogging(true)

	assert.Equal(t, "https://test.com", cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 8, cfg.MaxConcurrentRequests)
	assert.Equal(t, "value", cfg.DefaultHeaders["X-Test"])
	assert.Equal(t, "test-agent", cfg.UserAgent)
	assert.True(t, cfg.EnableLogging)

	assert.Equal(t, DefaultBaseURL, base.BaseURL)
	_, leaked := base.DefaultHeaders["X-Test"]
	assert.False(t, leaked)
}

func TestBuilder_Build(t *testing.T) {
	cfg, err := NewBuilder().
		APIKey("test-key").
		BaseURL("https://custom.api.com").
		Timeout(60 * time.Second).
		MaxConcurrent(10).
		Header("Custom", "Value").
		UserAgent("custom-agent").
		EnableLogging().
		Build()

	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "https://custom.api.com", cfg.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.MaxConcurrentRequests)
	assert.Equal(t, "custom-agent", cfg.UserAgent)
	assert.True(t, cfg.EnableLogging)
	assert.Equal(t, "Value", cfg.DefaultHeaders["Custom"])
	assert.Equal(t, "application/json", cfg.DefaultHeaders["Content-Type"])
}

func TestBuilder_MissingAPIKey(t *testing.T) {
	_, err := NewBuilder().Build()

	require.Error(t, err)
	assert.True(t, serrors.IsConfigError(err))
}

func TestBuilder_InvalidBaseURL(t *testing.T) {
	_, err := NewBuilder().APIKey("key").BaseURL("ftp://example.com").Build()

	require.Error(t, err)
	assert.True(t, serrors.IsConfigError(err))
}

func TestFromEnvironment_RequiresAPIKey(t *testing.T) {
	clearSerperEnv(t)

	_, err := FromEnvironment()

	require.Error(t, err)
	assert.True(t, serrors.IsConfigError(err))
	assert.Contains(t, err.Error(), EnvAPIKey)
}

func TestFromEnvironment_Overrides(t *testing.T) {
	clearSerperEnv(t)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvBaseURL, "http://localhost:9999")
	t.Setenv(EnvTimeoutSecs, "12")
	t.Setenv(EnvMaxConcurrent, "3")
	t.Setenv(EnvUserAgent, "env-agent")
	t.Setenv(EnvEnableLogging, "TRUE")

	cfg, err := FromEnvironment()

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxConcurrentRequests)
	assert.Equal(t, "env-agent", cfg.UserAgent)
	assert.True(t, cfg.EnableLogging)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvironment_MalformedNumbersKeepDefaults(t *testing.T) {
	clearSerperEnv(t)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvTimeoutSecs, "soon")
	t.Setenv(EnvMaxConcurrent, "-2")
	t.Setenv(EnvEnableLogging, "yes")

	cfg, err := FromEnvironment()

	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultMaxConcurrentRequests, cfg.MaxConcurrentRequests)
	assert.False(t, cfg.EnableLogging)
}

func TestFromEnvironment_EmptyKeyFailsValidation(t *testing.T) {
	clearSerperEnv(t)
	t.Setenv(EnvAPIKey, "")

	cfg, err := FromEnvironment()

	require.NoError(t, err)
	assert.True(t, serrors.IsConfigError(cfg.Validate()))
}

func TestFromEnvironment_ZeroTimeoutFailsValidation(t *testing.T) {
	clearSerperEnv(t)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvTimeoutSecs, "0")

	cfg, err := FromEnvironment()

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Error(t, cfg.Validate())
}
