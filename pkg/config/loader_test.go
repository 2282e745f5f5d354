package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	clearSerperEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("SERPER_API_KEY=file-key\nSERPER_MAX_CONCURRENT=7\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv sets real process variables; drop them after the test.
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvAPIKey)
		_ = os.Unsetenv(EnvMaxConcurrent)
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 7, cfg.MaxConcurrentRequests)
}

func TestLoad_ProcessEnvWinsOverFile(t *testing.T) {
	clearSerperEnv(t)
	t.Setenv(EnvAPIKey, "process-key")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("SERPER_API_KEY=file-key\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "process-key", cfg.APIKey)
}
