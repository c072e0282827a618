package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"mcp-mealdb/internal/config"
)

// runBuildConfig parses args with the real flag set and returns the result
// of buildConfig.
func runBuildConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	var (
		cfg    *config.Config
		cfgErr error
	)
	cmd := &cli.Command{
		Name:  name,
		Flags: flags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg, cfgErr = buildConfig(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{name}, args...)))
	return cfg, cfgErr
}

func TestBuildConfig_Defaults(t *testing.T) {
	cfg, err := runBuildConfig(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestBuildConfig_Flags(t *testing.T) {
	cfg, err := runBuildConfig(t,
		"--host", "127.0.0.1",
		"--port", "9000",
		"--base-url", "http://localhost:1234/api",
		"--log-level", "debug",
	)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Address())
	assert.Equal(t, "http://localhost:1234/api", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestBuildConfig_Transport(t *testing.T) {
	cfg, err := runBuildConfig(t, "--transport", "stdio")
	require.NoError(t, err)
	assert.Equal(t, config.TransportStdio, cfg.Transport)

	cfg, err = runBuildConfig(t, "--public-url", "https://meals.example.com")
	require.NoError(t, err)
	assert.Equal(t, config.TransportHTTP, cfg.Transport)
	assert.Equal(t, "https://meals.example.com", cfg.ServerURL())

	_, err = runBuildConfig(t, "--transport", "websocket")
	assert.Error(t, err)
}

func TestBuildConfig_EnvVars(t *testing.T) {
	t.Setenv("MEALDB_PORT", "9100")
	t.Setenv("MEALDB_LOG_LEVEL", "warn")
	t.Setenv("MEALDB_TRANSPORT", "stdio")

	cfg, err := runBuildConfig(t)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, config.TransportStdio, cfg.Transport)
}

func TestBuildConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mealdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7000\nlog_level: error\n"), 0o600))

	cfg, err := runBuildConfig(t, "--config", path, "--log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestBuildConfig_Invalid(t *testing.T) {
	_, err := runBuildConfig(t, "--base-url", "ftp://example.com")
	assert.Error(t, err)

	_, err = runBuildConfig(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
