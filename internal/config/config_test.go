package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickbench.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
entity_count = 5000
workers = 8
mode = "parallel"

[logging]
level = "debug"

[database]
dsn = "postgres://bench@localhost/bench"
conn_max_lifetime = "5m"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Simulation.EntityCount)
	assert.Equal(t, 8, cfg.Simulation.Workers)
	assert.Equal(t, ModeParallel, cfg.Simulation.Mode)
	assert.Equal(t, 1000, cfg.Simulation.Ticks, "unset keys keep their default")
	assert.Equal(t, int64(50), cfg.Simulation.RespawnDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "postgres://bench@localhost/bench", cfg.Database.DSN)
	assert.Equal(t, "5m0s", cfg.Database.ConnMaxLifetime.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, body := range map[string]string{
		"mode":    "[simulation]\nmode = \"turbo\"\n",
		"count":   "[simulation]\nentity_count = -1\n",
		"profile": "[profile]\nmode = \"trace\"\n",
		"syntax":  "[simulation\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestPathFromEnvironment(t *testing.T) {
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv(EnvPath, "/etc/tickbench.toml")
	assert.Equal(t, "/etc/tickbench.toml", Path())
}
