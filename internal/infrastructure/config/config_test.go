package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ScholarSync", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "data.json", cfg.Storage.Path)
	assert.True(t, cfg.Storage.AtomicWrite)
	assert.Equal(t, uint32(0o644), cfg.Storage.FileMode)
	assert.Equal(t, 30*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, 256, cfg.Generator.MaxLength)
	assert.Equal(t, "gpt-4o-mini", cfg.Generator.Model)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.App.IsDevelopment())
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATA_PATH", "/tmp/professors.json")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GENERATOR_TIMEOUT", "5s")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENVIRONMENT", "production")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/professors.json", cfg.Storage.Path)
	assert.Equal(t, "sk-test", cfg.Generator.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  path: /var/lib/scholarsync/data.json
  atomic_write: false
generator:
  model: gpt-4o
  max_length: 128
logger:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/scholarsync/data.json", cfg.Storage.Path)
	assert.False(t, cfg.Storage.AtomicWrite)
	assert.Equal(t, "gpt-4o", cfg.Generator.Model)
	assert.Equal(t, 128, cfg.Generator.MaxLength)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "zero generator timeout", env: map[string]string{"GENERATOR_TIMEOUT": "0s"}},
		{name: "zero max length", env: map[string]string{"GENERATOR_MAX_LENGTH": "0"}},
		{name: "file output without filename", env: map[string]string{"LOG_OUTPUT": "file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
