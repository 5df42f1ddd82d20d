package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "localhost:8080", config.Server.Addr)
	assert.Equal(t, "desktop", config.Audit.Viewport)
	assert.Equal(t, 30*time.Second, config.Audit.LoadTimeout)
	assert.Equal(t, "claude", config.Advisor.Name)
	assert.Empty(t, config.Database.URL)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server:
  addr: "0.0.0.0:9090"
audit:
  viewport: mobile
  load-timeout: 10s
advisor:
  name: openai
  model: gpt-4o
database:
  url: "postgres://localhost/krds"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", config.Server.Addr)
	assert.Equal(t, "mobile", config.Audit.Viewport)
	assert.Equal(t, 10*time.Second, config.Audit.LoadTimeout)
	assert.Equal(t, "openai", config.Advisor.Name)
	assert.Equal(t, "gpt-4o", config.Advisor.Model)
	assert.Equal(t, "postgres://localhost/krds", config.Database.URL)
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \"127.0.0.1:3000\"\n"), 0o644))

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:3000", config.Server.Addr)
	assert.Equal(t, "desktop", config.Audit.Viewport)
	assert.Equal(t, "claude", config.Advisor.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/krds")
	t.Setenv("KRDS_CHECKER_ADDR", "0.0.0.0:7000")

	config := DefaultConfig()
	config.applyEnv()

	assert.Equal(t, "postgres://env-host/krds", config.Database.URL)
	assert.Equal(t, "0.0.0.0:7000", config.Server.Addr)
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	dir := t.TempDir()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(original)

	t.Setenv("HOME", dir)
	t.Setenv("KRDS_CHECKER_ADDR", "")
	t.Setenv("DATABASE_URL", "")

	config := LoadOrDefault()
	assert.Equal(t, "localhost:8080", config.Server.Addr)
}
