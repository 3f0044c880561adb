package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// chdirTemp isolates a test from any examiz.yaml or .env in the repo.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("BACKEND_URL", "")
	t.Setenv("EXAMIZ_PROXY_BACKEND_URL", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: http://exam.local/api
student_name: Ada
ai:
  delay: 2s
  min_chars: 40
proxy:
  addr: ":9000"
`), 0o644))

	t.Setenv("EXAMIZ_AI_MIN_CHARS", "50")
	t.Setenv("BACKEND_URL", "https://backend.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://exam.local/api", cfg.APIURL)
	assert.Equal(t, "Ada", cfg.StudentName)
	assert.Equal(t, 2*time.Second, cfg.AI.Delay)
	assert.Equal(t, 50, cfg.AI.MinChars)
	assert.Equal(t, ":9000", cfg.Proxy.Addr)
	assert.Equal(t, "https://backend.example.com", cfg.Proxy.BackendURL)
	assert.True(t, cfg.AI.Enabled)
}

func TestLoad_PrefixedBackendWins(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BACKEND_URL", "https://legacy.example.com")
	t.Setenv("EXAMIZ_PROXY_BACKEND_URL", "https://new.example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com", cfg.Proxy.BackendURL)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EXAMIZ_STUDENT_NAME=Grace\n"), 0o644))

	// godotenv never overrides a variable that is already set, even if empty.
	require.NoError(t, os.Unsetenv("EXAMIZ_STUDENT_NAME"))
	t.Cleanup(func() { _ = os.Unsetenv("EXAMIZ_STUDENT_NAME") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Grace", cfg.StudentName)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := chdirTemp(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty api url", func(c *Config) { c.APIURL = " " }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative delay", func(c *Config) { c.AI.Delay = -time.Second }},
		{"negative min chars", func(c *Config) { c.AI.MinChars = -1 }},
		{"bad gin mode", func(c *Config) { c.Proxy.Mode = "prod" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestYAML(t *testing.T) {
	cfg := DefaultConfig()
	out, err := cfg.YAML()
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "30s", back["timeout"])
	ai := back["ai"].(map[string]any)
	assert.Equal(t, "1.5s", ai["delay"])
	assert.Equal(t, 30, ai["min_chars"])
}
