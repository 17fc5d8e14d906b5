package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "otto.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func withoutDotEnv(t *testing.T) {
	t.Helper()
	orig := dotEnvFile
	dotEnvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { dotEnvFile = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 30*time.Minute, c.FiltersFreshness)
	assert.Equal(t, 5*time.Minute, c.ScrollFreshness)
	assert.Equal(t, 5*time.Minute, c.ReturnFlagFreshness)
	assert.Equal(t, "https://ottocollect.com", c.SiteURL)
	assert.Equal(t, logging.DefaultSettings(), c.Log)
	assert.NoError(t, c.Validate())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	withoutDotEnv(t)

	cfg, err := load(nil, noEnv)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_Precedence(t *testing.T) {
	withoutDotEnv(t)

	path := writeTempJSON(t, map[string]any{
		"http_addr":         ":9000",
		"database_dsn":      "postgres://json",
		"filters_freshness": "10m",
		"cors_origins":      []string{"https://a.example"},
		"reveal_page_size":  50,
	})

	env := envFrom(map[string]string{
		"OTTO_HTTP_ADDR":        ":7000",
		"OTTO_SECRET_KEY":       "env-secret-key",
		"OTTO_ACCESS_TOKEN_TTL": "30s",
		"OTTO_RATE_LIMIT":       "5",
	})

	cfg, err := load([]string{"-c", path, "-d", "postgres://flag", "-r", "60"}, env)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr, "json overrides env")
	assert.Equal(t, "postgres://flag", cfg.DatabaseDSN, "flags override json")
	assert.Equal(t, "env-secret-key", cfg.SecretKey)
	assert.Equal(t, 30*time.Second, cfg.AccessTokenValidityDuration, "untouched flag keeps env value")
	assert.Equal(t, time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, 10*time.Minute, cfg.FiltersFreshness)
	assert.Equal(t, []string{"https://a.example"}, cfg.CORSOrigins)
	assert.Equal(t, uint(5), cfg.RateLimitPerSecond)
	assert.Equal(t, 50, cfg.RevealPageSize)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("OTTO_TEST_ONLY_SITE=https://dotenv.example\n"), 0o600))

	orig := dotEnvFile
	dotEnvFile = path
	t.Cleanup(func() {
		dotEnvFile = orig
		os.Unsetenv("OTTO_TEST_ONLY_SITE")
	})

	require.NoError(t, loadDotEnv())
	assert.Equal(t, "https://dotenv.example", os.Getenv("OTTO_TEST_ONLY_SITE"))
}

func TestLoad_Errors(t *testing.T) {
	withoutDotEnv(t)

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"OTTO_SCROLL_FRESHNESS": "soon"}},
		{name: "bad rate", env: map[string]string{"OTTO_RATE_LIMIT": "-1"}},
		{name: "missing json", args: []string{"-c", "/does/not/exist.json"}},
		{name: "short secret", args: []string{"-s", "short"}},
		{name: "bad log level", env: map[string]string{"OTTO_LOG_LEVEL": "chatty"}},
		{name: "unknown flag value", args: []string{"-t", "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.args, envFrom(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Equal(t, []string{}, splitList(""))
}
