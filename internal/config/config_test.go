package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_IsProduction(t *testing.T) {
	for env, want := range map[string]bool{
		"production":  true,
		"staging":     false,
		"development": false,
		"":            false,
	} {
		assert.Equal(t, want, (&AppConfig{Environment: env}).IsProduction(), env)
	}
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     int
		expected string
	}{
		{"localhost", "localhost", 8080, "localhost:8080"},
		{"all interfaces", "0.0.0.0", 3000, "0.0.0.0:3000"},
		{"ipv6", "::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ServerConfig{Host: tt.host, Port: tt.port}
			assert.Equal(t, tt.expected, cfg.Address())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"development", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"unknown cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "unknown cache driver"},
		{"redis without address", func(c *Config) {
			c.Cache.Driver = CacheDriverRedis
			c.Cache.Redis.Addr = ""
		}, "redis address is required"},
		{"redis", func(c *Config) { c.Cache.Driver = CacheDriverRedis }, ""},
		{"cache disabled", func(c *Config) { c.Cache.Driver = CacheDriverNone }, ""},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "cache ttl"},
		{"rate limit without budget", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, "requests_per_minute"},
		{"rate limit disabled", func(c *Config) {
			c.RateLimit.Enabled = false
			c.RateLimit.RequestsPerMinute = 0
		}, ""},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics path"},
		{"metrics path ignored when disabled", func(c *Config) {
			c.Metrics.Enabled = false
			c.Metrics.Path = ""
		}, ""},
		{"tls cert without key", func(c *Config) { c.Server.TLSCertFile = "/etc/emicalc/tls.crt" }, "must be set together"},
		{"tls key without cert", func(c *Config) { c.Server.TLSKeyFile = "/etc/emicalc/tls.key" }, "must be set together"},
		{"tls", func(c *Config) {
			c.Server.TLSCertFile = "/etc/emicalc/tls.crt"
			c.Server.TLSKeyFile = "/etc/emicalc/tls.key"
		}, ""},
		{"production wildcard with credentials", func(c *Config) {
			c.App.Environment = "production"
			c.CORS.AllowCredentials = true
		}, "wildcard CORS"},
		{"production wildcard without credentials", func(c *Config) {
			c.App.Environment = "production"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Development()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_ReportsAllProblems(t *testing.T) {
	cfg := Development()
	cfg.Server.Port = 0
	cfg.Cache.Driver = "memcached"
	cfg.Metrics.Path = "metrics"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
	assert.Contains(t, err.Error(), "unknown cache driver")
	assert.Contains(t, err.Error(), "metrics path")
}

func TestDevelopment(t *testing.T) {
	cfg := Development()

	assert.Equal(t, "EMICalc", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "localhost:8080", cfg.Server.Address())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 12*time.Hour, cfg.CORS.MaxAge)
	assert.Contains(t, cfg.CORS.ExposedHeaders, "Retry-After")
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.CalculationsPerMin)
	assert.Equal(t, CacheDriverMemory, cfg.Cache.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 1
	assert.Equal(t, 8080, Development().Server.Port, "each call returns a fresh copy")
}

func TestTest(t *testing.T) {
	cfg := Test()

	assert.Equal(t, "test", cfg.App.Environment)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EMICALC_APP_ENVIRONMENT", "staging")
	t.Setenv("EMICALC_SERVER_PORT", "9000")
	t.Setenv("EMICALC_CACHE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "redis.staging.local:6379")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, CacheDriverRedis, cfg.Cache.Driver)
	assert.Equal(t, "redis.staging.local:6379", cfg.Cache.Redis.Addr)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path", "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "EMICalc", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Cache.Redis.Timeout)
	assert.Equal(t, "emicalc:", cfg.Cache.Redis.KeyPrefix)
}

func TestLoad_WithEnvOverride(t *testing.T) {
	t.Setenv("EMICALC_SERVER_PORT", "3000")

	cfg, err := Load("/nonexistent/path", "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emicalc.yaml")
	content := `
app:
  name: loan-api
server:
  port: 9090
cache:
  driver: none
  ttl: 1m
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "loan-api", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, CacheDriverNone, cfg.Cache.Driver)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "warn", cfg.Log.Level)
	// defaults still apply
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  driver: memcached\n"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache driver")

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EMICALC_TEST_DOTENV=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("EMICALC_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("EMICALC_TEST_DOTENV"))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EMICALC_TEST_OVERRIDE=from-file\n"), 0o600))
	t.Setenv("EMICALC_TEST_OVERRIDE", "from-env")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("EMICALC_TEST_OVERRIDE"))
}
