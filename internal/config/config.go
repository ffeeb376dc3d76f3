// Package config - Application configuration management.
//
// Использует Viper для:
// - Загрузки из YAML файлов
// - Переменных окружения (префикс EMICALC_)
// - Значений по умолчанию
//
// и godotenv для загрузки .env файлов в окружение процесса.
//
// Порядок приоритета (от высшего к низшему):
// 1. Environment variables (включая загруженные из .env)
// 2. Config file
// 3. Default values
//
// Константы финансового движка (ставка по умолчанию, точность, границы)
// здесь НЕ настраиваются: они фиксированы в loan.DefaultEngineConfig().
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения.
const EnvPrefix = "EMICALC"

// ============================================
// Main Configuration
// ============================================

// Config - главная структура конфигурации приложения.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// ============================================
// App Configuration
// ============================================

// AppConfig - сведения о сервисе. Version и BuildTime попадают в /health
// и в каждую запись лога.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
	BuildTime   string `mapstructure:"build_time"`
}

// IsProduction - включает release режим gin и строгую проверку CORS.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// ============================================
// Server Configuration
// ============================================

// ServerConfig - конфигурация HTTP сервера.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TLSCertFile     string        `mapstructure:"tls_cert_file"` // HTTPS, если заданы оба файла
	TLSKeyFile      string        `mapstructure:"tls_key_file"`
}

// Address - host:port для логов и net.Listen.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ============================================
// CORS Configuration
// ============================================

// CORSConfig - конфигурация CORS.
type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	ExposedHeaders   []string      `mapstructure:"exposed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// ============================================
// Rate Limit Configuration
// ============================================

// RateLimitConfig - конфигурация rate limiting.
type RateLimitConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	RequestsPerMinute  int  `mapstructure:"requests_per_minute"`
	CalculationsPerMin int  `mapstructure:"calculations_per_min"` // отдельный лимит на расчёты
}

// ============================================
// Cache Configuration
// ============================================

// Драйверы кэша результатов.
const (
	CacheDriverNone   = "none"
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// CacheConfig - конфигурация кэша результатов расчёта.
type CacheConfig struct {
	Driver     string        `mapstructure:"driver"` // none, memory, redis
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"` // только memory
	Redis      RedisConfig   `mapstructure:"redis"`
}

// RedisConfig - подключение к Redis.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ============================================
// Metrics Configuration
// ============================================

// MetricsConfig - конфигурация Prometheus метрик.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ============================================
// Log Configuration
// ============================================

// LogConfig - конфигурация логирования.
type LogConfig struct {
	Level     string `mapstructure:"level"`  // debug, info, warn, error
	Format    string `mapstructure:"format"` // json, text
	Output    string `mapstructure:"output"` // stdout, stderr
	AddSource bool   `mapstructure:"add_source"`
}

// ============================================
// Configuration Loading
// ============================================

// Load загружает конфигурацию из файла и переменных окружения.
//
// configPath - путь к директории с конфигурацией (например, "configs")
// configName - имя файла конфигурации без расширения (например, "config")
//
// Перед чтением загружается .env (если есть) из текущей директории и configPath.
func Load(configPath, configName string) (*Config, error) {
	if err := LoadDotEnv(".env", configPath+"/.env"); err != nil {
		return nil, err
	}

	v := newViper()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/emicalc")

	// Читаем конфигурационный файл
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Файл не найден - используем defaults и env vars
	}

	return unmarshal(v)
}

// LoadFile загружает конфигурацию из конкретного файла (флаг --config в CLI).
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return unmarshal(v)
}

// LoadFromEnv загружает конфигурацию только из переменных окружения.
func LoadFromEnv() (*Config, error) {
	return unmarshal(newViper())
}

// LoadDotEnv загружает переменные из .env файлов.
// Отсутствующие файлы пропускаются; уже заданные переменные не перезаписываются.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults устанавливает значения по умолчанию.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "EMICalc")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.tls_cert_file", "")
	v.SetDefault("server.tls_key_file", "")

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "X-Request-ID", "X-Correlation-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID", "X-Correlation-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", "12h")

	// Rate Limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 100)
	v.SetDefault("rate_limit.calculations_per_min", 60)

	// Cache defaults
	v.SetDefault("cache.driver", CacheDriverMemory)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.max_entries", 10000)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.key_prefix", "emicalc:")
	v.SetDefault("cache.redis.timeout", "500ms")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
}

// bindEnvVars привязывает переменные окружения.
func bindEnvVars(v *viper.Viper) {
	// Redis (обычно передаётся через env в production)
	_ = v.BindEnv("cache.redis.addr", "EMICALC_CACHE_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("cache.redis.password", "EMICALC_CACHE_REDIS_PASSWORD", "REDIS_PASSWORD")

	// Server
	_ = v.BindEnv("server.port", "EMICALC_SERVER_PORT", "PORT")

	// App
	_ = v.BindEnv("app.environment", "EMICALC_APP_ENVIRONMENT", "ENVIRONMENT", "ENV")

	// Log
	_ = v.BindEnv("log.level", "EMICALC_LOG_LEVEL", "LOG_LEVEL")
}

// ============================================
// Configuration Validation
// ============================================

// Validate проверяет согласованность настроек и возвращает все найденные
// проблемы разом (errors.Join), а не только первую.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.Port > 0 && c.Server.Port <= 65535, "invalid server port: %d", c.Server.Port)
	check((c.Server.TLSCertFile == "") == (c.Server.TLSKeyFile == ""),
		"server tls_cert_file and tls_key_file must be set together")

	switch c.Cache.Driver {
	case CacheDriverNone, CacheDriverMemory:
	case CacheDriverRedis:
		check(c.Cache.Redis.Addr != "", "redis address is required for cache driver %q", c.Cache.Driver)
	default:
		errs = append(errs, fmt.Errorf("unknown cache driver: %q", c.Cache.Driver))
	}
	check(c.Cache.TTL >= 0, "cache ttl must not be negative: %s", c.Cache.TTL)

	if c.RateLimit.Enabled {
		check(c.RateLimit.RequestsPerMinute > 0, "rate limit requests_per_minute must be positive when enabled")
	}
	if c.Metrics.Enabled {
		check(strings.HasPrefix(c.Metrics.Path, "/"), "metrics path must start with '/': %q", c.Metrics.Path)
	}

	// Браузеры не принимают "*" вместе с credentials
	if c.App.IsProduction() && c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			check(origin != "*", "wildcard CORS origin cannot be combined with credentials in production")
		}
	}

	return errors.Join(errs...)
}

// ============================================
// Development Helpers
// ============================================

// Development - значения по умолчанию без файла и окружения,
// с локальным адресом и подробными текстовыми логами.
func Development() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults do not decode: %v", err))
	}

	cfg.App.Version = "dev"
	cfg.Server.Host = "localhost"
	cfg.Log.Level = "debug"
	cfg.Log.Format = "text"
	return &cfg
}

// Test возвращает конфигурацию для тестов.
func Test() *Config {
	cfg := Development()
	cfg.App.Environment = "test"
	cfg.RateLimit.Enabled = false
	cfg.Log.Level = "error" // Меньше шума в тестах
	return cfg
}
