// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	bazi "bazi_backend/internal/feature/bazi/domain/entity"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port               int    // HTTP port to listen on
	Env                string // development, staging, production
	CORSAllowedOrigins []string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration
	GeminiRPM     int // 1分あたりの呼び出し上限（0以下で無制限）

	// Database
	DBDriver      string // sqlite, postgres
	DBPath        string // sqlite
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	RunMigrations bool

	// Redis（REDIS_HOSTが空の場合はキャッシュなしで動作）
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	AnalysisCacheTTL time.Duration

	// 万年暦
	Sect         int    // 1: 晚子時は翌日, 2: 晚子時は当日
	DrawWeekdays string // 例: sun,tue,thu,sat
	Timezone     string // 攪珠日判定のタイムゾーン

	// 読み込み時に解釈できなかった値（Validateで報告）
	parseErrs []error
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = cfg.envInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)
	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"})

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Gemini
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", "")
	cfg.GeminiModel = getEnv("GEMINI_MODEL", "gemini-2.5-flash")
	cfg.GeminiTimeout = cfg.envDuration("GEMINI_TIMEOUT", 60*time.Second)
	cfg.GeminiRPM = cfg.envInt("GEMINI_RPM", 10)

	// Database
	cfg.DBDriver = getEnv("DB_DRIVER", DriverSQLite)
	cfg.DBPath = getEnv("DB_PATH", "./data/bazi.db")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "")
	cfg.DBPassword = getEnv("DB_PASSWORD", "")
	cfg.DBName = getEnv("DB_NAME", "bazi")
	cfg.DBSSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.RunMigrations = cfg.envBool("RUN_MIGRATIONS", true)

	// Redis
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.AnalysisCacheTTL = cfg.envDuration("ANALYSIS_CACHE_TTL", 24*time.Hour)

	// 万年暦
	cfg.Sect = cfg.envInt("BAZI_SECT", int(bazi.DefaultSect))
	cfg.DrawWeekdays = getEnv("DRAW_WEEKDAYS", "sun,tue,thu,sat")
	cfg.Timezone = getEnv("TIMEZONE", "Asia/Hong_Kong")

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if c.GeminiTimeout <= 0 {
		errs = append(errs, fmt.Errorf("GEMINI_TIMEOUT must be positive, got %v", c.GeminiTimeout))
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
			errs = append(errs, errors.New("DB_HOST, DB_NAME and DB_USER are required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be one of: sqlite, postgres; got %q", c.DBDriver))
	}

	if !bazi.Sect(c.Sect).Valid() {
		errs = append(errs, fmt.Errorf("BAZI_SECT must be 1 or 2, got %d", c.Sect))
	}
	if _, err := c.DrawSchedule(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// CacheEnabled はRedisキャッシュを使用するかを返します。
func (c *Config) CacheEnabled() bool {
	return c.RedisHost != ""
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// DrawSchedule はDRAW_WEEKDAYSを攪珠スケジュールに変換します。
func (c *Config) DrawSchedule() (bazi.DrawSchedule, error) {
	s := bazi.DefaultDrawSchedule()
	s.Weekdays = nil
	seen := map[time.Weekday]bool{}
	for _, name := range strings.Split(c.DrawWeekdays, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		wd, ok := weekdayNames[name]
		if !ok {
			return bazi.DrawSchedule{}, fmt.Errorf("DRAW_WEEKDAYS contains unknown weekday %q", name)
		}
		if !seen[wd] {
			seen[wd] = true
			s.Weekdays = append(s.Weekdays, wd)
		}
	}
	if len(s.Weekdays) == 0 {
		return bazi.DrawSchedule{}, errors.New("DRAW_WEEKDAYS must name at least one weekday")
	}
	return s, nil
}

// Location はTIMEZONEを読み込みます。
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q is invalid: %w", c.Timezone, err)
	}
	return loc, nil
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envInt reads an environment variable as an integer with a default fallback.
// Unparseable values keep the default and are reported by Validate.
func (c *Config) envInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s must be an integer, got %q", key, value))
		return defaultValue
	}
	return intVal
}

func (c *Config) envBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s must be a boolean, got %q", key, value))
		return defaultValue
	}
	return b
}

// envDuration reads an environment variable as a time.Duration (e.g. "30s", "24h").
func (c *Config) envDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s must be a duration, got %q", key, value))
		return defaultValue
	}
	return d
}

// getEnvList reads a comma separated environment variable.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
