package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Scheduling
	Scheduler SchedulerConfig
	Weights   WeightsConfig

	// API
	API APIConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	Prefix   string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// SchedulerConfig holds cron runner configuration
type SchedulerConfig struct {
	Timezone   string
	MaxRetries int
	RetryDelay time.Duration
	JobTimeout time.Duration

	// Cron expressions (with seconds)
	OnboardingCron string
	RosterCron     string
	LoadReportCron string
	CacheRefresh   string
}

// Location resolves Timezone. Load has already validated it.
func (s SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WeightsConfig controls where strategy cost weights come from
type WeightsConfig struct {
	OverridesFile string        // optional YAML overrides
	CacheTTL      time.Duration // 0 disables caching
	DefaultWeight float64       // weight used when assigning without an explicit one and no source entry
}

// APIConfig holds HTTP API limits
type APIConfig struct {
	WriteRateLimit float64 // mutating requests per second
	WriteBurst     int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Prefix:   getEnv("REDIS_PREFIX", "stratsched"),
		},

		Scheduler: SchedulerConfig{
			Timezone:       getEnv("SCHEDULER_TIMEZONE", "America/New_York"),
			MaxRetries:     getEnvAsInt("SCHEDULER_MAX_RETRIES", 3),
			RetryDelay:     getEnvAsDuration("SCHEDULER_RETRY_DELAY", "1m"),
			JobTimeout:     getEnvAsDuration("SCHEDULER_JOB_TIMEOUT", "10m"),
			OnboardingCron: getEnv("SCHEDULER_ONBOARDING_CRON", "0 0 6 * * MON-FRI"),
			RosterCron:     getEnv("SCHEDULER_ROSTER_CRON", "0 0 7 * * MON-FRI"),
			LoadReportCron: getEnv("SCHEDULER_LOAD_REPORT_CRON", "0 30 6 * * MON"),
			CacheRefresh:   getEnv("SCHEDULER_CACHE_REFRESH_CRON", "0 55 5 * * MON-FRI"),
		},

		Weights: WeightsConfig{
			OverridesFile: getEnv("WEIGHTS_OVERRIDES_FILE", ""),
			CacheTTL:      getEnvAsDuration("WEIGHTS_CACHE_TTL", "10m"),
			DefaultWeight: getEnvAsFloat("WEIGHTS_DEFAULT", 1.0),
		},

		API: APIConfig{
			WriteRateLimit: getEnvAsFloat("API_WRITE_RATE_LIMIT", 5),
			WriteBurst:     getEnvAsInt("API_WRITE_BURST", 10),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE %q: %w", c.Scheduler.Timezone, err)
	}

	// 음수 가중치는 부하 비교를 깨뜨림
	if c.Weights.DefaultWeight < 0 {
		return fmt.Errorf("WEIGHTS_DEFAULT must be >= 0")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
