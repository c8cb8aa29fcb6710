package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port string

	StoreBackend   string
	MemoryMaxBytes int
	RedisURL       string
	RedisKey       string

	JWTSecret string

	Location       *time.Location
	RetentionCap   int
	QuotaRetention int
	ReportSchedule string
	DemoPatientID  string

	LogLevel  string
	LogFormat string
	GinMode   string
}

// LoadEnv reads the first .env file found among paths. A missing file is not
// an error; the process environment still applies.
func LoadEnv(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			log.Debug().Str("path", p).Msg("Loaded environment file")
			return
		}
	}
	log.Debug().Msg("No .env file found, using process environment")
}

// Load builds the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisKey:       getEnv("ACTIVITY_REDIS_KEY", "carecompanion:activities"),
		JWTSecret:      os.Getenv("JWT_SECRET_KEY"),
		ReportSchedule: getEnv("REPORT_SCHEDULE", "0 21 * * *"),
		DemoPatientID:  getEnv("DEMO_PATIENT_ID", "patient_001"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		GinMode:        getEnv("GIN_MODE", "release"),
	}

	var err error
	if cfg.RetentionCap, err = getEnvInt("ACTIVITY_RETENTION_CAP", 500); err != nil {
		return nil, err
	}
	if cfg.QuotaRetention, err = getEnvInt("ACTIVITY_QUOTA_RETENTION", 100); err != nil {
		return nil, err
	}
	if cfg.MemoryMaxBytes, err = getEnvInt("MEMORY_STORE_MAX_BYTES", 5*1024*1024); err != nil {
		return nil, err
	}

	tz := getEnv("ACTIVITY_TIMEZONE", "Local")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid ACTIVITY_TIMEZONE %q: %w", tz, err)
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.QuotaRetention > cfg.RetentionCap {
		return nil, fmt.Errorf("ACTIVITY_QUOTA_RETENTION (%d) exceeds ACTIVITY_RETENTION_CAP (%d)", cfg.QuotaRetention, cfg.RetentionCap)
	}
	return cfg, nil
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(cfg *Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
