package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// ClinicAPIBaseURL is the appointment service this instance checks
	// conflicts against and commits updates to.
	ClinicAPIBaseURL string
	ClinicAPIKey     string
	ConflictCacheTTL time.Duration

	WorkdayStartHour int
	WorkdayEndHour   int
	// ResizeMinutesPerUnit converts resize drag units into minutes before
	// snapping.
	ResizeMinutesPerUnit float64
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		ClinicAPIBaseURL: getEnv("CLINIC_API_BASE_URL", ""),
		ClinicAPIKey:     getEnv("CLINIC_API_KEY", ""),
		ConflictCacheTTL: getEnvAsDuration("CONFLICT_CACHE_TTL", 30*time.Second),

		WorkdayStartHour:     getEnvAsInt("WORKDAY_START_HOUR", 8),
		WorkdayEndHour:       getEnvAsInt("WORKDAY_END_HOUR", 18),
		ResizeMinutesPerUnit: getEnvAsFloat("RESIZE_MINUTES_PER_UNIT", 1.0),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
