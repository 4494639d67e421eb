package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Database struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
	TimeZone string
}

type Config struct {
	Environment      string
	Port             string
	DB               Database
	RedisAddr        string
	KafkaBroker      string
	JWTSecret        string
	SessionTTL       time.Duration
	PunchDedupWindow time.Duration
	LockBackend      string
	TimeZone         string
	AutoMigrate      bool
	OutboxInterval   time.Duration
	ConsumerGroup    string
	SeedAdminName    string
	SeedAdminPIN     string
}

func Load() Config {
	return Config{
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "3000"),
		DB: Database{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "timeclock"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("TIMEZONE", "Local"),
		},
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:      getEnv("KAFKA_BROKER", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		SessionTTL:       getEnvDuration("SESSION_TTL", 12*time.Hour),
		PunchDedupWindow: getEnvDuration("PUNCH_DEDUP_WINDOW", 30*time.Second),
		LockBackend:      strings.ToLower(getEnv("LOCK_BACKEND", "local")),
		TimeZone:         getEnv("TIMEZONE", "Local"),
		AutoMigrate:      getEnvBool("AUTO_MIGRATE", true),
		OutboxInterval:   getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		ConsumerGroup:    getEnv("KAFKA_CONSUMER_GROUP", "timeclock-flag-review"),
		SeedAdminName:    getEnv("SEED_ADMIN_NAME", "Administrator"),
		SeedAdminPIN:     getEnv("SEED_ADMIN_PIN", ""),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location resolves TimeZone; unknown names fall back to time.Local.
func (c Config) Location() *time.Location {
	if c.TimeZone == "" || strings.EqualFold(c.TimeZone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
