package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "fairworkly/pkg/platform/strings"
)

// Server captures process-level configuration. FromEnv keeps main lean; every
// field has a development default so the service boots with no environment.
type Server struct {
	Addr            string
	LogLevel        string
	DatabaseURL     string
	Redis           RedisConfig
	Kafka           KafkaConfig
	FileStorageRoot string
	ShutdownTimeout time.Duration
	RateLimit       RateLimitConfig
}

// RateLimitConfig throttles uploads per tenant.
type RateLimitConfig struct {
	UploadLimit  int
	UploadWindow time.Duration
}

// RedisConfig configures the optional result cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ResultTTL    time.Duration
}

// KafkaConfig configures the optional audit event sink. Empty brokers disable it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:            envOr("FAIRWORKLY_ADDR", ":8080"),
		LogLevel:        envOr("FAIRWORKLY_LOG_LEVEL", "info"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		FileStorageRoot: envOr("FILE_STORAGE_ROOT", "var/uploads"),
		ShutdownTimeout: envDurationOr("SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimit: RateLimitConfig{
			UploadLimit:  envIntOr("UPLOAD_RATE_LIMIT", 60),
			UploadWindow: envDurationOr("UPLOAD_RATE_WINDOW", time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
			ResultTTL:    envDurationOr("RESULT_CACHE_TTL", time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: platformstrings.DedupeAndTrim(strings.Split(os.Getenv("KAFKA_BROKERS"), ",")),
			Topic:   envOr("KAFKA_AUDIT_TOPIC", "fairworkly.audit"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
