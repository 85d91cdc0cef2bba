package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	// Addr is the API listen address.
	Addr string
	// MetricsAddr serves /metrics separately so scrapes never compete
	// with renders. Empty disables the second listener and mounts
	// /metrics on the API router instead.
	MetricsAddr string
	// RedisURL switches the snapshot store from in-memory to Redis.
	RedisURL string
	// DatabaseURL enables the snapshot archive. Empty disables archiving.
	DatabaseURL string
	// SessionTTL bounds how long a session's snapshot is retained.
	SessionTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. Every value has a development default.
func FromEnv() Server {
	cfg := Server{
		Addr:        os.Getenv("AGRIDASH_ADDR"),
		MetricsAddr: os.Getenv("AGRIDASH_METRICS_ADDR"),
		RedisURL:    os.Getenv("REDIS_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SessionTTL:  24 * time.Hour,
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if raw := os.Getenv("AGRIDASH_SESSION_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			cfg.SessionTTL = time.Duration(hours) * time.Hour
		}
	}
	return cfg
}
