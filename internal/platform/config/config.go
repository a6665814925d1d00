package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv keeps main lean;
// every field has a development default except the stores, which fall back
// to in-memory when unset.
type Server struct {
	Addr            string
	PostgresDSN     string
	RedisURL        string
	KafkaBrokers    []string
	AuditTopic      string
	JWTSigningKey   string
	ReplayCacheTTL  time.Duration
	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("FORMDESK_ADDR", ":8080"),
		PostgresDSN:     os.Getenv("FORMDESK_POSTGRES_DSN"),
		RedisURL:        os.Getenv("FORMDESK_REDIS_URL"),
		AuditTopic:      envOr("FORMDESK_AUDIT_TOPIC", "formdesk.audit"),
		JWTSigningKey:   envOr("FORMDESK_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		ReplayCacheTTL:  durationOr("FORMDESK_REPLAY_CACHE_TTL", 24*time.Hour),
		ShutdownTimeout: durationOr("FORMDESK_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if brokers := os.Getenv("FORMDESK_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
