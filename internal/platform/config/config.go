package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	AdminPrincipal string
	AdminTokenHash string
	JWTSigningKey  string
	RequestTimeout time.Duration

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// PostgresConfig holds the connection settings for the durable stores.
// An empty URL means the process runs on in-memory stores.
type PostgresConfig struct {
	URL string
}

// RedisConfig holds the ancillary-store backend settings. An empty URL means
// the in-memory implementation is used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds event streaming settings. Empty brokers disable the
// outbox worker; events then stay queryable in the local store only.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CADASTRE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	adminPrincipal := os.Getenv("CADASTRE_ADMIN_PRINCIPAL")
	if adminPrincipal == "" {
		adminPrincipal = "registry-admin"
	}

	topic := os.Getenv("KAFKA_EVENTS_TOPIC")
	if topic == "" {
		topic = "cadastre.property-events"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:           addr,
		AdminPrincipal: adminPrincipal,
		AdminTokenHash: os.Getenv("CADASTRE_ADMIN_TOKEN_HASH"),
		JWTSigningKey:  jwtSigningKey,
		RequestTimeout: 30 * time.Second,
		Postgres: PostgresConfig{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}
