package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Payment  PaymentConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type RedisConfig struct {
	Addr        string
	RoomLockTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	BookingCreated   string
	BookingUpdated   string
	TicketCreated    string
	PaymentProcessed string
}

type AuthConfig struct {
	JWTSecret     string
	OIDCIssuer    string
	TokenCacheTTL time.Duration
}

type PaymentConfig struct {
	StripeSecretKey string
	QRSecret        string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8085"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Username:     getEnv("DB_USERNAME", "booking_user"),
			Password:     getEnv("DB_PASSWORD", "booking_pass"),
			Database:     getEnv("DB_NAME", "booking"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			RoomLockTTL: time.Duration(getEnvInt("ROOM_LOCK_TTL_SECONDS", 10)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_ADDR", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Topics: TopicConfig{
				BookingCreated:   getEnv("KAFKA_TOPIC_BOOKING_CREATED", "booking.bookings.created"),
				BookingUpdated:   getEnv("KAFKA_TOPIC_BOOKING_UPDATED", "booking.bookings.updated"),
				TicketCreated:    getEnv("KAFKA_TOPIC_TICKET_CREATED", "booking.tickets.created"),
				PaymentProcessed: getEnv("KAFKA_TOPIC_PAYMENT_PROCESSED", "booking.payments.processed"),
			},
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			OIDCIssuer:    getEnv("OIDC_ISSUER", ""),
			TokenCacheTTL: time.Duration(getEnvInt("TOKEN_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Payment: PaymentConfig{
			StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			QRSecret:        getEnv("QR_SECRET_KEY", "dev-qr-secret"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
