package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort string
	LogLevel string

	Storage    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	QuantityPolicy string

	KafkaHost              string
	KafkaOrderChangedTopic string
	KafkaPublishTimeout    time.Duration

	OtelEndpoint string
	OtelURLPath  string
	OtelInsecure bool

	StockGaugeSchedule string
	SeedFile           string
}

// ConfigFromEnv reads the configuration from the process environment.
// Missing values fall back to development defaults.
func ConfigFromEnv() (Config, error) {
	insecure, err := boolVar("OTEL_EXPORTER_INSECURE", true)
	if err != nil {
		return Config{}, err
	}

	publishTimeout, err := durationVar("KAFKA_PUBLISH_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:               stringVar("HTTP_PORT", "8080"),
		LogLevel:               stringVar("LOG_LEVEL", "info"),
		Storage:                stringVar("STORAGE", StorageMemory),
		DBHost:                 stringVar("DB_HOST", "localhost"),
		DBPort:                 stringVar("DB_PORT", "5432"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 stringVar("DB_NAME", "fulfillment"),
		DBSslMode:              stringVar("DB_SSLMODE", "disable"),
		QuantityPolicy:         os.Getenv("QUANTITY_POLICY"),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: stringVar("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),
		KafkaPublishTimeout:    publishTimeout,
		OtelEndpoint:           os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelURLPath:            os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PATH"),
		OtelInsecure:           insecure,
		StockGaugeSchedule:     os.Getenv("STOCK_GAUGE_SCHEDULE"),
		SeedFile:               os.Getenv("SEED_FILE"),
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown storage backends.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StoragePostgres:
		return nil
	default:
		return fmt.Errorf("unknown storage %q, expected %q or %q", c.Storage, StorageMemory, StoragePostgres)
	}
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func stringVar(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func boolVar(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func durationVar(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
