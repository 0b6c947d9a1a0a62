package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database describes the record store connection.
type Database struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Redis configures the optional second-level series cache. An empty Addr
// disables it.
type Redis struct {
	Addr string
	TTL  time.Duration
}

// Kafka configures the optional record consumer. No brokers disables it.
type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
}

// Generator configures the synthetic record producer.
type Generator struct {
	Enabled   bool
	Interval  time.Duration
	BatchSize int
}

// Config holds the application settings read from the environment.
type Config struct {
	HTTPPort        int
	GRPCPort        int
	LogLevel        string
	Database        Database
	Redis           Redis
	Kafka           Kafka
	Generator       Generator
	WorkerPoolSize  int
	RecordBuffer    int
	AxisSwitch      string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, falling back to defaults
// for unset keys.
func Load() (*Config, error) {
	httpPort, err := getEnvInt(EnvHTTPPort, DefaultHTTPPort)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvHTTPPort, err)
	}

	grpcPort, err := getEnvInt(EnvGRPCPort, DefaultGRPCPort)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvGRPCPort, err)
	}

	redisTTL, err := getEnvDuration(EnvRedisTTL, DefaultRedisTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvRedisTTL, err)
	}

	generatorEnabled, err := getEnvBool(EnvGeneratorEnabled, DefaultGeneratorEnabled)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvGeneratorEnabled, err)
	}

	generatorInterval, err := getEnvDuration(EnvGeneratorInterval, DefaultGeneratorInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvGeneratorInterval, err)
	}

	generatorBatch, err := getEnvInt(EnvGeneratorBatch, DefaultGeneratorBatch)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvGeneratorBatch, err)
	}

	workerPoolSize, err := getEnvInt(EnvWorkerPoolSize, DefaultWorkerPoolSize)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvWorkerPoolSize, err)
	}

	recordBuffer, err := getEnvInt(EnvRecordBuffer, DefaultRecordBuffer)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvRecordBuffer, err)
	}

	shutdownTimeout, err := getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvShutdownTimeout, err)
	}

	cfg := &Config{
		HTTPPort: httpPort,
		GRPCPort: grpcPort,
		LogLevel: normalizeLogLevel(getEnvString(EnvLogLevel, DefaultLogLevel)),
		Database: Database{
			Driver:   strings.ToLower(getEnvString(EnvDbDriver, DefaultDbDriver)),
			DSN:      os.Getenv(EnvDbDsn),
			Host:     os.Getenv(EnvDbHost),
			Port:     os.Getenv(EnvDbPort),
			User:     os.Getenv(EnvDbUser),
			Password: os.Getenv(EnvDbPassword),
			Name:     os.Getenv(EnvDbName),
		},
		Redis: Redis{
			Addr: os.Getenv(EnvRedisAddr),
			TTL:  redisTTL,
		},
		Kafka: Kafka{
			Brokers: splitList(os.Getenv(EnvKafkaBrokers)),
			Topic:   os.Getenv(EnvKafkaTopic),
			Group:   getEnvString(EnvKafkaGroup, DefaultKafkaGroup),
		},
		Generator: Generator{
			Enabled:   generatorEnabled,
			Interval:  generatorInterval,
			BatchSize: generatorBatch,
		},
		WorkerPoolSize:  workerPoolSize,
		RecordBuffer:    recordBuffer,
		AxisSwitch:      getEnvString(EnvAxisSwitch, DefaultAxisSwitch),
		ShutdownTimeout: shutdownTimeout,
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return parsed, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(value)
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// normalizeLogLevel maps a textual level onto a supported value.
func normalizeLogLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return strings.ToLower(level)
	case "warning":
		return "warn"
	default:
		return DefaultLogLevel
	}
}
