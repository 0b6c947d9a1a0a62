package config

import "time"

const (
	EnvHTTPPort          = "HTTP_PORT"
	EnvGRPCPort          = "GRPC_PORT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvDbDriver          = "DB_DRIVER"
	EnvDbDsn             = "DB_DSN"
	EnvDbHost            = "DB_HOST"
	EnvDbPort            = "DB_PORT"
	EnvDbUser            = "DB_USER"
	EnvDbPassword        = "DB_PASSWORD"
	EnvDbName            = "DB_NAME"
	EnvRedisAddr         = "REDIS_ADDR"
	EnvRedisTTL          = "REDIS_TTL"
	EnvKafkaBrokers      = "KAFKA_BROKERS"
	EnvKafkaTopic        = "KAFKA_TOPIC"
	EnvKafkaGroup        = "KAFKA_GROUP"
	EnvGeneratorEnabled  = "GENERATOR_ENABLED"
	EnvGeneratorInterval = "GENERATOR_INTERVAL"
	EnvGeneratorBatch    = "GENERATOR_BATCH"
	EnvWorkerPoolSize    = "WORKER_POOL_SIZE"
	EnvRecordBuffer      = "RECORD_BUFFER"
	EnvAxisSwitch        = "AXIS_SWITCH"
	EnvShutdownTimeout   = "SHUTDOWN_TIMEOUT"

	DefaultHTTPPort          = 8080
	DefaultGRPCPort          = 50051
	DefaultLogLevel          = "info"
	DefaultDbDriver          = "memory"
	DefaultPostgresPort      = "5432"
	DefaultClickHousePort    = "9000"
	DefaultRedisTTL          = 10 * time.Minute
	DefaultKafkaGroup        = "statistics-aggregator"
	DefaultGeneratorEnabled  = true
	DefaultGeneratorInterval = time.Second
	DefaultGeneratorBatch    = 20
	DefaultWorkerPoolSize    = 4
	DefaultRecordBuffer      = 100
	DefaultAxisSwitch        = "6.0"
	DefaultShutdownTimeout   = 5 * time.Second
)
