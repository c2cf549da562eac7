package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/mq"
	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/relay"
	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/sqs"
)

// Значения по умолчанию.
const (
	DefaultHTTPAddress  = ":3000"
	DefaultPollInterval = time.Second
)

// Config — полная конфигурация процесса relay.
type Config struct {
	SQS      sqs.Config
	RabbitMQ mq.Config
	Relay    RelayConfig
	HTTP     HTTPConfig
}

// RelayConfig — параметры цикла relay и буфера.
type RelayConfig struct {
	PollInterval   time.Duration
	BufferCapacity int
	OverflowPolicy relay.OverflowPolicy
	Backoff        relay.Backoff
}

// HTTPConfig — параметры HTTP сервера статуса.
type HTTPConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load читает конфигурацию из окружения.
func Load() (*Config, error) {
	policy, err := relay.ParseOverflowPolicy(os.Getenv("RELAY_OVERFLOW_POLICY"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SQS: sqs.Config{
			QueueURL:          os.Getenv("SQS_QUEUE_URL"),
			Region:            getEnv("SQS_REGION", os.Getenv("AWS_REGION")),
			AccessKeyID:       os.Getenv("SQS_ACCESS_KEY_ID"),
			SecretAccessKey:   os.Getenv("SQS_SECRET_ACCESS_KEY"),
			Endpoint:          os.Getenv("SQS_ENDPOINT"),
			MaxMessages:       int32(getEnvInt("SQS_MAX_MESSAGES", int(sqs.DefaultMaxMessages))),
			WaitTime:          getDuration("SQS_WAIT_TIME", sqs.DefaultWaitTime),
			VisibilityTimeout: getDuration("SQS_VISIBILITY_TIMEOUT", 0),
		},
		RabbitMQ: mq.Config{
			URL:            getEnv("RABBITMQ_URL", mq.DefaultURL),
			Username:       os.Getenv("RABBITMQ_USER"),
			Password:       os.Getenv("RABBITMQ_PASS"),
			Exchange:       os.Getenv("RABBITMQ_EXCHANGE"),
			ExchangeType:   getEnv("RABBITMQ_EXCHANGE_TYPE", mq.DefaultExchangeType),
			BindQueue:      os.Getenv("RABBITMQ_BIND_QUEUE"),
			RoutingKey:     getEnv("RABBITMQ_ROUTING_KEY", mq.DefaultRoutingKey),
			Confirm:        getBool("RABBITMQ_CONFIRM", true),
			ContentType:    os.Getenv("RABBITMQ_CONTENT_TYPE"),
			PublishTimeout: getDuration("RABBITMQ_PUBLISH_TIMEOUT", mq.DefaultPublishTimeout),
			DialTimeout:    getDuration("RABBITMQ_DIAL_TIMEOUT", mq.DefaultDialTimeout),
			Heartbeat:      getDuration("RABBITMQ_HEARTBEAT", mq.DefaultHeartbeat),
			ConnectionName: getEnv("RABBITMQ_CONNECTION_NAME", mq.DefaultConnectionName),
		},
		Relay: RelayConfig{
			PollInterval:   getDuration("RELAY_POLL_INTERVAL", DefaultPollInterval),
			BufferCapacity: getEnvInt("RELAY_BUFFER_CAPACITY", relay.DefaultBufferCapacity),
			OverflowPolicy: policy,
			Backoff: relay.Backoff{
				Initial:     getDuration("RELAY_RECONNECT_INITIAL", relay.DefaultBackoff().Initial),
				Max:         getDuration("RELAY_RECONNECT_MAX", relay.DefaultBackoff().Max),
				MaxAttempts: getEnvInt("RELAY_RECONNECT_MAX_ATTEMPTS", 0),
			},
		},
		HTTP: HTTPConfig{
			Address:         httpAddress(),
			ReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}

	return cfg, nil
}

// Validate проверяет конфигурацию целиком и возвращает все найденные ошибки.
func (c *Config) Validate() error {
	var errs []error

	if err := c.SQS.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.RabbitMQ.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Relay.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %s", c.Relay.PollInterval))
	}
	if c.Relay.BufferCapacity <= 0 {
		errs = append(errs, fmt.Errorf("buffer capacity must be positive, got %d", c.Relay.BufferCapacity))
	}
	if c.Relay.Backoff.Initial <= 0 || c.Relay.Backoff.Max < c.Relay.Backoff.Initial {
		errs = append(errs, fmt.Errorf("reconnect backoff must satisfy 0 < initial <= max, got %s..%s",
			c.Relay.Backoff.Initial, c.Relay.Backoff.Max))
	}
	if c.Relay.Backoff.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("reconnect max attempts must not be negative, got %d", c.Relay.Backoff.MaxAttempts))
	}

	if c.HTTP.Address == "" {
		errs = append(errs, errors.New("HTTP address cannot be empty"))
	}

	return errors.Join(errs...)
}

// httpAddress — HTTP_ADDRESS, иначе PORT, иначе :3000.
func httpAddress() string {
	if addr := os.Getenv("HTTP_ADDRESS"); addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return DefaultHTTPAddress
}

// getEnv возвращает переменную окружения или значение по умолчанию.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt возвращает целое из окружения или значение по умолчанию.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getDuration принимает "1500ms", "20s" или целое число секунд.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}

// getBool принимает true/false, 1/0, yes/no.
func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
