package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/mq"
	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/relay"
	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/sqs"
)

// clearEnv сбрасывает переменные, которые могут прийти из окружения CI.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SQS_QUEUE_URL", "SQS_REGION", "AWS_REGION", "SQS_ACCESS_KEY_ID", "SQS_SECRET_ACCESS_KEY",
		"SQS_ENDPOINT", "SQS_MAX_MESSAGES", "SQS_WAIT_TIME", "SQS_VISIBILITY_TIMEOUT",
		"RABBITMQ_URL", "RABBITMQ_USER", "RABBITMQ_PASS", "RABBITMQ_EXCHANGE", "RABBITMQ_EXCHANGE_TYPE",
		"RABBITMQ_BIND_QUEUE", "RABBITMQ_ROUTING_KEY", "RABBITMQ_CONFIRM", "RABBITMQ_CONTENT_TYPE",
		"RABBITMQ_PUBLISH_TIMEOUT", "RABBITMQ_DIAL_TIMEOUT", "RABBITMQ_HEARTBEAT", "RABBITMQ_CONNECTION_NAME",
		"RELAY_POLL_INTERVAL", "RELAY_BUFFER_CAPACITY", "RELAY_OVERFLOW_POLICY",
		"RELAY_RECONNECT_INITIAL", "RELAY_RECONNECT_MAX", "RELAY_RECONNECT_MAX_ATTEMPTS",
		"HTTP_ADDRESS", "PORT", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQS_QUEUE_URL", "https://sqs.eu-west-1.amazonaws.com/1/events")
	t.Setenv("RABBITMQ_EXCHANGE", "ziqni.events")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, sqs.DefaultMaxMessages, cfg.SQS.MaxMessages)
	assert.Equal(t, 20*time.Second, cfg.SQS.WaitTime)
	assert.Zero(t, cfg.SQS.VisibilityTimeout)

	assert.Equal(t, mq.DefaultURL, cfg.RabbitMQ.URL)
	assert.Equal(t, "direct", cfg.RabbitMQ.ExchangeType)
	assert.Equal(t, "events", cfg.RabbitMQ.RoutingKey)
	assert.True(t, cfg.RabbitMQ.Confirm)

	assert.Equal(t, time.Second, cfg.Relay.PollInterval)
	assert.Equal(t, relay.DefaultBufferCapacity, cfg.Relay.BufferCapacity)
	assert.Equal(t, relay.OverflowBackpressure, cfg.Relay.OverflowPolicy)
	assert.Equal(t, relay.DefaultBackoff(), cfg.Relay.Backoff)

	assert.Equal(t, ":3000", cfg.HTTP.Address)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQS_QUEUE_URL", "http://localhost:4566/000000000000/events")
	t.Setenv("SQS_ENDPOINT", "http://localhost:4566")
	t.Setenv("SQS_MAX_MESSAGES", "5")
	t.Setenv("SQS_WAIT_TIME", "10")
	t.Setenv("SQS_VISIBILITY_TIMEOUT", "2m")
	t.Setenv("RABBITMQ_EXCHANGE", "ziqni.events")
	t.Setenv("RABBITMQ_USER", "relay")
	t.Setenv("RABBITMQ_PASS", "secret")
	t.Setenv("RABBITMQ_CONFIRM", "false")
	t.Setenv("RABBITMQ_ROUTING_KEY", "achievements")
	t.Setenv("RELAY_POLL_INTERVAL", "250ms")
	t.Setenv("RELAY_OVERFLOW_POLICY", "drop-oldest")
	t.Setenv("RELAY_BUFFER_CAPACITY", "100")
	t.Setenv("RELAY_RECONNECT_MAX_ATTEMPTS", "7")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.EqualValues(t, 5, cfg.SQS.MaxMessages)
	assert.Equal(t, 10*time.Second, cfg.SQS.WaitTime)
	assert.Equal(t, 2*time.Minute, cfg.SQS.VisibilityTimeout)
	assert.Equal(t, "http://localhost:4566", cfg.SQS.Endpoint)
	assert.Equal(t, "relay", cfg.RabbitMQ.Username)
	assert.False(t, cfg.RabbitMQ.Confirm)
	assert.Equal(t, "achievements", cfg.RabbitMQ.RoutingKey)
	assert.Equal(t, 250*time.Millisecond, cfg.Relay.PollInterval)
	assert.Equal(t, relay.OverflowDropOldest, cfg.Relay.OverflowPolicy)
	assert.Equal(t, 100, cfg.Relay.BufferCapacity)
	assert.Equal(t, 7, cfg.Relay.Backoff.MaxAttempts)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
}

func TestLoad_HTTPAddressWinsOverPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDRESS", "127.0.0.1:9000")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Address)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RELAY_POLL_INTERVAL", "soon")
	t.Setenv("RELAY_BUFFER_CAPACITY", "lots")
	t.Setenv("RABBITMQ_CONFIRM", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Relay.PollInterval)
	assert.Equal(t, relay.DefaultBufferCapacity, cfg.Relay.BufferCapacity)
	assert.True(t, cfg.RabbitMQ.Confirm)
}

func TestLoad_InvalidOverflowPolicy(t *testing.T) {
	clearEnv(t)
	t.Setenv("RELAY_OVERFLOW_POLICY", "block")

	_, err := Load()

	assert.ErrorIs(t, err, relay.ErrInvalidOverflowPolicy)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, sqs.ErrMissingQueueURL)
	assert.ErrorIs(t, err, mq.ErrMissingExchange)

	cfg.SQS.QueueURL = "https://sqs.eu-west-1.amazonaws.com/1/events"
	cfg.RabbitMQ.Exchange = "ziqni.events"
	cfg.Relay.Backoff.Max = cfg.Relay.Backoff.Initial / 2

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconnect backoff")
}
