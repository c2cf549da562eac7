package sqs

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Значения конфигурации по умолчанию.
const (
	DefaultMaxMessages int32 = 10
	DefaultWaitTime          = 20 * time.Second

	maxMessagesLimit = 10
	maxWaitTime      = 20 * time.Second
)

// API — методы SQS, нужные Source.
type API interface {
	ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Config — параметры подключения к очереди.
type Config struct {
	// QueueURL — URL очереди (обязателен).
	QueueURL string

	// Region — регион AWS. Пустой — из окружения SDK.
	Region string

	// AccessKeyID и SecretAccessKey — статические credentials.
	// Если не заданы, используется стандартная цепочка SDK.
	AccessKeyID     string
	SecretAccessKey string

	// Endpoint — альтернативный адрес API (LocalStack, ElasticMQ).
	Endpoint string

	// MaxMessages — размер пачки, 1..10 (default: 10).
	MaxMessages int32

	// WaitTime — длительность long-poll, 0..20s (default: 20s).
	WaitTime time.Duration

	// VisibilityTimeout — скрытие полученных сообщений. 0 — настройка очереди.
	VisibilityTimeout time.Duration
}

// withDefaults заполняет незаданные поля.
func (c Config) withDefaults() Config {
	if c.MaxMessages <= 0 {
		c.MaxMessages = DefaultMaxMessages
	}
	if c.WaitTime < 0 {
		c.WaitTime = DefaultWaitTime
	}
	return c
}

// Validate проверяет конфигурацию.
func (c Config) Validate() error {
	if c.QueueURL == "" {
		return ErrMissingQueueURL
	}
	if c.MaxMessages < 0 || c.MaxMessages > maxMessagesLimit {
		return fmt.Errorf("%w: max messages must be between 1 and %d, got %d", ErrInvalidConfig, maxMessagesLimit, c.MaxMessages)
	}
	if c.WaitTime > maxWaitTime {
		return fmt.Errorf("%w: wait time must not exceed %s, got %s", ErrInvalidConfig, maxWaitTime, c.WaitTime)
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("%w: access key id and secret access key must be set together", ErrInvalidConfig)
	}
	return nil
}

// NewClient создаёт клиент SQS из конфигурации.
func NewClient(ctx context.Context, cfg Config) (*sqs.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return client, nil
}
