package sqs

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/relay"
)

// Source — очередь SQS как relay.Source.
type Source struct {
	api    API
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

var _ relay.Source = (*Source)(nil)

// NewSource создаёт Source. Конфигурация должна пройти Validate.
func NewSource(api API, cfg Config, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}

	return &Source{
		api:    api,
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// QueueURL возвращает URL очереди.
func (s *Source) QueueURL() string {
	return s.cfg.QueueURL
}

// Receive получает до MaxMessages сообщений, ожидая до WaitTime.
// Пустая пачка — нормальный результат.
func (s *Source) Receive(ctx context.Context) ([]relay.Message, error) {
	in := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.cfg.QueueURL),
		MaxNumberOfMessages: s.cfg.MaxMessages,
		WaitTimeSeconds:     int32(s.cfg.WaitTime / time.Second),
	}
	if s.cfg.VisibilityTimeout > 0 {
		in.VisibilityTimeout = int32(s.cfg.VisibilityTimeout / time.Second)
	}

	out, err := s.api.ReceiveMessage(ctx, in)
	if err != nil {
		return nil, wrapError("ReceiveMessage", err)
	}

	receivedAt := s.now()
	messages := make([]relay.Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		if m.ReceiptHandle == nil {
			s.logger.Warn("skipping message without receipt handle",
				"message_id", aws.ToString(m.MessageId),
			)
			continue
		}

		messages = append(messages, relay.Message{
			ID:            aws.ToString(m.MessageId),
			Body:          []byte(aws.ToString(m.Body)),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
			ReceivedAt:    receivedAt,
		})
	}

	return messages, nil
}

// Acknowledge удаляет доставку из очереди.
func (s *Source) Acknowledge(ctx context.Context, receiptHandle string) error {
	if receiptHandle == "" {
		return ErrEmptyReceiptHandle
	}

	_, err := s.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.cfg.QueueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return wrapError("DeleteMessage", err)
	}

	return nil
}
