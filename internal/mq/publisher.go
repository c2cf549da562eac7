package mq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publish публикует тело сообщения в exchange с routing key.
//
// Сообщение persistent. При включённых confirms возврат nil означает,
// что брокер подтвердил публикацию. Время ожидания ограничено PublishTimeout.
func (s *Sink) Publish(ctx context.Context, body []byte, routingKey string) error {
	s.mu.RLock()
	ch := s.channel
	open := s.isOpen()
	s.mu.RUnlock()

	if !open {
		return &PublishError{Exchange: s.cfg.Exchange, RoutingKey: routingKey, Err: ErrNotConnected}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.PublishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  s.cfg.ContentType,
		DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
		MessageId:    s.newID(),
		Timestamp:    s.now(),
		Body:         body,
	}

	acked, err := ch.PublishConfirmed(ctx, s.cfg.Exchange, routingKey, msg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("no confirm within %s: %w", s.cfg.PublishTimeout, err)
		} else {
			err = brokerError("publish", err)
		}
		return &PublishError{Exchange: s.cfg.Exchange, RoutingKey: routingKey, Err: err}
	}

	if !acked {
		return &PublishError{Exchange: s.cfg.Exchange, RoutingKey: routingKey, Err: ErrPublishNacked}
	}

	s.logger.Debug("published message",
		"exchange", s.cfg.Exchange,
		"routing_key", routingKey,
		"amqp_message_id", msg.MessageId,
		"size", len(body),
	)

	return nil
}
