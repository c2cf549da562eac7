package mq

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Ошибки Sink.
var (
	// ErrNotConnected — публикация без открытого канала.
	ErrNotConnected = errors.New("mq: not connected")

	// ErrPublishNacked — брокер отклонил публикацию (basic.nack).
	ErrPublishNacked = errors.New("mq: publish not acknowledged by broker")

	// ErrMissingExchange — не задано имя exchange.
	ErrMissingExchange = errors.New("mq: exchange is required")

	// ErrInvalidURL — некорректный адрес брокера.
	ErrInvalidURL = errors.New("mq: invalid url")

	// ErrInvalidConfig — недопустимая конфигурация.
	ErrInvalidConfig = errors.New("mq: invalid config")
)

// BrokerError — ошибка взаимодействия с брокером.
//
// Permanent() == true для ошибок, которые не исчезнут при повторе:
// отказ в доступе, отсутствующий vhost, несовместимое объявление exchange.
type BrokerError struct {
	// Op — операция (dial, channel, confirm, declare exchange, ...).
	Op string

	// Code — код AMQP (0, если ошибка не от брокера).
	Code int

	Err error
}

func (e *BrokerError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("mq %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("mq %s (code %d): %v", e.Op, e.Code, e.Err)
}

func (e *BrokerError) Unwrap() error {
	return e.Err
}

// Permanent сообщает, что повторная попытка не поможет.
func (e *BrokerError) Permanent() bool {
	switch e.Code {
	case amqp.AccessRefused, amqp.NotFound, amqp.PreconditionFailed, amqp.NotAllowed:
		return true
	default:
		return false
	}
}

// PublishError — ошибка публикации сообщения.
type PublishError struct {
	Exchange   string
	RoutingKey string
	Err        error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %s/%s: %v", e.Exchange, e.RoutingKey, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// brokerError оборачивает ошибку, извлекая код AMQP.
func brokerError(op string, err error) error {
	be := &BrokerError{Op: op, Err: err}

	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) {
		be.Code = amqpErr.Code
	}

	return be
}
