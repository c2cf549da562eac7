package relay

import (
	"context"
	"time"
)

// Message — сообщение, полученное из очереди-источника.
//
// ReceiptHandle выдаётся источником при каждом получении и нужен
// для подтверждения (удаления) именно этой доставки.
type Message struct {
	// ID — идентификатор сообщения в источнике.
	ID string

	// Body — тело сообщения, публикуется без изменений.
	Body []byte

	// ReceiptHandle — непрозрачный токен для подтверждения.
	ReceiptHandle string

	// ReceivedAt — время получения relay.
	ReceivedAt time.Time
}

// Pending — сообщение в буфере, ожидающее подключения к брокеру.
type Pending struct {
	Message    Message
	RoutingKey string
	BufferedAt time.Time
}

// Source — очередь-источник с явным подтверждением (pull).
type Source interface {
	// Receive выполняет long-poll и возвращает пачку сообщений (возможно пустую).
	Receive(ctx context.Context) ([]Message, error)

	// Acknowledge удаляет сообщение из источника по receipt handle.
	Acknowledge(ctx context.Context, receiptHandle string) error
}

// Sink — exchange брокера (push).
type Sink interface {
	// Connect устанавливает соединение и объявляет exchange. Идемпотентен.
	Connect(ctx context.Context) error

	// IsConnected сообщает, открыто ли соединение.
	IsConnected() bool

	// Publish публикует тело сообщения с routing key.
	Publish(ctx context.Context, body []byte, routingKey string) error

	// Close закрывает канал, затем соединение.
	Close() error
}
