package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/relay"
)

// Connection — AMQP соединение, как его видит Sink.
type Connection interface {
	Channel() (Channel, error)
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	IsClosed() bool
	Close() error
}

// Channel — AMQP канал, как его видит Sink.
type Channel interface {
	Confirm(noWait bool) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error

	// PublishConfirmed публикует сообщение и, если канал в режиме confirm,
	// ждёт ответа брокера. acked == false означает basic.nack.
	PublishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) (acked bool, err error)

	IsClosed() bool
	Close() error
}

// Dialer открывает AMQP соединение.
type Dialer func(url string, cfg amqp.Config) (Connection, error)

// amqpConnection адаптирует *amqp.Connection к Connection.
type amqpConnection struct {
	*amqp.Connection
}

func (c *amqpConnection) Channel() (Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return &amqpChannel{Channel: ch}, nil
}

// amqpChannel адаптирует *amqp.Channel к Channel.
type amqpChannel struct {
	*amqp.Channel
}

func (c *amqpChannel) PublishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) (bool, error) {
	dc, err := c.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return false, err
	}

	// Канал не в режиме confirm.
	if dc == nil {
		return true, nil
	}

	return dc.WaitContext(ctx)
}

// DialAMQP — Dialer по умолчанию.
func DialAMQP(url string, cfg amqp.Config) (Connection, error) {
	conn, err := amqp.DialConfig(url, cfg)
	if err != nil {
		return nil, err
	}
	return &amqpConnection{Connection: conn}, nil
}

// Option настраивает Sink.
type Option func(*Sink)

// WithDialer подменяет способ подключения (для тестов).
func WithDialer(d Dialer) Option {
	return func(s *Sink) {
		s.dial = d
	}
}

// Sink — exchange RabbitMQ как relay.Sink.
//
// Особенности:
//   - Одно соединение и один канал
//   - Publisher confirms (если включены)
//   - Топология объявляется при каждом Connect
//   - Без автоматического переподключения
type Sink struct {
	cfg    Config
	logger *slog.Logger
	dial   Dialer
	newID  func() string
	now    func() time.Time

	mu      sync.RWMutex
	conn    Connection
	channel Channel
}

var _ relay.Sink = (*Sink)(nil)

// NewSink создаёт Sink. Подключение выполняется в Connect.
func NewSink(cfg Config, logger *slog.Logger, opts ...Option) *Sink {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Sink{
		cfg:    cfg.withDefaults(),
		logger: logger,
		dial:   DialAMQP,
		newID:  uuid.NewString,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Connect устанавливает соединение, открывает канал и объявляет топологию.
// Если соединение уже открыто, ничего не делает.
func (s *Sink) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isOpen() {
		return nil
	}

	// Остатки разорванного соединения.
	s.teardown()

	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := s.dial(s.cfg.URL, s.amqpConfig())
	if err != nil {
		return brokerError("dial", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return brokerError("open channel", err)
	}

	if s.cfg.Confirm {
		if err := ch.Confirm(false); err != nil {
			conn.Close()
			return brokerError("enable confirms", err)
		}
	}

	if err := declareTopology(ch, s.cfg); err != nil {
		conn.Close()
		return err
	}

	s.conn = conn
	s.channel = ch

	// Наблюдаем за закрытием со стороны брокера
	go s.watchClose(conn.NotifyClose(make(chan *amqp.Error, 1)))

	s.logger.Info("connected to RabbitMQ",
		"url", SanitizeURL(s.cfg.URL),
		"exchange", s.cfg.Exchange,
		"confirm", s.cfg.Confirm,
	)

	return nil
}

// watchClose логирует закрытие соединения брокером.
// При штатном Close канал уведомлений закрывается без ошибки.
func (s *Sink) watchClose(notify chan *amqp.Error) {
	err, ok := <-notify
	if !ok || err == nil {
		return
	}

	s.logger.Warn("RabbitMQ closed the connection",
		"code", err.Code,
		"reason", err.Reason,
		"server", err.Server,
		"recoverable", err.Recover,
	)
}

// IsConnected проверяет, что соединение и канал открыты.
func (s *Sink) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOpen()
}

func (s *Sink) isOpen() bool {
	return s.conn != nil && !s.conn.IsClosed() &&
		s.channel != nil && !s.channel.IsClosed()
}

// Close закрывает канал, затем соединение. Повторный вызов безопасен.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil && s.channel == nil {
		return nil
	}

	err := s.teardown()
	if err == nil {
		s.logger.Info("RabbitMQ connection closed")
	}
	return err
}

// teardown закрывает канал и соединение, если они ещё открыты.
// Вызывается под s.mu.
func (s *Sink) teardown() error {
	var errs []error

	if s.channel != nil && !s.channel.IsClosed() {
		if err := s.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}

	if s.conn != nil && !s.conn.IsClosed() {
		if err := s.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	s.channel = nil
	s.conn = nil

	return errors.Join(errs...)
}

func (s *Sink) amqpConfig() amqp.Config {
	cfg := amqp.Config{
		Heartbeat:  s.cfg.Heartbeat,
		Locale:     "en_US",
		Dial:       amqp.DefaultDial(s.cfg.DialTimeout),
		Properties: amqp.NewConnectionProperties(),
	}
	cfg.Properties.SetClientConnectionName(s.cfg.ConnectionName)

	if s.cfg.Username != "" {
		cfg.SASL = []amqp.Authentication{
			&amqp.PlainAuth{Username: s.cfg.Username, Password: s.cfg.Password},
		}
	}

	return cfg
}
