package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/telemetry"
)

// Значения конфигурации по умолчанию.
const (
	defaultPollInterval = time.Second
	defaultRoutingKey   = "events"
)

// Engine — цикл relay: получение → публикация → подтверждение.
//
// Engine:
//   - Получает пачку сообщений из Source (long-poll)
//   - Для каждого сообщения вызывает Supervisor.PublishOrBuffer
//   - Подтверждает в Source только опубликованные сообщения
//   - Подтверждает буферизованные сообщения после drain в Supervisor
//   - Засыпает на PollInterval и повторяет, пока не остановлен
//
// Одна горутина, без параллельных пачек.
type Engine struct {
	id           string
	source       Source
	supervisor   *Supervisor
	stats        *Stats
	routingKey   string
	pollInterval time.Duration
	logger       *slog.Logger
	now          func() time.Time

	polling atomic.Bool
}

// Config — конфигурация Engine.
type Config struct {
	// Source — очередь-источник.
	Source Source

	// Supervisor — владелец соединения с брокером.
	Supervisor *Supervisor

	// Stats — счётчики (обычно те же, что у Supervisor).
	Stats *Stats

	// RoutingKey — ключ маршрутизации публикаций (default: "events").
	RoutingKey string

	// PollInterval — пауза между итерациями (default: 1s).
	PollInterval time.Duration

	// Logger
	Logger *slog.Logger

	// Now — источник времени (для тестов).
	Now func() time.Time
}

// New создаёт Engine.
func New(cfg Config) *Engine {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	routingKey := cfg.RoutingKey
	if routingKey == "" {
		routingKey = defaultRoutingKey
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	stats := cfg.Stats
	if stats == nil {
		stats = cfg.Supervisor.stats
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()

	return &Engine{
		id:           id,
		source:       cfg.Source,
		supervisor:   cfg.Supervisor,
		stats:        stats,
		routingKey:   routingKey,
		pollInterval: pollInterval,
		logger:       logger.With("relay_id", id),
		now:          now,
	}
}

// ID возвращает идентификатор экземпляра relay.
func (e *Engine) ID() string {
	return e.id
}

// Stats возвращает счётчики relay.
func (e *Engine) Stats() *Stats {
	return e.stats
}

// IsPolling сообщает, работает ли цикл.
func (e *Engine) IsPolling() bool {
	return e.polling.Load()
}

// Stop просит цикл завершиться после текущей итерации.
func (e *Engine) Stop() {
	e.polling.Store(false)
}

// Run выполняет цикл relay до Stop или отмены ctx.
//
// Остановка кооперативная: флаг проверяется раз за итерацию,
// отмена ctx прерывает только паузу между итерациями.
// Операции ввода-вывода текущей итерации завершаются.
//
// Run возвращает nil при штатной остановке и ошибку, если цикл
// завершился из-за неустранимой проблемы (брокер отклонил подключение,
// исчерпаны попытки, паника). Закрывать Sink должен вызывающий.
func (e *Engine) Run(ctx context.Context) error {
	e.polling.Store(true)
	defer e.polling.Store(false)

	e.logger.Info("relay started",
		"poll_interval", e.pollInterval,
		"routing_key", e.routingKey,
	)

	for e.polling.Load() && ctx.Err() == nil {
		if err := e.iterate(context.WithoutCancel(ctx)); err != nil {
			e.logger.Error("relay loop terminated", "error", err)
			return err
		}

		if !e.polling.Load() {
			break
		}

		timer := time.NewTimer(e.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	e.logger.Info("relay stopped", "messages_processed", e.stats.Snapshot().MessagesProcessed)
	return nil
}

// iterate выполняет одну итерацию с перехватом паники.
func (e *Engine) iterate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic recovered",
				"error", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%w: %v", ErrLoopPanic, r)
		}
	}()

	return e.poll(ctx)
}

// poll выполняет один цикл: reconnect, receive, publish/ack каждого сообщения.
func (e *Engine) poll(ctx context.Context) error {
	if err := e.supervisor.Reconnect(ctx, e.acknowledgeDrained); err != nil {
		return err
	}

	if e.supervisor.Backpressured() {
		e.logger.Debug("pending buffer full, skipping receive",
			"pending", e.supervisor.Pending(),
		)
		return nil
	}

	messages, err := e.source.Receive(ctx)
	if err != nil {
		e.stats.receiveFailed()
		e.logger.Error("failed to receive messages", "error", err)
		return nil
	}

	e.stats.received(len(messages), e.now())

	if len(messages) == 0 {
		e.logger.Debug("no messages available")
		return nil
	}

	e.logger.Debug("received messages", "count", len(messages))

	for i := range messages {
		e.relay(ctx, messages[i])
	}

	return nil
}

// relay публикует одно сообщение. Ошибки не выходят за пределы сообщения.
func (e *Engine) relay(ctx context.Context, msg Message) {
	outcome, err := e.supervisor.PublishOrBuffer(ctx, msg, e.routingKey)
	logger := telemetry.WithMessageID(e.logger, msg.ID)

	switch outcome {
	case OutcomePublished:
		e.acknowledge(ctx, msg)

	case OutcomeBuffered:
		logger.Debug("message buffered", "pending", e.supervisor.Pending())

	case OutcomeRejected:
		if errors.Is(err, ErrBufferFull) {
			logger.Warn("pending buffer full, message left in source queue")
			return
		}
		logger.Error("message rejected", "error", err)
	}
}

// acknowledgeDrained подтверждает сообщение, опубликованное из буфера.
func (e *Engine) acknowledgeDrained(ctx context.Context, p Pending) {
	e.acknowledge(ctx, p.Message)
}

// acknowledge удаляет сообщение из источника.
// Ошибка не фатальна: источник доставит сообщение повторно.
func (e *Engine) acknowledge(ctx context.Context, msg Message) {
	if err := e.source.Acknowledge(ctx, msg.ReceiptHandle); err != nil {
		e.stats.ackFailed()
		e.logger.Error("failed to delete message from the queue, it may be redelivered",
			"message_id", msg.ID,
			"error", err,
		)
		return
	}

	e.stats.acknowledged()
	e.logger.Debug("message relayed", "message_id", msg.ID)
}
