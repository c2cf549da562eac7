package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// State — состояние соединения с брокером.
type State int

// Состояния соединения.
const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Outcome — результат PublishOrBuffer.
type Outcome int

// Результаты публикации.
const (
	// OutcomePublished — брокер подтвердил публикацию.
	OutcomePublished Outcome = iota

	// OutcomeBuffered — сообщение ждёт в буфере, подтверждать его нельзя.
	OutcomeBuffered

	// OutcomeRejected — буфер заполнен, сообщение осталось в источнике.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomePublished:
		return "published"
	case OutcomeBuffered:
		return "buffered"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// DeliveredFunc вызывается для каждого сообщения, опубликованного из буфера.
type DeliveredFunc func(ctx context.Context, p Pending)

// Supervisor управляет жизненным циклом Sink.
//
// Supervisor:
//   - Отслеживает состояние соединения (Disconnected → Connecting → Connected)
//   - Переподключается с экспоненциальной задержкой
//   - Буферизует сообщения, пока брокер недоступен
//   - При переходе в Connected публикует буфер строго в порядке FIFO
//
// Supervisor не потокобезопасен: им владеет единственная горутина Engine.
type Supervisor struct {
	sink    Sink
	buffer  *Buffer
	backoff Backoff
	stats   *Stats
	logger  *slog.Logger
	now     func() time.Time

	state       State
	attempts    int
	nextAttempt time.Time
}

// SupervisorConfig — конфигурация Supervisor.
type SupervisorConfig struct {
	// Sink — брокер (обязателен).
	Sink Sink

	// Buffer — буфер сообщений (если nil — NewBuffer(DefaultBufferCapacity, OverflowBackpressure)).
	Buffer *Buffer

	// Backoff — политика переподключения (если нулевая — DefaultBackoff()).
	Backoff Backoff

	// Stats — счётчики (если nil — создаются новые).
	Stats *Stats

	// Logger
	Logger *slog.Logger

	// Now — источник времени (для тестов).
	Now func() time.Time
}

// NewSupervisor создаёт Supervisor в состоянии Disconnected.
func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	buffer := cfg.Buffer
	if buffer == nil {
		buffer = NewBuffer(DefaultBufferCapacity, OverflowBackpressure)
	}

	backoff := cfg.Backoff
	if backoff == (Backoff{}) {
		backoff = DefaultBackoff()
	}

	stats := cfg.Stats
	if stats == nil {
		stats = NewStats(now())
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Supervisor{
		sink:    cfg.Sink,
		buffer:  buffer,
		backoff: backoff,
		stats:   stats,
		logger:  logger,
		now:     now,
		state:   StateDisconnected,
	}
}

// State возвращает текущее состояние соединения.
func (s *Supervisor) State() State {
	return s.state
}

// IsConnected сообщает, что Supervisor в состоянии Connected.
func (s *Supervisor) IsConnected() bool {
	return s.state == StateConnected
}

// Pending возвращает количество сообщений в буфере.
func (s *Supervisor) Pending() int {
	return s.buffer.Len()
}

// Backpressured сообщает, что Engine должен пропустить получение новых сообщений.
func (s *Supervisor) Backpressured() bool {
	return s.buffer.Policy() == OverflowBackpressure && s.buffer.Full()
}

// Reconnect переподключается к брокеру, если соединения нет.
//
// Вызывается в начале каждой итерации Engine:
//  1. Connected и брокер жив — ничего не делает
//  2. Connected, но брокер закрыл соединение — переход в Disconnected
//  3. Окно backoff ещё не истекло — ничего не делает
//  4. Connecting → Connect; ошибка — Disconnected и новое окно backoff
//  5. Connected → публикация буфера (onDelivered для каждого сообщения);
//     ошибка публикации тоже открывает новое окно backoff
//
// Счётчик попыток сбрасывается только после полного drain
// или успешной публикации.
//
// Возвращает ошибку только если продолжать бессмысленно:
// ErrSinkRejected (credentials, топология) или ErrReconnectExhausted.
func (s *Supervisor) Reconnect(ctx context.Context, onDelivered DeliveredFunc) error {
	if s.state == StateConnected {
		if s.sink.IsConnected() {
			return nil
		}
		s.disconnect(ErrConnectionLost)
	}

	now := s.now()
	if now.Before(s.nextAttempt) {
		return nil
	}

	s.setState(StateConnecting)

	if err := s.sink.Connect(ctx); err != nil {
		s.stats.reconnectAttempt(false)
		s.setState(StateDisconnected)

		if isPermanent(err) {
			return fmt.Errorf("%w: %w", ErrSinkRejected, err)
		}
		return s.retryLater(now, "reconnect failed", err)
	}

	if s.attempts > 0 {
		s.logger.Info("reconnected to broker", "attempts", s.attempts+1)
	}

	s.nextAttempt = time.Time{}
	s.stats.reconnectAttempt(true)
	s.setState(StateConnected)

	// Брокер может принимать соединения, но не публикации:
	// неудачный drain считается неудачной попыткой.
	if err := s.drain(ctx, onDelivered); err != nil {
		return s.retryLater(now, "buffer drain failed", err)
	}

	s.attempts = 0
	return nil
}

// retryLater засчитывает неудачную попытку и назначает следующую через Delay.
func (s *Supervisor) retryLater(now time.Time, msg string, err error) error {
	s.attempts++

	if s.backoff.Exhausted(s.attempts) {
		return fmt.Errorf("%w after %d attempts: %w", ErrReconnectExhausted, s.attempts, err)
	}

	delay := s.backoff.Delay(s.attempts)
	s.nextAttempt = now.Add(delay)

	s.logger.Warn(msg,
		"attempt", s.attempts,
		"next_attempt_in", delay,
		"pending", s.buffer.Len(),
		"error", err,
	)
	return nil
}

// drain публикует буфер в порядке FIFO.
// При ошибке оставшиеся сообщения остаются в начале буфера.
func (s *Supervisor) drain(ctx context.Context, onDelivered DeliveredFunc) error {
	total := s.buffer.Len()
	if total == 0 {
		return nil
	}

	s.logger.Info("sending buffered messages after reconnection", "count", total)

	for {
		p, ok := s.buffer.Front()
		if !ok {
			break
		}

		if err := s.sink.Publish(ctx, p.Message.Body, p.RoutingKey); err != nil {
			s.stats.publishFailed()
			s.disconnect(err)
			s.logger.Warn("buffer drain interrupted",
				"sent", total-s.buffer.Len(),
				"remaining", s.buffer.Len(),
				"error", err,
			)
			return err
		}

		s.buffer.PopFront()
		s.stats.published(s.now())
		s.stats.pending(s.buffer.Len())

		if onDelivered != nil {
			onDelivered(ctx, p)
		}
	}

	s.logger.Info("buffer drained", "count", total)
	return nil
}

// PublishOrBuffer публикует сообщение или кладёт его в буфер.
//
//   - Connected и буфер пуст — публикация; при ошибке переход в Disconnected
//     и сообщение уходит в конец буфера
//   - иначе — сразу в буфер, без попытки публикации
//
// OutcomeRejected возвращается вместе с ErrBufferFull.
func (s *Supervisor) PublishOrBuffer(ctx context.Context, msg Message, routingKey string) (Outcome, error) {
	if s.state == StateConnected && !s.sink.IsConnected() {
		s.disconnect(ErrConnectionLost)
	}

	// Непустой буфер при Connected означает незавершённый drain:
	// новое сообщение не должно обогнать буферизованные.
	if s.state == StateConnected && s.buffer.Len() == 0 {
		err := s.sink.Publish(ctx, msg.Body, routingKey)
		if err == nil {
			s.attempts = 0
			s.stats.published(s.now())
			return OutcomePublished, nil
		}

		s.stats.publishFailed()
		s.disconnect(err)
		s.logger.Warn("publish failed, buffering message",
			"message_id", msg.ID,
			"error", err,
		)
	}

	return s.enqueue(msg, routingKey)
}

// enqueue кладёт сообщение в конец буфера.
func (s *Supervisor) enqueue(msg Message, routingKey string) (Outcome, error) {
	dropped, err := s.buffer.Push(Pending{
		Message:    msg,
		RoutingKey: routingKey,
		BufferedAt: s.now(),
	})
	if err != nil {
		s.stats.rejected()
		return OutcomeRejected, err
	}

	if dropped != nil {
		s.stats.dropped()
		s.logger.Warn("pending buffer overflow, dropped oldest message",
			"message_id", dropped.Message.ID,
			"buffered_at", dropped.BufferedAt,
		)
	}

	s.stats.pending(s.buffer.Len())
	return OutcomeBuffered, nil
}

// Close закрывает Sink. Ошибки логируются и не возвращаются.
// Повторный вызов безопасен.
func (s *Supervisor) Close() {
	if err := s.sink.Close(); err != nil {
		s.logger.Error("failed to close broker connection", "error", err)
	}

	if s.state != StateDisconnected {
		s.setState(StateDisconnected)
	}

	if n := s.buffer.Len(); n > 0 {
		s.logger.Warn("discarding pending buffer on shutdown, messages stay in the source queue",
			"count", n,
		)
	}
}

// disconnect переводит Supervisor в Disconnected.
// Следующая попытка переподключения — без задержки.
func (s *Supervisor) disconnect(reason error) {
	if s.state == StateDisconnected {
		return
	}

	s.logger.Warn("broker disconnected", "reason", reason)
	s.nextAttempt = time.Time{}
	s.setState(StateDisconnected)
}

func (s *Supervisor) setState(state State) {
	s.state = state
	s.stats.stateChanged(state, s.now())
}
