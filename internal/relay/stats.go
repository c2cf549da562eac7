package relay

import (
	"sync"
	"time"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/telemetry"
)

// SourceSnapshot — состояние стороны источника.
type SourceSnapshot struct {
	Connected      bool      `json:"connected"`
	StartedAt      time.Time `json:"started_at"`
	LastReceivedAt time.Time `json:"last_received_at"`
	Received       int64     `json:"received"`
	Acknowledged   int64     `json:"acknowledged"`
	AckFailures    int64     `json:"ack_failures"`
	ReceiveErrors  int64     `json:"receive_errors"`
}

// SinkSnapshot — состояние стороны брокера.
type SinkSnapshot struct {
	Connected       bool      `json:"connected"`
	State           string    `json:"state"`
	StartedAt       time.Time `json:"started_at"`
	LastSentAt      time.Time `json:"last_sent_at"`
	Published       int64     `json:"published"`
	PublishFailures int64     `json:"publish_failures"`
	Reconnects      int64     `json:"reconnects"`
}

// Snapshot — копия счётчиков relay на момент вызова.
type Snapshot struct {
	StartedAt         time.Time      `json:"started_at"`
	MessagesProcessed int64          `json:"messages_processed"`
	Pending           int            `json:"pending"`
	Dropped           int64          `json:"dropped"`
	Rejected          int64          `json:"rejected"`
	Source            SourceSnapshot `json:"source"`
	Sink              SinkSnapshot   `json:"sink"`
}

// Stats — счётчики и отметки времени relay.
//
// Изменяются только Engine (источник) и Supervisor (брокер),
// читаются HTTP-обработчиком статуса через Snapshot.
// Параллельно с записью обновляются Prometheus метрики.
type Stats struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStats создаёт Stats с временем старта now.
func NewStats(now time.Time) *Stats {
	return &Stats{
		snap: Snapshot{
			StartedAt: now,
			Source:    SourceSnapshot{StartedAt: now},
			Sink:      SinkSnapshot{State: StateDisconnected.String()},
		},
	}
}

// Snapshot возвращает копию текущего состояния.
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// --- Источник ---

func (s *Stats) received(n int, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Source.Connected = true
	s.snap.Source.Received += int64(n)
	if n > 0 {
		s.snap.Source.LastReceivedAt = at
	}
	telemetry.MessagesReceived.Add(float64(n))
}

func (s *Stats) receiveFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Source.Connected = false
	s.snap.Source.ReceiveErrors++
	telemetry.ReceiveErrors.Inc()
}

func (s *Stats) acknowledged() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Source.Acknowledged++
	s.snap.MessagesProcessed++
	telemetry.MessagesAcknowledged.Inc()
	telemetry.MessagesProcessed.Inc()
}

func (s *Stats) ackFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Source.AckFailures++
	telemetry.AckFailures.Inc()
}

// --- Брокер ---

func (s *Stats) stateChanged(state State, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	connected := state == StateConnected
	if connected && !s.snap.Sink.Connected {
		s.snap.Sink.StartedAt = at
	}
	s.snap.Sink.Connected = connected
	s.snap.Sink.State = state.String()

	if connected {
		telemetry.SinkConnected.Set(1)
	} else {
		telemetry.SinkConnected.Set(0)
	}
}

func (s *Stats) published(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Sink.Published++
	s.snap.Sink.LastSentAt = at
	telemetry.MessagesPublished.Inc()
}

func (s *Stats) publishFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Sink.PublishFailures++
	telemetry.PublishFailures.Inc()
}

func (s *Stats) reconnectAttempt(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Sink.Reconnects++
	result := "failure"
	if ok {
		result = "success"
	}
	telemetry.Reconnects.WithLabelValues(result).Inc()
}

// --- Буфер ---

func (s *Stats) pending(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Pending = n
	telemetry.PendingMessages.Set(float64(n))
}

func (s *Stats) dropped() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Dropped++
	telemetry.DroppedMessages.Inc()
}

func (s *Stats) rejected() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Rejected++
	telemetry.RejectedMessages.Inc()
}
