package api

import (
	"time"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/relay"
)

// StatusResponse — ответ GET /status.
type StatusResponse struct {
	RelayID           string         `json:"relay_id"`
	StartedAt         time.Time      `json:"started_at"`
	UptimeSeconds     int64          `json:"uptime_seconds"`
	MessagesProcessed int64          `json:"messages_processed"`
	Pending           int            `json:"pending"`
	Dropped           int64          `json:"dropped"`
	Rejected          int64          `json:"rejected"`
	Source            SourceResponse `json:"source"`
	Sink              SinkResponse   `json:"sink"`
}

// SourceResponse — сторона SQS.
type SourceResponse struct {
	Connected      bool       `json:"connected"`
	StartedAt      time.Time  `json:"started_at"`
	LastReceivedAt *time.Time `json:"last_received_at,omitempty"`
	Received       int64      `json:"received"`
	Acknowledged   int64      `json:"acknowledged"`
	AckFailures    int64      `json:"ack_failures"`
	ReceiveErrors  int64      `json:"receive_errors"`
}

// SinkResponse — сторона RabbitMQ.
type SinkResponse struct {
	Connected       bool       `json:"connected"`
	State           string     `json:"state"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	LastSentAt      *time.Time `json:"last_sent_at,omitempty"`
	Published       int64      `json:"published"`
	PublishFailures int64      `json:"publish_failures"`
	Reconnects      int64      `json:"reconnects"`
}

// StatusFromSnapshot конвертирует relay.Snapshot в StatusResponse.
func StatusFromSnapshot(relayID string, s relay.Snapshot, now time.Time) StatusResponse {
	return StatusResponse{
		RelayID:           relayID,
		StartedAt:         s.StartedAt,
		UptimeSeconds:     int64(now.Sub(s.StartedAt).Seconds()),
		MessagesProcessed: s.MessagesProcessed,
		Pending:           s.Pending,
		Dropped:           s.Dropped,
		Rejected:          s.Rejected,
		Source: SourceResponse{
			Connected:      s.Source.Connected,
			StartedAt:      s.Source.StartedAt,
			LastReceivedAt: optionalTime(s.Source.LastReceivedAt),
			Received:       s.Source.Received,
			Acknowledged:   s.Source.Acknowledged,
			AckFailures:    s.Source.AckFailures,
			ReceiveErrors:  s.Source.ReceiveErrors,
		},
		Sink: SinkResponse{
			Connected:       s.Sink.Connected,
			State:           s.Sink.State,
			StartedAt:       optionalTime(s.Sink.StartedAt),
			LastSentAt:      optionalTime(s.Sink.LastSentAt),
			Published:       s.Sink.Published,
			PublishFailures: s.Sink.PublishFailures,
			Reconnects:      s.Sink.Reconnects,
		},
	}
}

// optionalTime возвращает nil для нулевого времени.
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
