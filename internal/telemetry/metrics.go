package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ziqni_relay"

// Счётчики источника (SQS).
var (
	MessagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_received_total",
		Help:      "Messages received from the source queue",
	})

	MessagesAcknowledged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_acknowledged_total",
		Help:      "Messages deleted from the source queue after publish",
	})

	AckFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ack_failures_total",
		Help:      "Failed deletes at the source queue",
	})

	ReceiveErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receive_errors_total",
		Help:      "Failed receive calls against the source queue",
	})
)

// Счётчики брокера (RabbitMQ).
var (
	MessagesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_published_total",
		Help:      "Messages published to the exchange",
	})

	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publish_failures_total",
		Help:      "Failed publishes to the exchange",
	})

	Reconnects = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconnect_attempts_total",
		Help:      "Broker reconnect attempts by result",
	}, []string{"result"})

	SinkConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sink_connected",
		Help:      "1 if the broker connection is established",
	})
)

// Метрики relay.
var (
	MessagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_processed_total",
		Help:      "Messages published and acknowledged end to end",
	})

	PendingMessages = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_messages",
		Help:      "Messages waiting in the pending buffer",
	})

	DroppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_messages_total",
		Help:      "Messages evicted from the pending buffer (drop-oldest)",
	})

	RejectedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_messages_total",
		Help:      "Messages left at the source because the pending buffer was full",
	})
)
