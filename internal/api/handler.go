package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/relay"
)

// StatusProvider отдаёт снимок состояния relay.
type StatusProvider interface {
	Snapshot() relay.Snapshot
}

// Handler — обработчик HTTP API с зависимостями.
type Handler struct {
	status  StatusProvider
	relayID string
	version string
	logger  *slog.Logger
	now     func() time.Time
}

// Config — конфигурация для создания Handler.
type Config struct {
	Status  StatusProvider
	RelayID string
	Version string
	Logger  *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		status:  cfg.Status,
		relayID: cfg.RelayID,
		version: cfg.Version,
		logger:  logger,
		now:     time.Now,
	}
}

// Banner отвечает приветственной строкой.
func (h *Handler) Banner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "ZIQNI SQS to RabbitMQ relay %s\n", h.version)
}

// Status возвращает снимок счётчиков relay.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	snap := h.status.Snapshot()
	Success(w, StatusFromSnapshot(h.relayID, snap, h.now()))
}

// Healthz сообщает, что процесс обслуживает запросы.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Readyz возвращает 503, пока relay не подключён к брокеру.
func (h *Handler) Readyz(w http.ResponseWriter, _ *http.Request) {
	snap := h.status.Snapshot()

	if !snap.Sink.Connected {
		ServiceUnavailable(w, fmt.Sprintf("broker %s, %d messages pending", snap.Sink.State, snap.Pending))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
