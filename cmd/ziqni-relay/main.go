// ZIQNI relay — переносит сообщения из очереди AWS SQS в exchange RabbitMQ.
//
// Relay:
//   - Получает пачки сообщений из SQS (long-poll)
//   - Публикует каждое сообщение в exchange с publisher confirms
//   - Удаляет сообщение из SQS только после подтверждённой публикации
//   - Буферизует сообщения, пока брокер недоступен, и отправляет их
//     в исходном порядке после переподключения
//
// HTTP: / (баннер), /status, /healthz, /readyz, /metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/api"
	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/config"
	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/mq"
	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/relay"
	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/sqs"
	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting ziqni-relay", "version", version)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// SQS
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS)
	if err != nil {
		logger.Error("failed to create SQS client", "error", err)
		os.Exit(1)
	}
	source := sqs.NewSource(sqsClient, cfg.SQS, telemetry.WithComponent(logger, "sqs"))
	logger.Info("SQS source configured",
		"queue_url", source.QueueURL(),
		"max_messages", cfg.SQS.MaxMessages,
		"wait_time", cfg.SQS.WaitTime,
	)

	// RabbitMQ
	sink := mq.NewSink(cfg.RabbitMQ, telemetry.WithComponent(logger, "mq"))
	logger.Info("RabbitMQ topology", "topology", mq.TopologyInfo(cfg.RabbitMQ))

	stats := relay.NewStats(time.Now())
	supervisor := relay.NewSupervisor(relay.SupervisorConfig{
		Sink:    sink,
		Buffer:  relay.NewBuffer(cfg.Relay.BufferCapacity, cfg.Relay.OverflowPolicy),
		Backoff: cfg.Relay.Backoff,
		Stats:   stats,
		Logger:  telemetry.WithComponent(logger, "supervisor"),
	})
	defer supervisor.Close()

	// Сначала брокер, потом опрос очереди.
	// Постоянная ошибка (credentials, топология) завершает процесс,
	// временная — relay стартует в Disconnected и переподключается сам.
	if err := supervisor.Reconnect(ctx, nil); err != nil {
		logger.Error("RabbitMQ rejected the connection", "error", err)
		supervisor.Close()
		os.Exit(1)
	}
	if !supervisor.IsConnected() {
		logger.Warn("RabbitMQ not available, starting disconnected")
	}

	engine := relay.New(relay.Config{
		Source:       source,
		Supervisor:   supervisor,
		Stats:        stats,
		RoutingKey:   cfg.RabbitMQ.RoutingKey,
		PollInterval: cfg.Relay.PollInterval,
		Logger:       telemetry.WithComponent(logger, "relay"),
	})

	// HTTP: статус, health, metrics
	handler := api.NewHandler(api.Config{
		Status:  stats,
		RelayID: engine.ID(),
		Version: version,
		Logger:  telemetry.WithComponent(logger, "http"),
	})
	server := api.NewServer(api.ServerConfig{
		Address:      cfg.HTTP.Address,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, handler.Routes())

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr())
		if err := server.Start(); err != nil {
			logger.Error("http server error", "error", err)
			serverErr <- err
			cancel()
		}
	}()

	runErr := engine.Run(ctx)
	if runErr == nil {
		select {
		case err := <-serverErr:
			runErr = fmt.Errorf("http server: %w", err)
		default:
		}
	}

	// Graceful shutdown HTTP
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	if code := exitCode(runErr); code != 0 {
		supervisor.Close()
		logger.Error("ziqni-relay stopped with error", "error", runErr)
		os.Exit(code)
	}

	logger.Info("ziqni-relay stopped")
}

// exitCode: 0 — штатная остановка, 2 — исчерпаны попытки переподключения,
// 1 — любая другая ошибка (брокер отклонил подключение, HTTP-сервер, паника).
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, relay.ErrReconnectExhausted):
		return 2
	default:
		return 1
	}
}
