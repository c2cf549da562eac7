// Package telemetry обеспечивает наблюдаемость relay.
//
// Включает:
//   - logging.go — structured logging через slog (JSON или цветной text через tint)
//   - metrics.go — Prometheus метрики relay
//
// Процесс relay экспортирует метрики на /metrics endpoint,
// логи пишутся в stdout в едином формате.
package telemetry
