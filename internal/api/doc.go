// Package api содержит HTTP сервер статуса relay.
//
// Структура:
//   - handler.go    — Handler с DI (источник статистики, logger)
//   - routes.go     — chi router и регистрация маршрутов
//   - middleware.go — middleware (logging, recovery)
//   - response.go   — унифицированные JSON-ответы
//   - dto.go        — Data Transfer Objects
//   - server.go     — http.Server с graceful shutdown
//
// Маршруты:
//   - GET /         — баннер
//   - GET /status   — снимок счётчиков relay
//   - GET /healthz  — процесс жив
//   - GET /readyz   — 503, пока нет соединения с брокером
//   - GET /metrics  — Prometheus
//
// API только читает Stats и не влияет на цикл relay.
package api
