// Package cli реализует инструмент командной строки для relay.
//
// # Обзор
//
// CLI — клиентская утилита для HTTP API статуса relay.
// Работает через HTTP, не импортирует internal/api и internal/relay.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент API статуса. Инкапсулирует запросы, разбор ответов
// (DataResponse, ErrorResponse) и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:3000")
//	status, err := client.Status(ctx)
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr:
// ziqni-cli status --json | jq .sink
//
// ## Commands
//
//   - status — счётчики и состояние соединений
//   - health — liveness и readiness; ненулевой код выхода, если relay не готов
//
// Команды создаются фабричными функциями (NewStatusCmd, NewHealthCmd),
// принимающими clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
