// Package relay переносит сообщения из pull-очереди (SQS) в exchange брокера (RabbitMQ).
//
// # Обзор
//
// Relay — надёжный упорядоченный мост at-least-once между двумя независимо
// доступными системами. Продюсеры пишут в очередь и ничего не знают о брокере.
//
// # Ключевые компоненты
//
// ## Engine
//
// Единственный цикл управления. Создаётся через New(cfg Config) и
// запускается методом Run(ctx):
//
//	engine := relay.New(relay.Config{
//	    Source:       source,
//	    Supervisor:   supervisor,
//	    RoutingKey:   "events",
//	    PollInterval: time.Second,
//	    Logger:       logger,
//	})
//
//	if err := engine.Run(ctx); err != nil {
//	    logger.Error("relay failed", "error", err)
//	}
//	supervisor.Close()
//
// ## Supervisor
//
// Владеет соединением с брокером (Sink) и буфером сообщений (Buffer):
//
//	Disconnected → Connecting → Connected
//	     ↑              │            │
//	     └── ошибка ────┘            │
//	     └── ошибка publish / разрыв ┘
//
// При переходе в Connected буфер публикуется строго в порядке FIFO.
// Переподключение выполняется с экспоненциальной задержкой (Backoff).
//
// ## Buffer
//
// FIFO очередь в памяти с ограниченной ёмкостью и политикой переполнения:
//   - reject — новое сообщение остаётся в источнике
//   - drop-oldest — самое старое сообщение вытесняется (вернётся из источника)
//   - backpressure — Engine не получает новые пачки, пока буфер полон
//
// Буфер не переживает рестарт процесса: неподтверждённые сообщения
// остаются в источнике и будут доставлены повторно.
//
// ## Stats
//
// Счётчики и отметки времени. Единственная структура, которую читают
// из другой горутины (HTTP статус), поэтому защищена мьютексом.
//
// # Гарантии
//
//   - Сообщение удаляется из источника только после подтверждённой публикации
//   - Сообщение в буфере не удалено из источника
//   - Буфер публикуется только при переходе в Connected, в порядке буферизации
//   - MessagesProcessed растёт ровно на 1 на опубликованное и подтверждённое сообщение
//
// Доставка at-least-once: при ошибке удаления сообщение может прийти повторно.
package relay
