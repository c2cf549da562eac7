// Package mq публикует сообщения relay в exchange RabbitMQ.
//
// Структура:
//   - config.go     — параметры подключения и публикации
//   - connection.go — соединение, канал, publisher confirms, наблюдение за закрытием
//   - topology.go   — объявление exchange и (опционально) очереди с привязкой
//   - publisher.go  — публикация с ожиданием подтверждения брокера
//   - errors.go     — классификация ошибок AMQP
//
// Sink не переподключается сам: при разрыве IsConnected возвращает false,
// и решение о повторном Connect принимает relay.Supervisor.
//
// Топология по умолчанию:
//
//	<RABBITMQ_EXCHANGE> (direct, durable)
//	└── <RABBITMQ_BIND_QUEUE> [routing: events]   — только если очередь задана
package mq
