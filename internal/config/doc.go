// Package config загружает конфигурацию relay из переменных окружения.
//
// Каждая переменная имеет значение по умолчанию, кроме SQS_QUEUE_URL
// и RABBITMQ_EXCHANGE. Некорректные числа и длительности заменяются
// значением по умолчанию; итоговая конфигурация проверяется Validate.
package config
