// Package sqs реализует источник сообщений relay поверх AWS SQS.
//
// Source выполняет long-poll через ReceiveMessage и подтверждает
// обработку через DeleteMessage. Сообщение удаляется из очереди
// только по receipt handle конкретной доставки; неподтверждённое
// сообщение вернётся в очередь после visibility timeout.
//
// Клиент AWS создаётся через NewClient (aws-sdk-go-v2), но Source
// зависит только от узкого интерфейса API, что позволяет подменять
// его в тестах.
package sqs
