package relay

import "errors"

// Ошибки relay.
var (
	// ErrBufferFull — pending buffer заполнен, сообщение не принято.
	ErrBufferFull = errors.New("pending buffer is full")

	// ErrConnectionLost — брокер закрыл соединение.
	ErrConnectionLost = errors.New("broker connection lost")

	// ErrSinkRejected — брокер отклонил подключение (credentials, топология).
	ErrSinkRejected = errors.New("broker rejected connection")

	// ErrReconnectExhausted — исчерпаны попытки переподключения.
	ErrReconnectExhausted = errors.New("reconnect attempts exhausted")

	// ErrLoopPanic — паника внутри цикла relay.
	ErrLoopPanic = errors.New("relay loop panic")

	// ErrInvalidOverflowPolicy — неизвестная политика переполнения буфера.
	ErrInvalidOverflowPolicy = errors.New("invalid overflow policy")
)

// isPermanent сообщает, что ошибка не исчезнет при повторной попытке.
// Адаптеры помечают такие ошибки методом Permanent() bool.
func isPermanent(err error) bool {
	var p interface{ Permanent() bool }
	return errors.As(err, &p) && p.Permanent()
}
