package sqs

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Ошибки источника.
var (
	// ErrMissingQueueURL — не задан URL очереди.
	ErrMissingQueueURL = errors.New("sqs: queue url is required")

	// ErrInvalidConfig — недопустимые параметры получения.
	ErrInvalidConfig = errors.New("sqs: invalid config")

	// ErrEmptyReceiptHandle — попытка подтвердить сообщение без receipt handle.
	ErrEmptyReceiptHandle = errors.New("sqs: empty receipt handle")
)

// OperationError — ошибка вызова SQS с кодом AWS.
type OperationError struct {
	// Op — имя операции (ReceiveMessage, DeleteMessage).
	Op string

	// Code — код ошибки AWS (пустой, если ошибка не от API).
	Code string

	Err error
}

func (e *OperationError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("sqs %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("sqs %s (%s): %v", e.Op, e.Code, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// ErrorCode извлекает код ошибки AWS API.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func wrapError(op string, err error) error {
	return &OperationError{Op: op, Code: ErrorCode(err), Err: err}
}
