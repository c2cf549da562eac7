package main

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/relay"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"clean stop", nil, 0},
		{"reconnect exhausted", fmt.Errorf("%w after 3 attempts: %w", relay.ErrReconnectExhausted, errors.New("dial")), 2},
		{"broker rejected", fmt.Errorf("%w: access refused", relay.ErrSinkRejected), 1},
		{"http server failed", fmt.Errorf("http server: %w", syscall.EADDRINUSE), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
