package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

var (
	errBrokerDown = errors.New("broker down")
	errNacked     = errors.New("publish nacked by broker")
)

// permanentErr — ошибка с Permanent() == true, как у адаптера брокера.
type permanentErr struct{ msg string }

func (e *permanentErr) Error() string   { return e.msg }
func (e *permanentErr) Permanent() bool { return true }

// fakeSource — источник с заранее заданными пачками.
type fakeSource struct {
	mu         sync.Mutex
	batches    [][]Message
	receiveErr error
	ackErr     map[string]error
	receives   int
	acked      []string
}

func (s *fakeSource) Receive(context.Context) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.receives++
	if s.receiveErr != nil {
		return nil, s.receiveErr
	}
	if len(s.batches) == 0 {
		return nil, nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *fakeSource) Acknowledge(_ context.Context, receiptHandle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ackErr[receiptHandle]; err != nil {
		return err
	}
	s.acked = append(s.acked, receiptHandle)
	return nil
}

func (s *fakeSource) ackedHandles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.acked...)
}

// fakeSink — брокер с управляемыми ошибками.
type fakeSink struct {
	mu           sync.Mutex
	connected    bool
	connectErrs  []error
	connectCalls int
	publishCalls int
	failOn       map[int]error // номер вызова Publish (с 1) → ошибка
	publishErr   error         // ошибка каждой публикации, соединение остаётся открытым
	published    []string
	routingKeys  []string
	closeCalls   int
	closeErr     error

	// onPublish вызывается до публикации (для проверки порядка с ack).
	onPublish func(body string)
}

func (s *fakeSink) Connect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connectCalls++
	if len(s.connectErrs) > 0 {
		err := s.connectErrs[0]
		s.connectErrs = s.connectErrs[1:]
		if err != nil {
			return err
		}
	}
	s.connected = true
	return nil
}

func (s *fakeSink) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *fakeSink) Publish(_ context.Context, body []byte, routingKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publishCalls++
	if !s.connected {
		return errors.New("not connected")
	}
	if s.publishErr != nil {
		return s.publishErr
	}
	if err := s.failOn[s.publishCalls]; err != nil {
		s.connected = false
		return err
	}
	if s.onPublish != nil {
		s.onPublish(string(body))
	}
	s.published = append(s.published, string(body))
	s.routingKeys = append(s.routingKeys, routingKey)
	return nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeCalls++
	s.connected = false
	return s.closeErr
}

func (s *fakeSink) drop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}

func (s *fakeSink) publishedBodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.published...)
}

// fakeClock — управляемое время.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// messages создаёт n сообщений m1..mN с receipt handle r1..rN.
func messages(n int) []Message {
	out := make([]Message, n)
	for i := range out {
		out[i] = Message{
			ID:            fmt.Sprintf("id-%d", i+1),
			Body:          []byte(fmt.Sprintf("m%d", i+1)),
			ReceiptHandle: fmt.Sprintf("r%d", i+1),
			ReceivedAt:    time.Now(),
		}
	}
	return out
}
