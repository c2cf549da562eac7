package mq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publishCall struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu sync.Mutex

	closed     bool
	confirmed  bool
	confirmErr error

	exchangeErr error
	queueErr    error
	bindErr     error

	exchanges []string
	queues    []string
	bindings  []string

	publishErr error
	nack       bool
	block      bool
	published  []publishCall

	closeCalls int
}

func (c *fakeChannel) Confirm(bool) error {
	c.confirmed = c.confirmErr == nil
	return c.confirmErr
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	if c.exchangeErr != nil {
		return c.exchangeErr
	}
	if !durable {
		return errors.New("exchange must be durable")
	}
	c.exchanges = append(c.exchanges, name+":"+kind)
	return nil
}

func (c *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if c.queueErr != nil {
		return amqp.Queue{}, c.queueErr
	}
	c.queues = append(c.queues, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	if c.bindErr != nil {
		return c.bindErr
	}
	c.bindings = append(c.bindings, exchange+"->"+name+"@"+key)
	return nil
}

func (c *fakeChannel) PublishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) (bool, error) {
	if c.block {
		<-ctx.Done()
		return false, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.publishErr != nil {
		return false, c.publishErr
	}
	c.published = append(c.published, publishCall{exchange: exchange, key: key, msg: msg})
	return !c.nack, nil
}

func (c *fakeChannel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCalls++
	c.closed = true
	return nil
}

type fakeConnection struct {
	mu sync.Mutex

	channel    *fakeChannel
	channelErr error
	closed     bool
	closeErr   error
	closeCalls int
	notify     chan *amqp.Error
}

func (c *fakeConnection) Channel() (Channel, error) {
	if c.channelErr != nil {
		return nil, c.channelErr
	}
	return c.channel, nil
}

func (c *fakeConnection) NotifyClose(receiver chan *amqp.Error) chan *amqp.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = receiver
	return receiver
}

func (c *fakeConnection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeCalls++
	if c.closed {
		return amqp.ErrClosed
	}
	c.closed = true
	if c.notify != nil {
		close(c.notify)
		c.notify = nil
	}
	return c.closeErr
}

// brokerClose имитирует закрытие соединения брокером.
func (c *fakeConnection) brokerClose(err *amqp.Error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.notify != nil {
		c.notify <- err
		close(c.notify)
		c.notify = nil
	}
}

// fakeDialer выдаёт соединения по очереди и запоминает параметры.
type fakeDialer struct {
	conns []*fakeConnection
	errs  []error
	calls int
	url   string
	cfg   amqp.Config
}

func (d *fakeDialer) dial(url string, cfg amqp.Config) (Connection, error) {
	i := d.calls
	d.calls++
	d.url = url
	d.cfg = cfg

	if i < len(d.errs) && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	return d.conns[i], nil
}

func newFakeConnection() *fakeConnection {
	return &fakeConnection{channel: &fakeChannel{}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
