package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrPoolClosed = errors.New("channel pool is closed")

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// Connection opens publishing channels on one broker connection.
type Connection interface {
	OpenChannel(queueName string) (Channel, error)
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	IsClosed() bool
	Close() error
}

// Dialer opens a new broker connection. The pool calls it again whenever the
// current connection is gone.
type Dialer func() (Connection, error)

// Pool hands out channels bound to one durable queue.
type Pool interface {
	GetChannel(ctx context.Context) (Channel, error)
	ReturnChannel(ch Channel)
	Close()
}

// ChannelPool keeps a fixed number of slots. A slot holds an open channel or
// nil, meaning its channel died and is reopened by the next caller that takes
// it, so the pool never shrinks.
type ChannelPool struct {
	dial      Dialer
	queueName string
	slots     chan Channel
	done      chan struct{}

	mu     sync.Mutex
	conn   Connection
	closed bool
}

type amqpConnection struct {
	*amqp.Connection
}

func (c amqpConnection) OpenChannel(queueName string) (Channel, error) {
	ch, err := c.Channel()
	if err != nil {
		return nil, err
	}

	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return ch, nil
}

// AMQPDialer dials url with the amqp091 client.
func AMQPDialer(url string) Dialer {
	return func() (Connection, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, err
		}

		return amqpConnection{conn}, nil
	}
}

func NewChannelPool(url string, queueName string, size int) (*ChannelPool, error) {
	return NewChannelPoolWithDialer(AMQPDialer(url), queueName, size)
}

func NewChannelPoolWithDialer(dial Dialer, queueName string, size int) (*ChannelPool, error) {
	if size <= 0 {
		size = 1
	}

	pool := &ChannelPool{
		dial:      dial,
		queueName: queueName,
		slots:     make(chan Channel, size),
		done:      make(chan struct{}),
	}

	for i := range size {
		ch, err := pool.open()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create channel %d: %w", i, err)
		}

		pool.slots <- ch
	}

	slog.Info("RabbitMQ channel pool ready", slog.Int("size", size), slog.String("queue", queueName))

	return pool, nil
}

// GetChannel waits for a free slot until ctx ends. A dead channel found in the
// slot is replaced, re-dialing the connection if it is gone too.
func (p *ChannelPool) GetChannel(ctx context.Context) (Channel, error) {
	select {
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case ch := <-p.slots:
		if ch != nil && !ch.IsClosed() {
			return ch, nil
		}

		fresh, err := p.open()
		if err != nil {
			// keep the slot; the next caller tries again
			p.slots <- nil
			return nil, err
		}

		return fresh, nil
	}
}

// ReturnChannel gives the slot back. Every channel handed out must be
// returned exactly once, closed or not.
func (p *ChannelPool) ReturnChannel(ch Channel) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		if ch != nil {
			ch.Close()
		}

		return
	}

	if ch != nil && ch.IsClosed() {
		ch = nil
	}

	p.slots <- ch
}

func (p *ChannelPool) open() (Channel, error) {
	conn, err := p.connection()
	if err != nil {
		return nil, err
	}

	return conn.OpenChannel(p.queueName)
}

func (p *ChannelPool) connection() (Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}

	conn, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	p.conn = conn
	go p.watch(conn)

	return conn, nil
}

// watch drops the connection once the broker closes it so the next open
// re-dials.
func (p *ChannelPool) watch(conn Connection) {
	notify := conn.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-p.done:
		return
	case amqpErr, ok := <-notify:
		if ok && amqpErr != nil {
			slog.Warn("RabbitMQ connection closed, will re-dial",
				slog.Int("code", amqpErr.Code),
				slog.String("reason", amqpErr.Reason),
			)
		}
	}

	p.mu.Lock()
	if p.conn == conn {
		p.conn = nil
	}
	p.mu.Unlock()
}

func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true
	close(p.done)

drain:
	for {
		select {
		case ch := <-p.slots:
			if ch != nil {
				ch.Close()
			}
		default:
			break drain
		}
	}

	if p.conn != nil {
		p.conn.Close()
	}

	slog.Info("RabbitMQ channel pool closed")
}
