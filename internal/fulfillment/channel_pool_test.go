package fulfillment_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/fulfillment"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poolChannel struct {
	conn   *fakeConn
	closed atomic.Bool
}

func (c *poolChannel) PublishWithContext(context.Context, string, string, bool, bool, amqp.Publishing) error {
	return nil
}

func (c *poolChannel) IsClosed() bool { return c.closed.Load() || c.conn.IsClosed() }

func (c *poolChannel) Close() error {
	c.closed.Store(true)
	return nil
}

type fakeConn struct {
	mu      sync.Mutex
	opened  int
	closed  bool
	openErr error
	notify  chan *amqp.Error
}

func (c *fakeConn) OpenChannel(string) (fulfillment.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.openErr != nil {
		return nil, c.openErr
	}

	c.opened++

	return &poolChannel{conn: c}, nil
}

func (c *fakeConn) NotifyClose(receiver chan *amqp.Error) chan *amqp.Error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notify = receiver

	return receiver
}

func (c *fakeConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	return nil
}

// drop simulates the broker closing the connection.
func (c *fakeConn) drop() {
	c.mu.Lock()
	c.closed = true
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify <- &amqp.Error{Code: amqp.ConnectionForced, Reason: "CONNECTION_FORCED"}
		close(notify)
	}
}

func (c *fakeConn) setOpenErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.openErr = err
}

func (c *fakeConn) openedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.opened
}

type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (d *fakeDialer) dial() (fulfillment.Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	conn := &fakeConn{}
	d.conns = append(d.conns, conn)

	return conn, nil
}

func (d *fakeDialer) dialed() []*fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]*fakeConn(nil), d.conns...)
}

func setupPool(t *testing.T, size int) (*fulfillment.ChannelPool, *fakeDialer) {
	t.Helper()

	dialer := &fakeDialer{}

	pool, err := fulfillment.NewChannelPoolWithDialer(dialer.dial, "orders.paid", size)
	require.NoError(t, err)

	t.Cleanup(pool.Close)

	return pool, dialer
}

func TestChannelPool_GetChannel(t *testing.T) {
	t.Run("Success - Waits For A Returned Channel", func(t *testing.T) {
		// Arrange
		pool, _ := setupPool(t, 2)
		ctx := t.Context()

		first, err := pool.GetChannel(ctx)
		require.NoError(t, err)
		_, err = pool.GetChannel(ctx)
		require.NoError(t, err)

		got := make(chan fulfillment.Channel, 1)

		// Act
		go func() {
			ch, getErr := pool.GetChannel(ctx)
			assert.NoError(t, getErr)
			got <- ch
		}()

		// Assert
		select {
		case <-got:
			t.Fatal("got a channel while the pool was exhausted")
		case <-time.After(50 * time.Millisecond):
		}

		pool.ReturnChannel(first)

		select {
		case ch := <-got:
			assert.Same(t, first, ch)
		case <-time.After(time.Second):
			t.Fatal("waiting caller never got the returned channel")
		}
	})

	t.Run("Success - More Publishers Than Channels All Publish", func(t *testing.T) {
		// Arrange
		pool, dialer := setupPool(t, 2)
		publisher := fulfillment.NewPublisher(pool, "orders.paid")

		var (
			wg       sync.WaitGroup
			failures atomic.Int32
		)

		// Act
		for range 10 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				if err := publisher.PublishOrderPaid(t.Context(), paidOrder()); err != nil {
					failures.Add(1)
				}
			}()
		}

		wg.Wait()

		// Assert
		assert.Zero(t, failures.Load())
		require.Len(t, dialer.dialed(), 1)
		assert.Equal(t, 2, dialer.dialed()[0].openedCount())
	})

	t.Run("Failure - Context Ends While Waiting", func(t *testing.T) {
		pool, _ := setupPool(t, 1)
		_, err := pool.GetChannel(t.Context())
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		_, err = pool.GetChannel(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Failure - Closed Pool", func(t *testing.T) {
		pool, _ := setupPool(t, 1)
		pool.Close()

		_, err := pool.GetChannel(t.Context())

		assert.ErrorIs(t, err, fulfillment.ErrPoolClosed)
	})
}

func TestChannelPool_Refill(t *testing.T) {
	t.Run("Success - Channel Closed In Use Is Replaced", func(t *testing.T) {
		// Arrange
		pool, dialer := setupPool(t, 1)
		ch, err := pool.GetChannel(t.Context())
		require.NoError(t, err)

		// Act
		require.NoError(t, ch.Close())
		pool.ReturnChannel(ch)
		fresh, err := pool.GetChannel(t.Context())

		// Assert
		require.NoError(t, err)
		assert.NotSame(t, ch, fresh)
		assert.False(t, fresh.IsClosed())
		assert.Equal(t, 2, dialer.dialed()[0].openedCount())
	})

	t.Run("Success - Re-dials After The Connection Drops", func(t *testing.T) {
		// Arrange
		pool, dialer := setupPool(t, 2)
		ch, err := pool.GetChannel(t.Context())
		require.NoError(t, err)

		// Act
		dialer.dialed()[0].drop()
		pool.ReturnChannel(ch)

		first, err := pool.GetChannel(t.Context())
		require.NoError(t, err)
		second, err := pool.GetChannel(t.Context())
		require.NoError(t, err)

		// Assert
		conns := dialer.dialed()
		require.Len(t, conns, 2)
		assert.False(t, first.IsClosed())
		assert.False(t, second.IsClosed())
		assert.Equal(t, 2, conns[1].openedCount())
	})

	t.Run("Success - Failed Reopen Keeps The Slot", func(t *testing.T) {
		// Arrange
		pool, dialer := setupPool(t, 1)
		conn := dialer.dialed()[0]
		ch, err := pool.GetChannel(t.Context())
		require.NoError(t, err)
		require.NoError(t, ch.Close())
		pool.ReturnChannel(ch)

		// Act
		conn.setOpenErr(errors.New("channel max reached"))
		_, failErr := pool.GetChannel(t.Context())
		conn.setOpenErr(nil)

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()
		fresh, err := pool.GetChannel(ctx)

		// Assert
		require.Error(t, failErr)
		require.NoError(t, err)
		assert.False(t, fresh.IsClosed())
	})

	t.Run("Success - Channels Returned After Close Are Closed", func(t *testing.T) {
		pool, _ := setupPool(t, 1)
		ch, err := pool.GetChannel(t.Context())
		require.NoError(t, err)

		pool.Close()
		pool.ReturnChannel(ch)

		assert.True(t, ch.IsClosed())
	})
}
