package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLocks(t *testing.T) {
	t.Run("Success - Entries Are Reclaimed", func(t *testing.T) {
		locks := newSessionLocks()

		unlockA, err := locks.acquire(t.Context(), "a")
		require.NoError(t, err)
		unlockB, err := locks.acquire(t.Context(), "b")
		require.NoError(t, err)

		assert.Equal(t, 2, locks.size())

		unlockA()
		unlockB()

		assert.Zero(t, locks.size())
	})

	t.Run("Failure - Waiter Gives Up On Cancel", func(t *testing.T) {
		locks := newSessionLocks()

		unlock, err := locks.acquire(t.Context(), "a")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		_, err = locks.acquire(ctx, "a")

		require.ErrorIs(t, err, context.DeadlineExceeded)

		unlock()
		assert.Zero(t, locks.size())
	})

	t.Run("Success - Different Sessions Do Not Block", func(t *testing.T) {
		locks := newSessionLocks()

		unlock, err := locks.acquire(t.Context(), "a")
		require.NoError(t, err)
		defer unlock()

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()

		other, err := locks.acquire(ctx, "b")
		require.NoError(t, err)
		other()
	})
}
