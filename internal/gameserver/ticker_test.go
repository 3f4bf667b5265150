package gameserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicker_StopsWhenStepReturnsFalse(t *testing.T) {
	calls := 0
	tk := NewTicker(time.Millisecond, func(dt time.Duration) bool {
		assert.Positive(t, dt)
		calls++
		return calls < 3
	})
	require.NoError(t, tk.Run(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestTicker_ReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	tk := NewTicker(time.Millisecond, func(time.Duration) bool { return true })
	assert.ErrorIs(t, tk.Run(ctx), context.DeadlineExceeded)
}

func TestNewTicker_Preconditions(t *testing.T) {
	assert.Panics(t, func() { NewTicker(0, func(time.Duration) bool { return true }) })
	assert.Panics(t, func() { NewTicker(time.Second, nil) })
}
