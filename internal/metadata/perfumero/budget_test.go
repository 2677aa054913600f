package perfumero

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetAcquireUntilExhausted(t *testing.T) {
	b := NewUsageBudget(3)

	for i := 0; i < 3; i++ {
		assert.True(t, b.TryAcquire(), "acquire %d should succeed", i)
	}
	assert.False(t, b.TryAcquire())
	assert.Equal(t, 0, b.Remaining())

	// Failed acquisition never increments.
	stats := b.Stats()
	assert.Equal(t, 3, stats.Used)
}

func TestBudgetDailyReset(t *testing.T) {
	b := NewUsageBudget(2)

	current := time.Date(2026, 3, 10, 23, 50, 0, 0, time.UTC)
	b.now = func() time.Time { return current }

	require.True(t, b.TryAcquire())
	require.True(t, b.TryAcquire())
	assert.False(t, b.TryAcquire())

	// Crossing UTC midnight resets the counter lazily.
	current = time.Date(2026, 3, 11, 0, 5, 0, 0, time.UTC)
	assert.True(t, b.TryAcquire())

	stats := b.Stats()
	assert.Equal(t, 1, stats.Used)
	assert.Equal(t, 1, stats.Remaining)
	assert.Equal(t, "2026-03-11", stats.ResetDate)
}

func TestBudgetStatsSnapshot(t *testing.T) {
	b := NewUsageBudget(333)

	for i := 0; i < 100; i++ {
		require.True(t, b.TryAcquire())
	}

	stats := b.Stats()
	assert.Equal(t, 100, stats.Used)
	assert.Equal(t, 333, stats.Limit)
	assert.Equal(t, 233, stats.Remaining)
	assert.Equal(t, stats.Limit, stats.Used+stats.Remaining)
}

func TestBudgetConcurrentAcquire(t *testing.T) {
	b := NewUsageBudget(50)

	done := make(chan int, 10)
	for g := 0; g < 10; g++ {
		go func() {
			acquired := 0
			for i := 0; i < 10; i++ {
				if b.TryAcquire() {
					acquired++
				}
			}
			done <- acquired
		}()
	}

	total := 0
	for g := 0; g < 10; g++ {
		total += <-done
	}

	// Exactly the limit is handed out, never more.
	assert.Equal(t, 50, total)
	assert.Equal(t, 0, b.Remaining())
}
