package tone_test

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/compose-mcp/internal/tone"
)

func TestBudgetAcquire(t *testing.T) {
	b := tone.NewBudget(tone.MaxCalls)

	for i := 0; i < tone.MaxCalls; i++ {
		require.True(t, b.Acquire(), "attempt %d", i+1)
	}
	assert.False(t, b.Acquire())
	assert.False(t, b.Acquire())
	assert.Equal(t, tone.MaxCalls, b.Used())
	assert.Equal(t, 0, b.Remaining())

	b.Reset()
	assert.Equal(t, 0, b.Used())
	assert.Equal(t, tone.MaxCalls, b.Remaining())
	assert.True(t, b.Acquire())
}

func TestBudgetTrack(t *testing.T) {
	draft := strings.Repeat("Dear Jane, about the quarterly numbers. ", 3)
	b := tone.NewBudget(tone.MaxCalls)

	require.True(t, b.Track(draft), "first text always starts a draft")
	b.Acquire()
	b.Acquire()

	assert.False(t, b.Track(draft+" PS: see attached."), "edits past the prefix keep the budget")
	assert.Equal(t, 2, b.Used())

	assert.True(t, b.Track("Hi Bob, "+draft), "a new opening resets the budget")
	assert.Equal(t, 0, b.Used())
}

func TestBudgetConcurrentAcquire(t *testing.T) {
	b := tone.NewBudget(tone.MaxCalls)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Acquire() {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(tone.MaxCalls), granted.Load())
}

func TestBudgetsPerSession(t *testing.T) {
	budgets, err := tone.NewBudgets(2, tone.MaxCalls)
	require.NoError(t, err)

	a := budgets.For("session-a")
	require.Same(t, a, budgets.For("session-a"))

	for a.Acquire() {
	}
	b := budgets.For("session-b")
	assert.Equal(t, tone.MaxCalls, b.Remaining(), "one session cannot spend another's budget")

	budgets.For("session-c")
	assert.Equal(t, 2, budgets.Len())
	assert.Equal(t, tone.MaxCalls, budgets.For("session-a").Remaining(), "evicted session starts over")

	budgets.Forget("session-c")
	assert.Equal(t, 1, budgets.Len())
}
