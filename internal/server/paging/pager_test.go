package paging

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPager_RevealsPages(t *testing.T) {
	p := NewPager(seq(25), 10, 0, clock.WallClock)

	assert.Equal(t, seq(10), p.Visible())
	assert.True(t, p.HasMore())

	require.NoError(t, p.LoadMore(context.Background()))
	assert.Len(t, p.Visible(), 20)

	require.NoError(t, p.LoadMore(context.Background()))
	assert.Equal(t, seq(25), p.Visible())
	assert.False(t, p.HasMore())

	require.NoError(t, p.LoadMore(context.Background()))
	assert.Len(t, p.Visible(), 25)
}

func TestPager_WaitsForDelay(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	p := NewPager(seq(5), 2, 300*time.Millisecond, clk)

	done := make(chan error, 1)
	go func() { done <- p.LoadMore(context.Background()) }()

	require.NoError(t, clk.WaitAdvance(300*time.Millisecond, time.Second, 1))
	require.NoError(t, <-done)
	assert.Equal(t, []int{0, 1, 2, 3}, p.Visible())
}

func TestPager_CancelledWhileWaiting(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	p := NewPager(seq(5), 2, time.Second, clk)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.LoadMore(ctx), context.Canceled)
	assert.Len(t, p.Visible(), 2)
}

func TestPager_ZeroPageSizeShowsAll(t *testing.T) {
	p := NewPager(seq(4), 0, 0, clock.WallClock)
	assert.Len(t, p.Visible(), 4)
	assert.False(t, p.HasMore())
}

func TestWindow(t *testing.T) {
	items := seq(25)

	assert.Len(t, Window(items, 1, 10), 10)
	assert.Len(t, Window(items, 2, 10), 20)
	assert.Len(t, Window(items, 3, 10), 25)
	assert.Len(t, Window(items, 0, 10), 10)
	assert.Len(t, Window(items, 5, 0), 25)
	assert.Empty(t, Window([]int{}, 1, 10))
	assert.Len(t, Window(seq(20), 2, 10), 20)
}

func TestWindow_HugePageShowsEverything(t *testing.T) {
	items := seq(25)

	// 1<<62 * 4 wraps to 0 and 1<<61+1 times 8 wraps to 8
	assert.Len(t, Window(items, 1<<62, 4), 25)
	assert.Len(t, Window(items, 1<<61+1, 8), 25)
	assert.Len(t, Window(items, math.MaxInt, 10), 25)
}
