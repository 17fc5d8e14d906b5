// Package paging reveals an already fetched slice a page at a time.
package paging

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
)

// Pager exposes a growing prefix of items. Each LoadMore waits a fixed delay
// before revealing the next page.
type Pager[T any] struct {
	mu       sync.Mutex
	items    []T
	pageSize int
	delay    time.Duration
	clock    clock.Clock
	visible  int
}

func NewPager[T any](items []T, pageSize int, delay time.Duration, clk clock.Clock) *Pager[T] {
	if pageSize <= 0 {
		pageSize = len(items)
	}
	p := &Pager[T]{items: items, pageSize: pageSize, delay: delay, clock: clk}
	p.visible = min(pageSize, len(items))
	return p
}

// Visible returns the revealed prefix.
func (p *Pager[T]) Visible() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items[:p.visible:p.visible]
}

func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible < len(p.items)
}

// LoadMore waits for the delay and reveals one more page. It returns
// ctx.Err() if ctx ends first; nothing is revealed in that case.
func (p *Pager[T]) LoadMore(ctx context.Context) error {
	if !p.HasMore() {
		return nil
	}
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(p.delay):
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = min(p.visible+p.pageSize, len(p.items))
	return nil
}

// Window returns the first page*size items, the state a Pager reaches after
// page-1 calls to LoadMore. Pages start at 1; a non-positive size returns
// everything.
func Window[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	// compared by division so a huge page cannot overflow page*size
	if len(items) == 0 || page > (len(items)-1)/size {
		return items
	}
	return items[:page*size]
}
