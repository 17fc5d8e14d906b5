// Package viewstate keeps short-lived per-user UI state (catalog filters,
// scroll offsets, "returning from detail page" flags) keyed by owner, kind and
// country. Each kind has a freshness window; stale entries are discarded on
// read and by a periodic sweep.
package viewstate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/ottocollect/ottocollect/internal/logging"
)

type Kind string

const (
	KindFilters    Kind = "filters"
	KindScroll     Kind = "scroll"
	KindReturnFlag Kind = "return_flag"
)

var (
	ErrUnknownKind  = errors.New("unknown view state kind")
	ErrInvalidValue = errors.New("view state value must be valid JSON")
)

// Windows holds the freshness window of each kind.
type Windows struct {
	Filters    time.Duration
	Scroll     time.Duration
	ReturnFlag time.Duration
}

func DefaultWindows() Windows {
	return Windows{Filters: 30 * time.Minute, Scroll: 5 * time.Minute, ReturnFlag: 5 * time.Minute}
}

func (w Windows) of(k Kind) (time.Duration, bool) {
	switch k {
	case KindFilters:
		return w.Filters, true
	case KindScroll:
		return w.Scroll, true
	case KindReturnFlag:
		return w.ReturnFlag, true
	}
	return 0, false
}

type Key struct {
	Owner   string
	Kind    Kind
	Country string
}

type entry struct {
	value   []byte
	savedAt time.Time
}

type Store struct {
	mu      sync.Mutex
	entries map[Key]entry
	windows Windows
	clock   clock.Clock
	log     logging.Logger
}

func NewStore(clk clock.Clock, windows Windows, log logging.Logger) *Store {
	return &Store{
		entries: make(map[Key]entry),
		windows: windows,
		clock:   clk,
		log:     log.With("module", "viewstate"),
	}
}

// Save stores a copy of value under key, stamped with the current time.
func (s *Store) Save(key Key, value json.RawMessage) error {
	if _, ok := s.windows.of(key.Kind); !ok {
		return ErrUnknownKind
	}
	if !json.Valid(value) {
		return ErrInvalidValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: bytes.Clone(value), savedAt: s.clock.Now()}
	return nil
}

// Load returns the value saved under key while it is fresh. A stale entry is
// removed and reported as missing.
func (s *Store) Load(key Key) (json.RawMessage, bool, error) {
	window, ok := s.windows.of(key.Kind)
	if !ok {
		return nil, false, ErrUnknownKind
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if s.clock.Now().Sub(e.savedAt) > window {
		delete(s.entries, key)
		return nil, false, nil
	}
	return bytes.Clone(e.value), true, nil
}

func (s *Store) Clear(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// ClearOwner drops everything saved by one owner, e.g. on logout.
func (s *Store) ClearOwner(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if k.Owner == owner {
			delete(s.entries, k)
		}
	}
}

// Sweep removes every stale entry and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	n := 0
	for k, e := range s.entries {
		window, _ := s.windows.of(k.Kind)
		if now.Sub(e.savedAt) > window {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(interval):
			if n := s.Sweep(); n > 0 {
				s.log.Debug(ctx, "swept stale view state", "entries", n)
			}
		}
	}
}
