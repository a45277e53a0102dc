package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/spektr-org/ridepulse/engine"
)

// ErrSuperseded is returned by Apply when a newer Apply on the same section
// started before this one finished. The result was cached but not installed.
var ErrSuperseded = errors.New("superseded by a newer range")

// Result is a section's computed state for one range.
type Result struct {
	Range    engine.Range
	View     engine.View
	Snapshot *engine.Snapshot
	Cached   bool
}

// Section owns one independently filtered view of the shared dataset.
type Section struct {
	name    string
	dataset engine.View
	opts    []engine.Option
	logger  *slog.Logger

	group singleflight.Group

	mu      sync.Mutex
	rng     engine.Range
	current *entry
	gen     uint64
	cache   *fifoCache
	hits    int
	misses  int
}

func newSection(name string, dataset engine.View, cacheSize int, logger *slog.Logger, opts []engine.Option) *Section {
	return &Section{
		name:    name,
		dataset: dataset,
		opts:    opts,
		logger:  logger.With("section", name),
		cache:   newFIFOCache(cacheSize),
	}
}

// Name returns the section name.
func (s *Section) Name() string { return s.name }

// Range returns the last range requested on this section.
func (s *Section) Range() engine.Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng
}

// Current returns the installed result, or nil before the first Apply.
func (s *Section) Current() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return &Result{Range: s.rng, View: s.current.view, Snapshot: s.current.snapshot}
}

// CacheStats reports cache hits, misses and size.
func (s *Section) CacheStats() (hits, misses, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits, s.misses, s.cache.len()
}

// Apply filters the dataset to r and recomputes the section's panels.
// Identical ranges in flight share one computation; computed ranges are
// served from the cache. When a later Apply starts before this one finishes,
// this one returns ErrSuperseded and the later result wins.
func (s *Section) Apply(ctx context.Context, r engine.Range) (*Result, error) {
	key := r.String()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.rng = r
	if e, ok := s.cache.get(key); ok {
		s.hits++
		s.current = e
		s.mu.Unlock()
		s.logger.Debug("cache hit", "range", key)
		return &Result{Range: r, View: e.view, Snapshot: e.snapshot, Cached: true}, nil
	}
	s.misses++
	s.mu.Unlock()

	v, err, shared := s.group.Do(key, func() (any, error) {
		view := engine.FilterRange(s.dataset, r)
		snap, err := engine.BuildSnapshot(ctx, view, s.opts...)
		if err != nil {
			return nil, err
		}
		return &entry{view: view, snapshot: snap}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("section %s: %w", s.name, err)
	}
	e := v.(*entry)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.put(key, e)
	if gen != s.gen {
		s.logger.Debug("discarding superseded result", "range", key)
		return nil, ErrSuperseded
	}
	s.current = e
	s.logger.Debug("section updated",
		"range", key,
		"bookings", e.view.Len(),
		"shared", shared)
	return &Result{Range: r, View: e.view, Snapshot: e.snapshot}, nil
}
