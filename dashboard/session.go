package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lucsky/cuid"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/ridepulse/engine"
)

// ============================================================================
// SESSION — One loaded dataset, its date index, and its sections
// ============================================================================
// The dataset and date index are immutable and shared by every section.
// Each section owns its range, view and cache, so sections never contend.
// ============================================================================

// DefaultCacheSize bounds each section's memoized ranges.
const DefaultCacheSize = 16

// Option configures a Session.
type Option func(*options)

type options struct {
	cacheSize int
	logger    *slog.Logger
	engine    []engine.Option
}

// WithCacheSize bounds each section's cache.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithLogger sets the session logger. Sections log through it.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEngineOptions passes options to every snapshot computation.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *options) {
		o.engine = append(o.engine, opts...)
	}
}

// Session is a dashboard over one immutable dataset.
type Session struct {
	ID       string
	dataset  *engine.Dataset
	dates    []string
	sections []*Section
	byName   map[string]*Section
	logger   *slog.Logger
}

// NewSession indexes dataset once and creates the named sections.
func NewSession(dataset *engine.Dataset, sectionNames []string, opts ...Option) (*Session, error) {
	if dataset == nil {
		return nil, errors.New("dashboard: nil dataset")
	}
	if len(sectionNames) == 0 {
		return nil, errors.New("dashboard: no sections")
	}

	o := &options{
		cacheSize: DefaultCacheSize,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	id := cuid.New()
	logger := o.logger.With("session", id)

	// Row count follows the full dataset size, not the filtered view.
	engineOpts := append([]engine.Option{
		engine.WithTableRows(engine.TableRowsFor(dataset.Len())),
		engine.WithLogger(logger),
	}, o.engine...)

	s := &Session{
		ID:      id,
		dataset: dataset,
		dates:   engine.DateIndex(dataset),
		byName:  make(map[string]*Section, len(sectionNames)),
		logger:  logger,
	}
	for _, name := range sectionNames {
		if _, dup := s.byName[name]; dup {
			return nil, fmt.Errorf("dashboard: duplicate section %q", name)
		}
		sec := newSection(name, dataset, o.cacheSize, logger, engineOpts)
		s.sections = append(s.sections, sec)
		s.byName[name] = sec
	}

	first, last, _ := engine.DateBounds(s.dates)
	logger.Info("session created",
		"bookings", dataset.Len(),
		"dates", len(s.dates),
		"first", first,
		"last", last,
		"sections", len(s.sections))
	return s, nil
}

// Dataset returns the shared dataset.
func (s *Session) Dataset() *engine.Dataset { return s.dataset }

// Dates returns a copy of the distinct booking dates, ascending.
func (s *Session) Dates() []string {
	out := make([]string, len(s.dates))
	copy(out, s.dates)
	return out
}

// Bounds returns the first and last booking date.
func (s *Session) Bounds() (first, last string, ok bool) {
	return engine.DateBounds(s.dates)
}

// Section looks up a section by name.
func (s *Session) Section(name string) (*Section, bool) {
	sec, ok := s.byName[name]
	return sec, ok
}

// Sections returns the sections in creation order.
func (s *Session) Sections() []*Section {
	out := make([]*Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Refresh recomputes every section at its current range, concurrently.
func (s *Session) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sec := range s.sections {
		g.Go(func() error {
			_, err := sec.Apply(ctx, sec.Range())
			if errors.Is(err, ErrSuperseded) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// ApplyAll sets r on every section and recomputes them concurrently.
func (s *Session) ApplyAll(ctx context.Context, r engine.Range) (map[string]*Result, error) {
	results := make([]*Result, len(s.sections))
	g, ctx := errgroup.WithContext(ctx)
	for i, sec := range s.sections {
		g.Go(func() error {
			res, err := sec.Apply(ctx, r)
			if errors.Is(err, ErrSuperseded) {
				return nil
			}
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Result, len(results))
	for i, res := range results {
		if res != nil {
			out[s.sections[i].name] = res
		}
	}
	return out, nil
}
