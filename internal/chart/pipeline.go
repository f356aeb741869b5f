package chart

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/history"
	"github.com/MatrixRex/daamtrack/internal/storage"
	"github.com/MatrixRex/daamtrack/internal/unit"
)

// Config is the user-facing display state of one comparison session:
// date window, resolution mode, bucket reducer, and normalization targets.
type Config struct {
	StartDate   domain.Day
	EndDate     domain.Day
	Resolution  domain.Resolution
	Aggregation domain.Reducer
	Targets     *unit.Targets
}

// Result is one fully resolved dataset: chart rows at the effective
// resolution, summary stats from the pre-aggregation daily series, and the
// selection's names in display order.
type Result struct {
	Rows       []domain.Row      `json:"rows"`
	Stats      []domain.Stat     `json:"stats"`
	Names      []string          `json:"names"`
	Resolution domain.Resolution `json:"resolution"`
}

// Options configures a Pipeline.
type Options struct {
	Store      storage.PriceHistoryStore
	Palette    *Palette    // nil for a fresh default palette
	AutoPolicy *AutoPolicy // nil for DefaultAutoPolicy
	OnStats    func([]domain.Stat)
	Logger     *log.Logger
}

// Pipeline owns the state of one comparison session and recomputes the
// dataset whenever selection or display config changes. Each session gets
// its own Pipeline; the series cache, palette, and previous-stats
// bookkeeping inside it are never shared across sessions.
//
// All mutating entry points serialize on one mutex, so stages never race
// against each other within a session. Fetches run outside the lock and
// reconcile against the selection current at completion time, not the
// snapshot taken when the fetch started.
type Pipeline struct {
	cache   *history.Cache
	palette *Palette
	policy  AutoPolicy
	onStats func([]domain.Stat)
	logger  *log.Logger

	mu        sync.Mutex
	selection []domain.Item
	config    Config
	lastStats []domain.Stat
}

// NewPipeline builds a session pipeline over the given price store.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("chart: store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	palette := opts.Palette
	if palette == nil {
		palette = NewPalette(nil)
	}
	policy := DefaultAutoPolicy()
	if opts.AutoPolicy != nil {
		policy = *opts.AutoPolicy
	}
	return &Pipeline{
		cache:   history.NewCache(opts.Store, logger),
		palette: palette,
		policy:  policy,
		onStats: opts.OnStats,
		logger:  logger,
	}, nil
}

// SetConfig replaces the display config and rebuilds the dataset for the
// current selection.
func (p *Pipeline) SetConfig(cfg Config) Result {
	if cfg.Resolution == "" {
		cfg.Resolution = domain.ResolutionAuto
	}
	if cfg.Aggregation == "" {
		cfg.Aggregation = domain.ReducerAvg
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config = cfg
	return p.rebuildLocked()
}

// Config returns the current display config.
func (p *Pipeline) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// Selection returns a copy of the current selection.
func (p *Pipeline) Selection() []domain.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Item, len(p.selection))
	copy(out, p.selection)
	return out
}

// SetSelection replaces the comparison set and rebuilds. The pipeline
// diffs against its previous selection: newly added items have their whole
// series fetched (all of them, before any rebuild — no partial-data
// flashes), removed items keep their cached data untouched. Clearing the
// entire selection resets the color registry; partial removals never do.
//
// Fetches run outside the session lock. The rebuild afterwards uses the
// selection current at that moment, so a selection change racing a slow
// fetch wins: the late fetch's data lands in the cache and is simply not
// charted.
func (p *Pipeline) SetSelection(ctx context.Context, items []domain.Item) Result {
	p.mu.Lock()
	var added []string
	for _, item := range items {
		if !p.cache.Has(item.Name) {
			added = append(added, item.Name)
		}
	}
	wasEmpty := len(p.selection) == 0
	p.selection = make([]domain.Item, len(items))
	copy(p.selection, items)
	if len(items) == 0 && !wasEmpty {
		p.palette.Reset()
	}
	p.mu.Unlock()

	if len(added) > 0 {
		p.logger.Printf("[chart] fetching %d new series", len(added))
		for _, name := range added {
			p.cache.Fetch(ctx, name)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rebuildLocked()
}

// Rebuild recomputes the dataset from cached data without changing any
// session state.
func (p *Pipeline) Rebuild() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rebuildLocked()
}

// rebuildLocked runs the synchronous stages in order: materialize the
// dense daily rows, summarize stats from them, aggregate to the effective
// resolution, then normalize. Caller holds p.mu.
func (p *Pipeline) rebuildLocked() Result {
	cfg := p.config
	items := p.selection

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}

	daily := Materialize(cfg.StartDate, cfg.EndDate, items, p.cache.Series)

	stats := Summarize(daily, items, p.palette.Color)
	if p.onStats != nil && !statsEqual(stats, p.lastStats) {
		p.onStats(stats)
	}
	p.lastStats = stats

	effective := EffectiveResolution(cfg.Resolution, cfg.StartDate, cfg.EndDate, p.policy)
	rows := Aggregate(daily, names, effective, cfg.Aggregation)
	rows = ApplyNormalization(rows, items, cfg.Targets)

	return Result{
		Rows:       rows,
		Stats:      stats,
		Names:      names,
		Resolution: effective,
	}
}
