package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/hitcount/core"
	"github.com/poiesic/hitcount/engine"
	"github.com/poiesic/hitcount/extract"
	"golang.org/x/sync/errgroup"
)

// Recorder receives every completed search.
type Recorder interface {
	Record(ctx context.Context, record *core.SearchRecord) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, record *core.SearchRecord) error

// Record calls f(ctx, record).
func (f RecorderFunc) Record(ctx context.Context, record *core.SearchRecord) error {
	return f(ctx, record)
}

// Aggregator fans a query out to providers and sums word counts.
// It is safe for concurrent use; all requests share one worker pool.
type Aggregator struct {
	registry *engine.Registry
	fetcher  engine.Fetcher
	pool     *ants.Pool
	monitors []Monitor
	recorder Recorder
	logger   *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator) error

// WithPoolSize sets the number of concurrent provider calls.
// Default is runtime.NumCPU() * 4, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(a *Aggregator) error {
		if size < 1 {
			size = 1
		}

		if a.pool != nil {
			a.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		a.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithMonitor adds a monitor. It may be given more than once.
func WithMonitor(monitor Monitor) Option {
	return func(a *Aggregator) error {
		if monitor != nil {
			a.monitors = append(a.monitors, monitor)
		}
		return nil
	}
}

// WithRecorder sets where completed searches are recorded.
// Recording failures are logged and never fail a search.
func WithRecorder(recorder Recorder) Option {
	return func(a *Aggregator) error {
		a.recorder = recorder
		return nil
	}
}

// NewAggregator creates an aggregator over registry using fetcher for
// provider calls.
func NewAggregator(registry *engine.Registry, fetcher engine.Fetcher, opts ...Option) (*Aggregator, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	poolSize := runtime.NumCPU() * 4
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	a := &Aggregator{
		registry: registry,
		fetcher:  fetcher,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(a); optErr != nil {
			a.Release()
			return nil, optErr
		}
	}

	a.logger = a.logger.With("component", "aggregator")
	return a, nil
}

// Registry returns the provider registry used to resolve identifiers.
func (a *Aggregator) Registry() *engine.Registry {
	return a.registry
}

// Release releases the worker pool.
// The aggregator should not be used after calling Release.
func (a *Aggregator) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// Aggregate returns the total result count per requested provider for query.
//
// Every provider is resolved before any call is made; an unknown provider
// fails the request with an error wrapping core.ErrUnsupportedProvider.
// Failed calls count as 0. If ctx is cancelled, calls still in flight fail
// and the partial totals are returned.
func (a *Aggregator) Aggregate(ctx context.Context, query string, providers []string) (*core.SearchResponse, error) {
	if providers == nil {
		return nil, core.ErrNilProviders
	}

	// Resolve once per distinct key, keeping request order
	keys := make([]string, 0, len(providers))
	configs := make(map[string]engine.ProviderConfig, len(providers))
	for _, provider := range providers {
		if _, seen := configs[provider]; seen {
			continue
		}
		cfg, err := a.registry.Lookup(provider)
		if err != nil {
			return nil, err
		}
		configs[provider] = cfg
		keys = append(keys, provider)
	}

	words := Decompose(query)
	monitor := a.monitor()
	monitor.Start(query, providers)
	a.logger.Debug("aggregating", "query", query, "providers", providers, "words", len(words))

	sums := make([]atomic.Int64, len(keys))
	var g errgroup.Group
	for i, key := range keys {
		g.Go(func() error {
			return a.sumProvider(ctx, key, configs[key], words, &sums[i], monitor)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := make(core.EngineTotals, len(keys))
	for i, key := range keys {
		total := sums[i].Load()
		totals[key] = total
		monitor.ProviderTotal(configs[key].Identifier, total)
	}
	monitor.Finish(totals)

	resp := &core.SearchResponse{
		Query:     query,
		Providers: slices.Clone(providers),
		Totals:    totals,
	}

	if ctx.Err() == nil {
		a.record(ctx, resp)
	}

	return resp, nil
}

// sumProvider submits one task per word and waits for all of them.
// Only a pool submission failure is returned.
func (a *Aggregator) sumProvider(ctx context.Context, key string, cfg engine.ProviderConfig,
	words []string, sum *atomic.Int64, monitor Monitor) error {
	var wg sync.WaitGroup
	var submitErr error
	for _, word := range words {
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			count, err := a.countWord(ctx, word, cfg)
			if err != nil {
				a.logger.Warn("provider call failed", "provider", key, "word", word, "err", err)
				monitor.WordFailed(cfg.Identifier, word, err)
				return
			}
			addSaturating(sum, count)
			monitor.WordCounted(cfg.Identifier, word, count)
		})
		if err != nil {
			wg.Done()
			submitErr = fmt.Errorf("submitting %s word task: %w", key, err)
			break
		}
	}
	wg.Wait()
	return submitErr
}

// addSaturating adds a non-negative delta to sum, stopping at math.MaxInt64.
func addSaturating(sum *atomic.Int64, delta int64) {
	for {
		old := sum.Load()
		next := old + delta
		if next < old {
			next = math.MaxInt64
		}
		if sum.CompareAndSwap(old, next) {
			return
		}
	}
}

// countWord fetches one document and extracts its count.
func (a *Aggregator) countWord(ctx context.Context, word string, cfg engine.ProviderConfig) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrProviderCallFailed, err)
	}
	doc, err := a.fetcher.Fetch(ctx, word, cfg)
	if err != nil {
		return 0, err
	}
	result := extract.Extract(doc, cfg.FallbackMultiplier)
	a.logger.Debug("word counted", "provider", cfg.Identifier, "word", word,
		"count", result.Count, "strategy", result.Strategy.String())
	return result.Count, nil
}

func (a *Aggregator) record(ctx context.Context, resp *core.SearchResponse) {
	if a.recorder == nil {
		return
	}
	record := core.RecordFromResponse(resp, time.Now().UTC())
	if err := a.recorder.Record(context.WithoutCancel(ctx), record); err != nil {
		a.logger.Error("error recording search", "err", err)
	}
}

func (a *Aggregator) monitor() Monitor {
	switch len(a.monitors) {
	case 0:
		return &noopMonitor{}
	case 1:
		return a.monitors[0]
	default:
		return multiMonitor(a.monitors)
	}
}
