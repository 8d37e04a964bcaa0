package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hydronet/pkg/cache"
	"github.com/matzehuels/hydronet/pkg/hydro"
	recio "github.com/matzehuels/hydronet/pkg/io"
	"github.com/matzehuels/hydronet/pkg/observability"
	"github.com/matzehuels/hydronet/pkg/records"
	"github.com/matzehuels/hydronet/pkg/source/sqlite"
)

// cacheKeyType labels record set entries in cache hooks.
const cacheKeyType = "records"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → build pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	opts.stage(StageLoad)
	loadStart := time.Now()
	set, hit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Records = set
	result.CacheHit = hit
	result.Stats.LoadTime = time.Since(loadStart)
	for _, t := range set.Tables() {
		result.Stats.Rows += t.Len()
	}

	opts.Logger.Info("loaded records",
		"rows", result.Stats.Rows,
		"cached", hit,
		"duration", result.Stats.LoadTime)

	opts.stage(StageBuild)
	buildStart := time.Now()
	n, err := r.Build(ctx, set, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Network = n
	result.Stats.Network = n.Stats()
	result.Stats.BuildTime = time.Since(buildStart)

	return result, nil
}

// LoadWithCacheInfo loads the normalized records and reports whether they
// came from the cache. Record files are read directly; SQLite databases
// go through the cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*records.Set, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if opts.Format == FormatRecords {
		set, err := recio.ImportJSON(opts.Input)
		return set, false, err
	}

	sourceHash, err := cache.HashFile(opts.Input)
	if err != nil {
		// Let the loader report the missing file with its own error code.
		return r.loadSQLite(ctx, opts)
	}
	cacheKey := r.Keyer.RecordsKey(sourceHash, opts.Config.Source)
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			set, err := recio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				hooks.OnCacheHit(ctx, cacheKeyType)
				return set, true, nil
			}
			opts.Logger.Debug("discarding unreadable cache entry", "error", err)
		}
		hooks.OnCacheMiss(ctx, cacheKeyType)
	}

	set, _, err := r.loadSQLite(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := recio.WriteJSON(set, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), r.ttl(opts)); err != nil {
			opts.Logger.Debug("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, cacheKeyType, buf.Len())
		}
	}
	return set, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*records.Set, error) {
	set, _, err := r.LoadWithCacheInfo(ctx, opts)
	return set, err
}

// Build assembles set into a network using the configured sentinel.
func (r *Runner) Build(ctx context.Context, set *records.Set, opts Options) (*hydro.Network, error) {
	if opts.Config == nil {
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return nil, err
		}
	}
	r.applyLogger(&opts)
	return hydro.Build(ctx, set,
		hydro.WithLogger(opts.Logger),
		hydro.WithSentinel(opts.Config.Source.Sentinel))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) loadSQLite(ctx context.Context, opts Options) (*records.Set, bool, error) {
	set, err := sqlite.New(opts.Config.Source, sqlite.WithLogger(opts.Logger)).Load(ctx, opts.Input)
	return set, false, err
}

func (r *Runner) ttl(opts Options) time.Duration {
	if opts.Config.Cache.TTL > 0 {
		return opts.Config.Cache.TTL
	}
	return cache.TTLRecords
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
