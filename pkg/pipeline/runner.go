package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/jigsaw/pkg/adjacency"
	"github.com/matzehuels/jigsaw/pkg/assemble"
	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/cache"
	"github.com/matzehuels/jigsaw/pkg/errors"
	pkgio "github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/observability"
	"github.com/matzehuels/jigsaw/pkg/pattern"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
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
		TTL:    DefaultTTL,
	}
}

// Solve runs adjacency → assemble → search with caching.
func (r *Runner) Solve(ctx context.Context, s *tile.Store, opts Options) (*Result, error) {
	opts.setDefaults(r.Logger)
	logger := opts.Logger

	hash, err := InputHash(s)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}
	key := r.Keyer.SolveKey(hash, opts.SolveKeyOpts())

	if !opts.Refresh {
		if res := r.lookup(ctx, s, key, "solve", opts.Pattern); res != nil {
			res.Hash = hash
			res.Stats.Tiles, res.Stats.GridSide = s.Len(), res.Summary.GridSide
			logger.Info("solve served from cache", "tiles", s.Len(), "hash", hash[:12])
			return res, nil
		}
	}

	res := &Result{Hash: hash, Stats: Stats{Tiles: s.Len()}}

	// Stage 1: Adjacency
	m, err := r.resolve(ctx, s, opts, res)
	if err != nil {
		return nil, err
	}

	// Stage 2: Assemble
	var (
		layout *assemble.Layout
		canvas *bitmap.Bitmap
	)
	res.Stats.AssembleTime, err = stage(ctx, observability.StageAssemble, s.Len(), func() error {
		var err error
		if layout, err = assemble.Place(ctx, s, m); err != nil {
			return err
		}
		canvas, err = assemble.Stitch(s, layout)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	res.Layout, res.Canvas = layout, canvas
	logger.Info("assembled canvas",
		"side", canvas.Size(),
		"pixels", canvas.Count(),
		"duration", res.Stats.AssembleTime)

	// Stage 3: Search
	var match *pattern.Match
	res.Stats.SearchTime, err = stage(ctx, observability.StageSearch, s.Len(), func() error {
		var err error
		match, err = pattern.Find(ctx, canvas, opts.Pattern, pattern.Options{
			Policy:  opts.Policy,
			Workers: opts.Workers,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	res.Match = match
	logger.Info("found pattern",
		"orientation", match.Orientation,
		"occurrences", match.Occurrences(),
		"remaining", match.Remaining,
		"duration", res.Stats.SearchTime)

	res.Summary = Summarize(s, m, layout, canvas, match)
	r.store(ctx, key, "solve", res.Summary)
	return res, nil
}

// Corners runs the adjacency stage only, with caching.
func (r *Runner) Corners(ctx context.Context, s *tile.Store, opts Options) (*Result, error) {
	opts.setDefaults(r.Logger)

	hash, err := InputHash(s)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}
	key := r.Keyer.CornersKey(hash)

	if !opts.Refresh {
		if res := r.lookup(ctx, s, key, "corners", nil); res != nil {
			res.Hash = hash
			res.Stats.Tiles, res.Stats.GridSide = s.Len(), res.Summary.GridSide
			return res, nil
		}
	}

	res := &Result{Hash: hash, Stats: Stats{Tiles: s.Len()}}
	m, err := r.resolve(ctx, s, opts, res)
	if err != nil {
		return nil, err
	}
	res.Summary = Summarize(s, m, nil, nil, nil)
	r.store(ctx, key, "corners", res.Summary)
	return res, nil
}

func (r *Runner) resolve(ctx context.Context, s *tile.Store, opts Options, res *Result) (*adjacency.Map, error) {
	var m *adjacency.Map
	d, err := stage(ctx, observability.StageAdjacency, s.Len(), func() error {
		var err error
		m, err = adjacency.Resolve(ctx, s, adjacency.Options{Workers: opts.Workers})
		return err
	})
	res.Stats.ResolveTime = d
	if err != nil {
		return nil, fmt.Errorf("adjacency: %w", err)
	}
	res.Map = m
	res.Stats.GridSide = m.GridSide()
	opts.Logger.Info("resolved adjacency",
		"tiles", s.Len(),
		"grid", m.GridSide(),
		"corners", m.Corners(),
		"duration", d)
	return m, nil
}

// stage times fn and reports it to the pipeline hooks.
func stage(ctx context.Context, st observability.Stage, tiles int, fn func() error) (time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, st, tiles)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, st, d, err)
	return d, err
}

// lookup returns a result rebuilt from the cache, or nil on a miss.
// Unreadable entries count as misses.
func (r *Runner) lookup(ctx context.Context, s *tile.Store, key, keyType string, p *pattern.Pattern) *Result {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil
	}
	sum, err := pkgio.ReadResult(bytes.NewReader(data))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil
	}
	res, err := restore(s, sum, p)
	if err != nil {
		r.Logger.Debug("discarding stale cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	res.CacheInfo.Hit = true
	return res
}

// store writes a summary to the cache. Failures are logged, not returned.
func (r *Runner) store(ctx context.Context, key, keyType string, sum *pkgio.Result) {
	var buf bytes.Buffer
	if err := pkgio.WriteResult(&buf, sum); err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, buf.Len())
}

// Save stores a summary under a new identifier and returns it.
func (r *Runner) Save(ctx context.Context, sum *pkgio.Result) (string, error) {
	stored := *sum
	stored.ID = uuid.NewString()

	var buf bytes.Buffer
	if err := pkgio.WriteResult(&buf, &stored); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	if err := r.Cache.Set(ctx, r.Keyer.ResultKey(stored.ID), buf.Bytes(), r.TTL); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "store result")
	}
	observability.Cache().OnCacheSet(ctx, "result", buf.Len())
	return stored.ID, nil
}

// Load returns the summary saved under id. Unknown or malformed
// identifiers fail with NOT_FOUND.
func (r *Runner) Load(ctx context.Context, id string) (*pkgio.Result, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "result %q not found", id)
	}
	data, hit, err := r.Cache.Get(ctx, r.Keyer.ResultKey(id))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load result")
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, errors.New(errors.ErrCodeNotFound, "result %q not found", id)
	}
	observability.Cache().OnCacheHit(ctx, "result")
	sum, err := pkgio.ReadResult(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode result")
	}
	return sum, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
