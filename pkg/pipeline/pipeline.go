// Package pipeline runs the complete jigsaw solve for the CLI and the HTTP API.
//
// A solve has three stages:
//
//  1. Adjacency: match tile borders and classify corners, edges and interior tiles
//  2. Assemble: place and orient every tile, then stitch the canvas
//  3. Search: find the pattern in the canvas and count the remaining pixels
//
// [Runner] executes the stages with caching, logging and observability
// hooks, so every entry point behaves the same.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Solve(ctx, store, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Summary.CornerProduct, res.Summary.Pattern.Remaining)
//
// Only the first stage is needed for the corner product:
//
//	res, err := runner.Corners(ctx, store, pipeline.Options{})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jigsaw/pkg/adjacency"
	"github.com/matzehuels/jigsaw/pkg/assemble"
	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/cache"
	"github.com/matzehuels/jigsaw/pkg/errors"
	pkgio "github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/pattern"
)

// DefaultTTL is how long solve results stay cached.
const DefaultTTL = 24 * time.Hour

// Options configures a solve.
type Options struct {
	// Workers bounds the goroutines used by the adjacency and search stages.
	// Zero or one runs sequentially.
	Workers int
	// Policy picks between canvas orientations that contain the pattern.
	Policy pattern.Policy
	// Pattern is searched for in the canvas. Nil means [pattern.Monster].
	Pattern *pattern.Pattern
	// Refresh skips cache lookups but still stores the new result.
	Refresh bool

	// Logger overrides the runner's logger for this solve.
	Logger *log.Logger
}

func (o *Options) setDefaults(fallback *log.Logger) {
	if o.Pattern == nil {
		o.Pattern = pattern.Monster
	}
	if o.Logger == nil {
		o.Logger = fallback
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SolveKeyOpts returns cache key options for a full solve.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	p := o.Pattern
	if p == nil {
		p = pattern.Monster
	}
	return cache.SolveKeyOpts{Policy: o.Policy.String(), Pattern: p.Rows()}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Hash is the content hash of the tile input.
	Hash string

	// Map is the resolved adjacency. It is nil when the result came from the cache.
	Map *adjacency.Map

	// Layout is the placed grid. Nil for corner-only solves.
	Layout *assemble.Layout

	// Canvas is the stitched image in the frame of the anchor tile.
	Canvas *bitmap.Bitmap

	// Match is the pattern search outcome. Nil for corner-only solves.
	Match *pattern.Match

	// Summary is the serializable form of the result.
	Summary *pkgio.Result

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the result came from the cache.
	CacheInfo CacheInfo
}

// CornerProduct returns the product of the four corner identifiers.
func (r *Result) CornerProduct() int64 { return r.Summary.CornerProduct }

// Remaining returns the on pixels outside every pattern occurrence, or -1
// for corner-only solves.
func (r *Result) Remaining() int {
	if r.Summary.Pattern == nil {
		return -1
	}
	return r.Summary.Pattern.Remaining
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Tiles        int
	GridSide     int
	ResolveTime  time.Duration
	AssembleTime time.Duration
	SearchTime   time.Duration
}

// CacheInfo tracks cache usage for a run.
type CacheInfo struct {
	Hit bool // Whether the result was rebuilt from a cached summary
}

// Expect holds known answers to check a result against.
// A non-positive CornerProduct or a negative Remaining is not checked.
type Expect struct {
	CornerProduct int64
	Remaining     int
}

// Verify compares the result with want and fails with RESULT_MISMATCH on
// the first difference.
func (r *Result) Verify(want Expect) error {
	if want.CornerProduct > 0 && r.CornerProduct() != want.CornerProduct {
		return errors.New(errors.ErrCodeResultMismatch,
			"corner product is %d, want %d", r.CornerProduct(), want.CornerProduct)
	}
	if want.Remaining >= 0 && r.Remaining() != want.Remaining {
		return errors.New(errors.ErrCodeResultMismatch,
			"remaining pixels are %d, want %d", r.Remaining(), want.Remaining)
	}
	return nil
}
