package pattern

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/errors"
)

// Policy chooses between orientations that both contain occurrences.
type Policy int

const (
	// FirstMatch stops at the first orientation in [bitmap.All] order that
	// contains any occurrence.
	FirstMatch Policy = iota
	// MostMatches scans every orientation and keeps the one with the most
	// occurrences, earliest on ties.
	MostMatches
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case FirstMatch:
		return "first"
	case MostMatches:
		return "most"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses "first" or "most". The empty string means [FirstMatch].
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return FirstMatch, nil
	case "most":
		return MostMatches, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown pattern policy %q (want first or most)", s)
	}
}

// Options configures [Find].
type Options struct {
	Policy Policy
	// Workers scans orientations concurrently when at least 2.
	Workers int
}

// Match is the outcome of a successful search.
type Match struct {
	// Orientation is the whole-canvas transform under which the pattern was found.
	Orientation bitmap.Orientation
	// Canvas is the input canvas transformed by Orientation.
	Canvas *bitmap.Bitmap
	// Offsets are the top-left corners of every occurrence, row-major.
	Offsets []Point
	// Covered has a pixel set for every on pixel belonging to at least one
	// occurrence. It is in Canvas coordinates.
	Covered *bitmap.Bitmap
	// Total is the number of on pixels in the canvas.
	Total int
	// Remaining is Total minus the pixels in Covered.
	Remaining int
}

// Occurrences returns the number of placements found.
func (m *Match) Occurrences() int { return len(m.Offsets) }

// Scan returns every offset in b where p matches, row-major.
// Overlapping occurrences are all reported.
func Scan(b *bitmap.Bitmap, p *Pattern) []Point {
	var out []Point
	n := b.Size()
	for r := 0; r+p.rows <= n; r++ {
		for c := 0; c+p.cols <= n; c++ {
			at := Point{Row: r, Col: c}
			if p.MatchesAt(b, at) {
				out = append(out, at)
			}
		}
	}
	return out
}

// Cover returns a bitmap of b's size with every pixel of every occurrence set.
func Cover(size int, p *Pattern, offsets []Point) *bitmap.Bitmap {
	covered := bitmap.New(size)
	for _, at := range offsets {
		p.Stamp(covered, at)
	}
	return covered
}

type scanResult struct {
	canvas  *bitmap.Bitmap
	offsets []Point
}

// Find searches canvas for p under all eight orientations.
// Fails with PATTERN_NOT_FOUND if no orientation contains an occurrence,
// including when the pattern does not fit inside the canvas at all.
func Find(ctx context.Context, canvas *bitmap.Bitmap, p *Pattern, opts Options) (*Match, error) {
	if canvas == nil || p == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas and pattern are required")
	}
	if p.rows > canvas.Size() || p.cols > canvas.Size() {
		return nil, errors.New(errors.ErrCodePatternNotFound,
			"pattern is %dx%d but canvas is only %dx%d", p.rows, p.cols, canvas.Size(), canvas.Size())
	}

	var results [len(bitmap.All)]scanResult
	scan := func(i int) {
		o := bitmap.All[i]
		oriented := o.Apply(canvas)
		results[i] = scanResult{canvas: oriented, offsets: Scan(oriented, p)}
	}

	best := -1
	if opts.Workers < 2 {
		for i := range bitmap.All {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scan(i)
			if len(results[i].offsets) == 0 {
				continue
			}
			if best < 0 || len(results[i].offsets) > len(results[best].offsets) {
				best = i
			}
			if opts.Policy == FirstMatch {
				break
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i := range bitmap.All {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				scan(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for i := range results {
			if len(results[i].offsets) == 0 {
				continue
			}
			if best < 0 || len(results[i].offsets) > len(results[best].offsets) {
				best = i
			}
			if opts.Policy == FirstMatch {
				break
			}
		}
	}

	if best < 0 {
		return nil, errors.New(errors.ErrCodePatternNotFound,
			"pattern (%d cells) not found in any orientation of %dx%d canvas", p.Len(), canvas.Size(), canvas.Size())
	}

	res := results[best]
	covered := Cover(canvas.Size(), p, res.offsets)
	total := canvas.Count()
	return &Match{
		Orientation: bitmap.All[best],
		Canvas:      res.canvas,
		Offsets:     res.offsets,
		Covered:     covered,
		Total:       total,
		Remaining:   total - covered.Count(),
	}, nil
}
