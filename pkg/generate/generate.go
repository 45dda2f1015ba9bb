// Package generate builds synthetic jigsaw puzzles with a known solution.
//
// [Puzzle] draws a random canvas, optionally stamps a pattern into it, cuts
// the canvas into tiles, gives neighboring tiles shared random borders, and
// finally scrambles every tile with a random orientation and identifier.
// Each border is drawn from the patterns no other border has taken yet and
// never reads the same in both directions, so the result always has exactly
// one tiling.
//
// Output is deterministic for a given seed:
//
//	p, err := generate.Puzzle(5, 12, generate.WithSeed(7), generate.WithPattern(pattern.Monster, 3))
package generate

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/pattern"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

const (
	defaultSeed    = 1
	defaultDensity = 0.2
	borderDensity  = 0.5
	maxAttempts    = 20
	borderTries    = 256
	minID          = 1000
	maxID          = 9999
)

type config struct {
	rng      *rand.Rand
	density  float64
	pattern  *pattern.Pattern
	stamps   int
	scramble bool
}

// Option customizes [Puzzle].
type Option func(*config)

// WithSeed seeds the generator's random source.
func WithSeed(seed int64) Option {
	return func(c *config) { c.rng = newRand(seed) }
}

// WithRand uses r as the random source. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("generate: WithRand(nil)")
	}
	return func(c *config) { c.rng = r }
}

// WithDensity sets the probability of a canvas pixel being on.
// Panics outside [0, 1].
func WithDensity(d float64) Option {
	if d < 0 || d > 1 {
		panic(fmt.Sprintf("generate: WithDensity(%v) out of [0,1]", d))
	}
	return func(c *config) { c.density = d }
}

// WithPattern stamps n upright copies of p at random canvas positions.
func WithPattern(p *pattern.Pattern, n int) Option {
	if p == nil || n < 0 {
		panic("generate: WithPattern needs a pattern and a non-negative count")
	}
	return func(c *config) {
		c.pattern = p
		c.stamps = n
	}
}

// WithoutScramble keeps tiles upright and numbers them 1..R² row-major.
func WithoutScramble() Option {
	return func(c *config) { c.scramble = false }
}

// Result is a generated puzzle together with its solution.
type Result struct {
	// Tiles is the scrambled tile set handed to the solver.
	Tiles *tile.Store
	// Canvas is the solution image in the frame the pattern was stamped in.
	Canvas *bitmap.Bitmap
	// Grid holds the tile identifiers at their solved positions.
	Grid [][]tile.ID
	// Stamps are the top-left corners of every stamped pattern on Canvas.
	Stamps []pattern.Point
}

// Corners returns the identifiers of the four corner tiles in ascending order.
func (r *Result) Corners() []tile.ID {
	n := len(r.Grid) - 1
	c := []tile.ID{r.Grid[0][0], r.Grid[0][n], r.Grid[n][0], r.Grid[n][n]}
	slices.Sort(c)
	return c
}

// Puzzle generates a gridSide×gridSide puzzle of tileSize×tileSize tiles.
// gridSide must be at least 2 and tileSize at least [tile.MinSize].
func Puzzle(gridSide, tileSize int, opts ...Option) (*Result, error) {
	cfg := config{density: defaultDensity, scramble: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = newRand(defaultSeed)
	}

	if gridSide < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid side %d too small, need at least 2", gridSide)
	}
	if gridSide*gridSide > maxID-minID+1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid side %d too large", gridSide)
	}
	if tileSize < tile.MinSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tile size %d too small, need at least %d", tileSize, tile.MinSize)
	}
	if need, have := bordersNeeded(gridSide), borderClasses(tileSize); need > have {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"a %dx%d grid needs %d distinct borders but %dx%d tiles only have %d", gridSide, gridSide, need, tileSize, tileSize, have)
	}

	inner := tileSize - 2
	canvas := bitmap.New(gridSide * inner)
	for r := 0; r < canvas.Size(); r++ {
		for c := 0; c < canvas.Size(); c++ {
			canvas.Set(r, c, cfg.rng.Float64() < cfg.density)
		}
	}

	var stamps []pattern.Point
	if p := cfg.pattern; p != nil && cfg.stamps > 0 {
		if p.Height() > canvas.Size() || p.Width() > canvas.Size() {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"pattern is %dx%d but canvas is only %dx%d", p.Height(), p.Width(), canvas.Size(), canvas.Size())
		}
		for range cfg.stamps {
			at := pattern.Point{
				Row: cfg.rng.IntN(canvas.Size() - p.Height() + 1),
				Col: cfg.rng.IntN(canvas.Size() - p.Width() + 1),
			}
			p.Stamp(canvas, at)
			stamps = append(stamps, at)
		}
	}

	var tiles [][]*bitmap.Bitmap
	for attempt := 0; tiles == nil; attempt++ {
		if attempt == maxAttempts {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"no unique border assignment found for %dx%d tiles after %d attempts", tileSize, tileSize, maxAttempts)
		}
		tiles = cut(canvas, gridSide, tileSize, cfg.rng)
	}

	res := &Result{Canvas: canvas, Stamps: stamps, Grid: make([][]tile.ID, gridSide)}
	ids := sequentialIDs(gridSide * gridSide)
	if cfg.scramble {
		ids = randomIDs(gridSide*gridSide, cfg.rng)
	}
	pixels := make(map[tile.ID]*bitmap.Bitmap, len(ids))
	for r := range tiles {
		res.Grid[r] = make([]tile.ID, gridSide)
		for c, px := range tiles[r] {
			id := ids[r*gridSide+c]
			res.Grid[r][c] = id
			if cfg.scramble {
				px = bitmap.All[cfg.rng.IntN(len(bitmap.All))].Apply(px)
			}
			pixels[id] = px
		}
	}

	store, err := tile.NewStore(pixels)
	if err != nil {
		return nil, err
	}
	res.Tiles = store
	return res, nil
}

// cut slices canvas into tiles with fresh random border rings. A tile's top
// row and left column are copied from the neighbor above and to the left, so
// every inner seam is shared. Returns nil when some border could not be given
// an unused pattern.
func cut(canvas *bitmap.Bitmap, gridSide, size int, rng *rand.Rand) [][]*bitmap.Bitmap {
	inner := size - 2
	d := &borderDrawer{rng: rng, size: size, used: make(map[string]bool)}
	tiles := make([][]*bitmap.Bitmap, gridSide)
	for r := range tiles {
		tiles[r] = make([]*bitmap.Bitmap, gridSide)
		for c := range tiles[r] {
			t := bitmap.New(size)
			fixed := bitmap.New(size)
			if c > 0 {
				left := tiles[r][c-1]
				for i := 0; i < size; i++ {
					t.Set(i, 0, left.At(i, size-1))
					fixed.Set(i, 0, true)
				}
			}
			if r > 0 {
				up := tiles[r-1][c]
				for i := 0; i < size; i++ {
					t.Set(0, i, up.At(size-1, i))
					fixed.Set(0, i, true)
				}
			}
			for _, side := range []bitmap.Side{bitmap.Top, bitmap.Left, bitmap.Right, bitmap.Bottom} {
				if (side == bitmap.Top && r > 0) || (side == bitmap.Left && c > 0) {
					continue
				}
				if !d.draw(t, fixed, side) {
					return nil
				}
			}
			for y := 0; y < inner; y++ {
				for x := 0; x < inner; x++ {
					t.Set(y+1, x+1, canvas.At(r*inner+y, c*inner+x))
				}
			}
			tiles[r][c] = t
		}
	}
	return tiles
}

// borderDrawer hands out border patterns, each at most once up to reversal.
type borderDrawer struct {
	rng  *rand.Rand
	size int
	used map[string]bool
}

// draw fills the unfixed pixels along side of t until the border is
// asymmetric and unused, then claims it and marks its pixels fixed.
func (d *borderDrawer) draw(t, fixed *bitmap.Bitmap, side bitmap.Side) bool {
	for range borderTries {
		for i := 0; i < d.size; i++ {
			if y, x := ringPixel(side, d.size, i); !fixed.At(y, x) {
				t.Set(y, x, d.rng.Float64() < borderDensity)
			}
		}
		b := bitmap.Identity.Border(t, side)
		fwd, rev := b.String(), b.Reverse().String()
		key := min(fwd, rev)
		if fwd == rev || d.used[key] {
			continue
		}
		d.used[key] = true
		for i := 0; i < d.size; i++ {
			y, x := ringPixel(side, d.size, i)
			fixed.Set(y, x, true)
		}
		return true
	}
	return false
}

// ringPixel returns the coordinates of the i-th pixel along side.
func ringPixel(side bitmap.Side, size, i int) (int, int) {
	switch side {
	case bitmap.Top:
		return 0, i
	case bitmap.Bottom:
		return size - 1, i
	case bitmap.Left:
		return i, 0
	default:
		return i, size - 1
	}
}

// bordersNeeded counts the distinct borders of a gridSide×gridSide puzzle:
// every inner seam plus every rim edge.
func bordersNeeded(gridSide int) int {
	return 2*gridSide*(gridSide-1) + 4*gridSide
}

// borderClasses counts the asymmetric borders of length n, taken up to
// reversal. Saturates for large n.
func borderClasses(n int) int {
	if n >= bits.UintSize-2 {
		return math.MaxInt
	}
	return (1<<n - 1<<((n+1)/2)) / 2
}

func sequentialIDs(n int) []tile.ID {
	ids := make([]tile.ID, n)
	for i := range ids {
		ids[i] = tile.ID(i + 1)
	}
	return ids
}

func randomIDs(n int, rng *rand.Rand) []tile.ID {
	perm := rng.Perm(maxID - minID + 1)
	ids := make([]tile.ID, n)
	for i := range ids {
		ids[i] = tile.ID(minID + perm[i])
	}
	return ids
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
