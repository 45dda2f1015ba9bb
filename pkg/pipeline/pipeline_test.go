package pipeline

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jigsaw/internal/fixture"
	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/cache"
	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/generate"
	"github.com/matzehuels/jigsaw/pkg/observability"
	"github.com/matzehuels/jigsaw/pkg/pattern"
)

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func fileCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return c
}

func TestSolveDemo(t *testing.T) {
	r := quietRunner(t, nil)
	res, err := r.Solve(context.Background(), fixture.Demo(), Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if got := res.CornerProduct(); got != fixture.DemoCornerProduct {
		t.Errorf("CornerProduct() = %d, want %d", got, fixture.DemoCornerProduct)
	}
	if got := res.Remaining(); got != fixture.DemoRemaining {
		t.Errorf("Remaining() = %d, want %d", got, fixture.DemoRemaining)
	}
	if res.Match.Occurrences() != fixture.DemoOccurrences {
		t.Errorf("Occurrences() = %d, want %d", res.Match.Occurrences(), fixture.DemoOccurrences)
	}
	if res.Match.Orientation != bitmap.Rot180 {
		t.Errorf("match orientation = %s, want rot180", res.Match.Orientation)
	}
	if res.Canvas.Size() != fixture.DemoGridSide*(fixture.DemoTileSize-2) {
		t.Errorf("canvas side = %d", res.Canvas.Size())
	}
	if res.Stats.Tiles != 9 || res.Stats.GridSide != 3 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.Hit {
		t.Error("first solve should not hit the cache")
	}

	sum := res.Summary
	if len(sum.Corners) != 4 || sum.Corners[0] != 1171 || sum.Corners[3] != 3079 {
		t.Errorf("Summary.Corners = %v", sum.Corners)
	}
	if len(sum.Layout) != 3 || sum.Layout[0][0].ID != 1171 || sum.Layout[0][0].Orientation != "rot270" {
		t.Errorf("Summary.Layout = %v", sum.Layout)
	}
	if len(sum.Canvas) != 24 || sum.Canvas[0] != "#.##.##...#.##....###..#" {
		t.Errorf("Summary.Canvas[0] = %q", sum.Canvas[0])
	}
}

func TestSolveParallelMatchesSequential(t *testing.T) {
	p, err := generate.Puzzle(4, 12, generate.WithSeed(3), generate.WithPattern(pattern.Monster, 2))
	if err != nil {
		t.Fatalf("Puzzle: %v", err)
	}
	r := quietRunner(t, nil)
	seq, err := r.Solve(context.Background(), p.Tiles, Options{})
	if err != nil {
		t.Fatalf("Solve sequential: %v", err)
	}
	par, err := r.Solve(context.Background(), p.Tiles, Options{Workers: 4})
	if err != nil {
		t.Fatalf("Solve parallel: %v", err)
	}
	if seq.CornerProduct() != par.CornerProduct() || seq.Remaining() != par.Remaining() {
		t.Errorf("parallel (%d, %d) != sequential (%d, %d)",
			par.CornerProduct(), par.Remaining(), seq.CornerProduct(), seq.Remaining())
	}
	if !seq.Canvas.Equal(par.Canvas) {
		t.Error("parallel canvas differs")
	}
}

func TestSolveCacheHit(t *testing.T) {
	r := quietRunner(t, fileCache(t))
	ctx := context.Background()

	first, err := r.Solve(ctx, fixture.Demo(), Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	second, err := r.Solve(ctx, fixture.Demo(), Options{})
	if err != nil {
		t.Fatalf("Solve (cached): %v", err)
	}
	if !second.CacheInfo.Hit {
		t.Fatal("second solve should hit the cache")
	}
	if second.Map != nil {
		t.Error("cached result should not carry an adjacency map")
	}
	if second.Hash != first.Hash {
		t.Errorf("hash changed: %s vs %s", second.Hash, first.Hash)
	}
	if !second.Canvas.Equal(first.Canvas) {
		t.Error("restored canvas differs")
	}
	if second.Layout.String() != first.Layout.String() {
		t.Errorf("restored layout = %s", second.Layout)
	}
	if !second.Match.Covered.Equal(first.Match.Covered) || second.Match.Remaining != fixture.DemoRemaining {
		t.Error("restored match differs")
	}

	refreshed, err := r.Solve(ctx, fixture.Demo(), Options{Refresh: true})
	if err != nil {
		t.Fatalf("Solve (refresh): %v", err)
	}
	if refreshed.CacheInfo.Hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestSolveCacheKeyIncludesPolicy(t *testing.T) {
	r := quietRunner(t, fileCache(t))
	ctx := context.Background()
	if _, err := r.Solve(ctx, fixture.Demo(), Options{}); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	res, err := r.Solve(ctx, fixture.Demo(), Options{Policy: pattern.MostMatches})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.CacheInfo.Hit {
		t.Error("a different policy should not share the cache entry")
	}
	res, err = r.Solve(ctx, fixture.Demo(), Options{Workers: 8})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.CacheInfo.Hit {
		t.Error("worker count should not change the cache key")
	}
}

func TestSolvePatternNotFound(t *testing.T) {
	block := pattern.MustNew("####", "####", "####", "####")
	_, err := quietRunner(t, nil).Solve(context.Background(), fixture.Demo(), Options{Pattern: block})
	if !errors.Is(err, errors.ErrCodePatternNotFound) {
		t.Errorf("Solve() error = %v, want PATTERN_NOT_FOUND", err)
	}
}

func TestSolveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := quietRunner(t, nil).Solve(ctx, fixture.Demo(), Options{}); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestCorners(t *testing.T) {
	r := quietRunner(t, fileCache(t))
	ctx := context.Background()

	res, err := r.Corners(ctx, fixture.Demo(), Options{})
	if err != nil {
		t.Fatalf("Corners: %v", err)
	}
	if res.CornerProduct() != fixture.DemoCornerProduct {
		t.Errorf("CornerProduct() = %d", res.CornerProduct())
	}
	if res.Layout != nil || res.Match != nil || res.Remaining() != -1 {
		t.Error("corner-only solve should not assemble or search")
	}

	cached, err := r.Corners(ctx, fixture.Demo(), Options{})
	if err != nil {
		t.Fatalf("Corners (cached): %v", err)
	}
	if !cached.CacheInfo.Hit || cached.CornerProduct() != fixture.DemoCornerProduct {
		t.Errorf("cached corners = %+v", cached.Summary)
	}
}

func TestVerify(t *testing.T) {
	res, err := quietRunner(t, nil).Solve(context.Background(), fixture.Demo(), Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	tests := []struct {
		name    string
		want    Expect
		wantErr bool
	}{
		{"both match", Expect{fixture.DemoCornerProduct, fixture.DemoRemaining}, false},
		{"unchecked", Expect{0, -1}, false},
		{"product differs", Expect{42, -1}, true},
		{"remaining differs", Expect{0, 7}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := res.Verify(tt.want)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeResultMismatch) {
				t.Errorf("Verify() code = %s", errors.GetCode(err))
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	r := quietRunner(t, fileCache(t))
	ctx := context.Background()

	res, err := r.Solve(ctx, fixture.Demo(), Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	id, err := r.Save(ctx, res.Summary)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Summary.ID != "" {
		t.Error("Save should not modify the summary passed in")
	}

	got, err := r.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != id || got.CornerProduct != fixture.DemoCornerProduct || got.Pattern.Remaining != fixture.DemoRemaining {
		t.Errorf("Load() = %+v", got)
	}

	for _, bad := range []string{"not-a-uuid", "6f1c2a8e-3f4b-4d6a-9c1e-2b7d8e9f0a1b"} {
		if _, err := r.Load(ctx, bad); !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("Load(%q) error = %v, want NOT_FOUND", bad, err)
		}
	}
}

type recordingHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) OnStageStart(_ context.Context, st observability.Stage, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "start:"+string(st))
}

func (h *recordingHooks) OnStageComplete(_ context.Context, st observability.Stage, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "err"
	}
	h.events = append(h.events, status+":"+string(st))
}

func TestSolveEmitsStageHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	if _, err := quietRunner(t, nil).Solve(context.Background(), fixture.Demo(), Options{}); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	want := []string{
		"start:adjacency", "ok:adjacency",
		"start:assemble", "ok:assemble",
		"start:search", "ok:search",
	}
	if len(hooks.events) != len(want) {
		t.Fatalf("events = %v, want %v", hooks.events, want)
	}
	for i := range want {
		if hooks.events[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, hooks.events[i], want[i])
		}
	}
}

func TestSolveLogsStages(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	if _, err := NewRunner(nil, nil, logger).Solve(context.Background(), fixture.Demo(), Options{}); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for _, want := range []string{"resolved adjacency", "assembled canvas", "found pattern"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("log missing %q:\n%s", want, buf.String())
		}
	}
}

func TestInputHashIgnoresFormatting(t *testing.T) {
	a, err := InputHash(fixture.Demo())
	if err != nil {
		t.Fatalf("InputHash: %v", err)
	}
	b, err := InputHash(fixture.Demo())
	if err != nil {
		t.Fatalf("InputHash: %v", err)
	}
	if a != b || len(a) != 64 {
		t.Errorf("InputHash() = %q and %q", a, b)
	}
}
