package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/jigsaw/internal/fixture"
	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/generate"
	pkgio "github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/pattern"
)

// run executes the root command with args in an isolated environment and
// returns what the command wrote to its output stream.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	defer c.Close()
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSolveDemoJSON(t *testing.T) {
	out, err := run(t, "solve", "--demo", "--json")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	res, err := pkgio.ReadResult(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadResult: %v\n%s", err, out)
	}
	if res.CornerProduct != fixture.DemoCornerProduct {
		t.Errorf("corner product = %d, want %d", res.CornerProduct, fixture.DemoCornerProduct)
	}
	if res.Pattern == nil || res.Pattern.Remaining != fixture.DemoRemaining {
		t.Errorf("pattern = %+v, want %d remaining", res.Pattern, fixture.DemoRemaining)
	}
}

func TestSolveExportsResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if _, err := run(t, "solve", "--demo", "--json", "--no-cache", "-o", path); err != nil {
		t.Fatalf("solve: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	res, err := pkgio.ReadResult(f)
	if err != nil {
		t.Fatalf("ReadResult: %v", err)
	}
	if res.GridSide != fixture.DemoGridSide || len(res.Canvas) != 24 {
		t.Errorf("exported grid side %d with %d canvas rows", res.GridSide, len(res.Canvas))
	}
}

func TestSolveExpectMismatch(t *testing.T) {
	_, err := run(t, "solve", "--demo", "--json", "--expect-remaining", "1")
	if !errors.Is(err, errors.ErrCodeResultMismatch) {
		t.Fatalf("error = %v, want RESULT_MISMATCH", err)
	}
	if ExitCode(err) != ExitMismatch {
		t.Errorf("ExitCode = %d, want %d", ExitCode(err), ExitMismatch)
	}
}

func TestSolveNeedsInput(t *testing.T) {
	if _, err := run(t, "solve", "--json"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
	if _, err := run(t, "solve", "--demo", "tiles.txt"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestSolveCustomPatternNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block.txt")
	if err := os.WriteFile(path, []byte("####\n####\n####\n####\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "solve", "--demo", "--json", "--no-cache", "--pattern", path)
	if !errors.Is(err, errors.ErrCodePatternNotFound) {
		t.Fatalf("error = %v, want PATTERN_NOT_FOUND", err)
	}
	if ExitCode(err) != ExitUnsolved {
		t.Errorf("ExitCode = %d, want %d", ExitCode(err), ExitUnsolved)
	}
}

func TestCornersDemo(t *testing.T) {
	out, err := run(t, "corners", "--demo", "--json", "--no-cache")
	if err != nil {
		t.Fatalf("corners: %v", err)
	}
	res, err := pkgio.ReadResult(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadResult: %v", err)
	}
	if res.CornerProduct != fixture.DemoCornerProduct || res.Pattern != nil || res.Layout != nil {
		t.Errorf("corners result = %+v", res)
	}
}

func TestCanvasText(t *testing.T) {
	out, err := run(t, "canvas", "--demo", "--no-cache")
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	rows := strings.Split(strings.TrimSpace(out), "\n")
	if len(rows) != 24 {
		t.Fatalf("canvas has %d rows, want 24", len(rows))
	}
	if got := strings.Count(out, "O"); got != 2*pattern.Monster.Len() {
		t.Errorf("marked pixels = %d, want %d", got, 2*pattern.Monster.Len())
	}

	plain, err := run(t, "canvas", "--demo", "--no-cache", "--plain")
	if err != nil {
		t.Fatalf("canvas --plain: %v", err)
	}
	if strings.Contains(plain, "O") {
		t.Error("--plain output contains pattern marks")
	}
}

func TestCanvasPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.png")
	if _, err := run(t, "canvas", "--demo", "--no-cache", "--png", "--scale", "2", "-o", path); err != nil {
		t.Fatalf("canvas --png: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("output is not a PNG")
	}

	if _, err := run(t, "canvas", "--demo", "--png"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("--png without -o error = %v, want INVALID_INPUT", err)
	}
}

func TestGraphDOT(t *testing.T) {
	out, err := run(t, "graph", "--demo")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("output does not start a DOT graph:\n%s", out)
	}
	if got := strings.Count(out, " -- "); got != 12 {
		t.Errorf("edges = %d, want 12", got)
	}
	if !strings.Contains(out, "pos=") {
		t.Error("nodes are not pinned")
	}

	free, err := run(t, "graph", "--demo", "--free")
	if err != nil {
		t.Fatalf("graph --free: %v", err)
	}
	if strings.Contains(free, "pos=") {
		t.Error("--free output pins nodes")
	}
}

func TestGenerateThenSolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiles.txt")
	if _, err := run(t, "generate", "--grid", "4", "--size", "12", "--seed", "3", "--monsters", "2", "-o", path); err != nil {
		t.Fatalf("generate: %v", err)
	}

	want, err := generate.Puzzle(4, 12, generate.WithSeed(3), generate.WithDensity(0.2), generate.WithPattern(pattern.Monster, 2))
	if err != nil {
		t.Fatalf("Puzzle: %v", err)
	}
	product := int64(1)
	for _, id := range want.Corners() {
		product *= int64(id)
	}

	out, err := run(t, "corners", path, "--json", "--expect-product", strconv.FormatInt(product, 10))
	if err != nil {
		t.Fatalf("corners: %v\n%s", err, out)
	}
}

func TestGenerateToStdout(t *testing.T) {
	out, err := run(t, "generate", "--grid", "3", "--seed", "8", "--monsters", "0")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	s, err := pkgio.ReadTiles(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadTiles: %v", err)
	}
	if s.Len() != 9 || s.TileSize() != 10 {
		t.Errorf("generated %s", s)
	}
}

func TestGenerateRejectsDensity(t *testing.T) {
	if _, err := run(t, "generate", "--density", "1.5"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestCachePathFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	conf := "[cache]\nbackend = \"sqlite\"\nsqlite_path = \"/data/jigsaw.db\"\n"
	if err := os.WriteFile(cfgPath, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", cfgPath, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != "/data/jigsaw.db" {
		t.Errorf("cache path = %q", out)
	}
}

func TestCanvasModel(t *testing.T) {
	canvas := bitmap.MustParse(
		"#.........",
		".#........",
		"..#.......",
		"...#......",
		"....#.....",
		".....#....",
		"......#...",
		".......#..",
		"........#.",
		".........#",
	)
	diag := pattern.MustNew("#", ".#")
	offsets := pattern.Scan(canvas, diag)
	match := &pattern.Match{
		Orientation: bitmap.Identity,
		Canvas:      canvas,
		Offsets:     offsets,
		Covered:     pattern.Cover(canvas.Size(), diag, offsets),
		Total:       canvas.Count(),
	}

	m := NewCanvasModel(match)
	if !strings.Contains(m.View(), "O") {
		t.Error("marks should be shown by default")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	m = next.(CanvasModel)
	if m.Marks || strings.Contains(m.View(), "O") {
		t.Error("m should hide marks")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	m = next.(CanvasModel)
	if m.Turn != bitmap.Rot90 {
		t.Errorf("Turn = %s, want rot90", m.Turn)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 4, Height: 8})
	m = next.(CanvasModel)
	for range 20 {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(CanvasModel)
	}
	if m.Row != 6 {
		t.Errorf("Row = %d, want clamped to 6", m.Row)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}
