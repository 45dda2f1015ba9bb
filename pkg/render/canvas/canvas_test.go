package canvas

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/jigsaw/internal/fixture"
	"github.com/matzehuels/jigsaw/pkg/adjacency"
	"github.com/matzehuels/jigsaw/pkg/assemble"
	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/pattern"
)

var small = bitmap.MustParse(
	"#.",
	".#",
)

func TestImageScale(t *testing.T) {
	img := Image(small, WithScale(3))
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 6 {
		t.Fatalf("bounds = %v, want 6x6", b)
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, DefaultOn},
		{2, 2, DefaultOn},
		{3, 0, DefaultOff},
		{5, 2, DefaultOff},
		{0, 3, DefaultOff},
		{4, 4, DefaultOn},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestImageHighlight(t *testing.T) {
	mask := bitmap.MustParse(
		"##",
		"..",
	)
	img := Image(small, WithScale(1), WithHighlight(mask))
	if got := img.RGBAAt(0, 0); got != DefaultHighlight {
		t.Errorf("covered on pixel = %v, want highlight", got)
	}
	// Highlight never turns an off pixel on.
	if got := img.RGBAAt(1, 0); got != DefaultOff {
		t.Errorf("covered off pixel = %v, want off", got)
	}
	if got := img.RGBAAt(1, 1); got != DefaultOn {
		t.Errorf("uncovered on pixel = %v, want on", got)
	}
}

func TestImageColors(t *testing.T) {
	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	img := Image(small, WithScale(1), WithColors(white, black, black))
	if img.RGBAAt(0, 0) != black || img.RGBAAt(1, 0) != white {
		t.Error("custom colors not applied")
	}
}

func TestWithScalePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("WithScale(0) should panic")
		}
	}()
	WithScale(0)
}

func demoMatch(t *testing.T) *pattern.Match {
	t.Helper()
	s := fixture.Demo()
	m, err := adjacency.Resolve(context.Background(), s, adjacency.Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	l, err := assemble.Place(context.Background(), s, m)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	c, err := assemble.Stitch(s, l)
	if err != nil {
		t.Fatalf("Stitch: %v", err)
	}
	match, err := pattern.Find(context.Background(), c, pattern.Monster, pattern.Options{})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	return match
}

func TestRenderMatchPNG(t *testing.T) {
	data, err := RenderMatchPNG(demoMatch(t), WithScale(2))
	if err != nil {
		t.Fatalf("RenderMatchPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 48 {
		t.Errorf("bounds = %v, want 48x48", b)
	}
}

func TestText(t *testing.T) {
	m := demoMatch(t)
	text := Text(m)
	rows := strings.Split(text, "\n")
	if len(rows) != m.Canvas.Size() {
		t.Fatalf("rows = %d, want %d", len(rows), m.Canvas.Size())
	}
	if got := strings.Count(text, string(Marked)); got != m.Total-m.Remaining {
		t.Errorf("marked pixels = %d, want %d", got, m.Total-m.Remaining)
	}
	if got := strings.Count(text, "#"); got != fixture.DemoRemaining {
		t.Errorf("unmarked on pixels = %d, want %d", got, fixture.DemoRemaining)
	}
}
