// Package canvas renders stitched jigsaw canvases as images and text.
//
// Each pixel of the canvas becomes a square block of Scale×Scale image
// pixels, upscaled with nearest-neighbor sampling from
// [golang.org/x/image/draw] so blocks keep hard edges. Pixels covered by a
// pattern occurrence can be drawn in a highlight color.
//
//	png, err := canvas.RenderPNG(match.Canvas, canvas.WithScale(8), canvas.WithHighlight(match.Covered))
package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/pattern"
)

// Default colors.
var (
	DefaultOff       = color.RGBA{R: 0x0f, G: 0x1e, B: 0x3c, A: 0xff}
	DefaultOn        = color.RGBA{R: 0x9e, G: 0xc5, B: 0xe8, A: 0xff}
	DefaultHighlight = color.RGBA{R: 0xe7, G: 0x6f, B: 0x51, A: 0xff}
)

// DefaultScale is the edge length in image pixels of one canvas pixel.
const DefaultScale = 8

// Marked is the text rune for an on pixel that belongs to a pattern occurrence.
const Marked = 'O'

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	scale     int
	highlight *bitmap.Bitmap
	palette   color.Palette
}

// WithScale sets the image pixels per canvas pixel. Panics below 1.
func WithScale(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("canvas: WithScale(%d) below 1", n))
	}
	return func(r *renderer) { r.scale = n }
}

// WithHighlight draws on pixels that are also set in mask in the highlight color.
func WithHighlight(mask *bitmap.Bitmap) Option {
	return func(r *renderer) { r.highlight = mask }
}

// WithColors overrides the off, on and highlight colors.
func WithColors(off, on, highlight color.Color) Option {
	return func(r *renderer) { r.palette = color.Palette{off, on, highlight} }
}

const (
	idxOff = iota
	idxOn
	idxHighlight
)

// Image draws b, one Scale×Scale block per pixel.
func Image(b *bitmap.Bitmap, opts ...Option) *image.RGBA {
	r := renderer{
		scale:   DefaultScale,
		palette: color.Palette{DefaultOff, DefaultOn, DefaultHighlight},
	}
	for _, opt := range opts {
		opt(&r)
	}

	n := b.Size()
	src := image.NewPaletted(image.Rect(0, 0, n, n), r.palette)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			idx := uint8(idxOff)
			if b.At(y, x) {
				idx = idxOn
				if r.highlight != nil && r.highlight.At(y, x) {
					idx = idxHighlight
				}
			}
			src.SetColorIndex(x, y, idx)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, n*r.scale, n*r.scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// RenderPNG draws b and encodes it as PNG.
func RenderPNG(b *bitmap.Bitmap, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Image(b, opts...)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderMatchPNG draws the oriented canvas of m with its occurrences highlighted.
func RenderMatchPNG(m *pattern.Match, opts ...Option) ([]byte, error) {
	return RenderPNG(m.Canvas, append([]Option{WithHighlight(m.Covered)}, opts...)...)
}

// Text renders the oriented canvas of m as rows of '#' and '.', with pixels
// covered by an occurrence shown as [Marked].
func Text(m *pattern.Match) string {
	n := m.Canvas.Size()
	var sb strings.Builder
	sb.Grow(n * (n + 1))
	for y := 0; y < n; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < n; x++ {
			switch {
			case m.Covered.At(y, x):
				sb.WriteRune(Marked)
			case m.Canvas.At(y, x):
				sb.WriteRune(bitmap.On)
			default:
				sb.WriteRune(bitmap.Off)
			}
		}
	}
	return sb.String()
}
