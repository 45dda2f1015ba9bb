package bitmap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmpty is returned by [FromRows] and [Parse] when no rows are given.
	ErrEmpty = errors.New("bitmap must have at least one row")

	// ErrNotSquare is returned by [FromRows] and [Parse] when the row count
	// differs from the length of any row.
	ErrNotSquare = errors.New("bitmap must be square")

	// ErrInvalidPixel is returned by [Parse] for characters other than '#' and '.'.
	ErrInvalidPixel = errors.New("invalid pixel character")
)

// Pixel characters used by [Parse] and [Bitmap.String].
const (
	On  = '#'
	Off = '.'
)

// Bitmap is a square grid of boolean pixels stored in row-major order.
//
// The zero value is an empty 0×0 bitmap.
type Bitmap struct {
	size int
	pix  []bool
}

// New returns an all-off bitmap with the given side length.
// Negative sizes are treated as zero.
func New(size int) *Bitmap {
	if size < 0 {
		size = 0
	}
	return &Bitmap{size: size, pix: make([]bool, size*size)}
}

// FromRows copies rows into a new bitmap.
// Returns ErrEmpty for no rows, or ErrNotSquare if any row length differs from
// the number of rows.
func FromRows(rows [][]bool) (*Bitmap, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	n := len(rows)
	b := New(n)
	for r, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d pixels, want %d", ErrNotSquare, r, len(row), n)
		}
		copy(b.pix[r*n:(r+1)*n], row)
	}
	return b, nil
}

// Parse builds a bitmap from text rows of '#' (on) and '.' (off).
func Parse(rows []string) (*Bitmap, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	n := len(rows)
	b := New(n)
	for r, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d pixels, want %d", ErrNotSquare, r, len(row), n)
		}
		for c := 0; c < n; c++ {
			switch row[c] {
			case On:
				b.pix[r*n+c] = true
			case Off:
			default:
				return nil, fmt.Errorf("%w %q at row %d, column %d", ErrInvalidPixel, row[c], r, c)
			}
		}
	}
	return b, nil
}

// MustParse is like [Parse] but panics on error. Intended for fixtures.
func MustParse(rows ...string) *Bitmap {
	b, err := Parse(rows)
	if err != nil {
		panic(err)
	}
	return b
}

// Size returns the side length.
func (b *Bitmap) Size() int { return b.size }

// At reports whether the pixel at (row, col) is on.
// Coordinates outside the bitmap read as off.
func (b *Bitmap) At(row, col int) bool {
	if row < 0 || col < 0 || row >= b.size || col >= b.size {
		return false
	}
	return b.pix[row*b.size+col]
}

// Set sets the pixel at (row, col). It panics if the coordinates are out of range.
func (b *Bitmap) Set(row, col int, v bool) {
	if row < 0 || col < 0 || row >= b.size || col >= b.size {
		panic(fmt.Sprintf("bitmap: Set(%d, %d) out of range for size %d", row, col, b.size))
	}
	b.pix[row*b.size+col] = v
}

// Count returns the number of on pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, p := range b.pix {
		if p {
			n++
		}
	}
	return n
}

// Equal reports whether both bitmaps have the same size and pixels.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i, p := range b.pix {
		if other.pix[i] != p {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	c := New(b.size)
	copy(c.pix, b.pix)
	return c
}

// Interior returns a copy without the outermost ring of pixels.
// Bitmaps of size 2 or less have an empty interior.
func (b *Bitmap) Interior() *Bitmap {
	if b.size <= 2 {
		return New(0)
	}
	n := b.size - 2
	in := New(n)
	for r := 0; r < n; r++ {
		copy(in.pix[r*n:(r+1)*n], b.pix[(r+1)*b.size+1:(r+1)*b.size+1+n])
	}
	return in
}

// Blit copies src into b with its top-left corner at (row, col).
// Pixels falling outside b are dropped.
func (b *Bitmap) Blit(src *Bitmap, row, col int) {
	for r := 0; r < src.size; r++ {
		dr := row + r
		if dr < 0 || dr >= b.size {
			continue
		}
		for c := 0; c < src.size; c++ {
			dc := col + c
			if dc < 0 || dc >= b.size {
				continue
			}
			b.pix[dr*b.size+dc] = src.pix[r*src.size+c]
		}
	}
}

// Rows returns the pixels as a fresh slice of rows.
func (b *Bitmap) Rows() [][]bool {
	rows := make([][]bool, b.size)
	for r := range rows {
		rows[r] = make([]bool, b.size)
		copy(rows[r], b.pix[r*b.size:(r+1)*b.size])
	}
	return rows
}

// String renders the bitmap as '#'/'.' rows separated by newlines.
func (b *Bitmap) String() string {
	var sb strings.Builder
	sb.Grow(b.size * (b.size + 1))
	for r := 0; r < b.size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.size; c++ {
			if b.pix[r*b.size+c] {
				sb.WriteByte(On)
			} else {
				sb.WriteByte(Off)
			}
		}
	}
	return sb.String()
}
