package bitmap

import "fmt"

// Orientation is one of the 8 symmetries of a square: a number of
// counter-clockwise quarter turns, optionally followed by a horizontal mirror.
type Orientation uint8

const (
	Identity Orientation = iota
	Rot90
	Rot180
	Rot270
	Mirror
	MirrorRot90
	MirrorRot180
	MirrorRot270
)

// All lists every orientation in the fixed scan order used throughout jigsaw.
var All = [8]Orientation{
	Identity, Rot90, Rot180, Rot270,
	Mirror, MirrorRot90, MirrorRot180, MirrorRot270,
}

// Of returns the orientation with the given quarter turns (taken mod 4) and mirror flag.
func Of(rotation int, mirror bool) Orientation {
	r := Orientation(((rotation % 4) + 4) % 4)
	if mirror {
		return Mirror + r
	}
	return r
}

// Rotation returns the number of counter-clockwise quarter turns (0-3).
func (o Orientation) Rotation() int { return int(o % 4) }

// Mirrored reports whether a horizontal mirror follows the rotation.
func (o Orientation) Mirrored() bool { return o >= Mirror && o <= MirrorRot270 }

// Valid reports whether o is one of the 8 defined orientations.
func (o Orientation) Valid() bool { return o <= MirrorRot270 }

// Inverse returns the orientation that undoes o.
// Pure rotations invert to the opposite turn; mirrored orientations are their
// own inverse.
func (o Orientation) Inverse() Orientation {
	if o.Mirrored() {
		return o
	}
	return Of(4-o.Rotation(), false)
}

// String returns a short name such as "rot90" or "mirror+rot180".
func (o Orientation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("orientation(%d)", uint8(o))
	}
	name := "identity"
	if r := o.Rotation(); r > 0 {
		name = fmt.Sprintf("rot%d", r*90)
	}
	if o.Mirrored() {
		if o.Rotation() == 0 {
			return "mirror"
		}
		return "mirror+" + name
	}
	return name
}

// source maps a pixel of the oriented n×n grid back to the untransformed grid.
func (o Orientation) source(n, row, col int) (int, int) {
	if o.Mirrored() {
		col = n - 1 - col
	}
	for i := 0; i < o.Rotation(); i++ {
		row, col = col, n-1-row
	}
	return row, col
}

// Apply returns a transformed copy of b.
func (o Orientation) Apply(b *Bitmap) *Bitmap {
	n := b.size
	out := New(n)
	if o == Identity {
		copy(out.pix, b.pix)
		return out
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			sr, sc := o.source(n, r, c)
			out.pix[r*n+c] = b.pix[sr*n+sc]
		}
	}
	return out
}

// Border returns the pixels b shows on side s once o is applied.
func (o Orientation) Border(b *Bitmap, s Side) Border {
	n := b.size
	out := make(Border, n)
	for k := 0; k < n; k++ {
		var r, c int
		switch s {
		case Top:
			r, c = 0, k
		case Bottom:
			r, c = n-1, k
		case Left:
			r, c = k, 0
		case Right:
			r, c = k, n-1
		}
		sr, sc := o.source(n, r, c)
		out[k] = b.pix[sr*n+sc]
	}
	return out
}

// Borders returns all four borders of b under o.
func (o Orientation) Borders(b *Bitmap) Borders {
	var bs Borders
	for _, s := range Sides {
		bs[s] = o.Border(b, s)
	}
	return bs
}

type sideRef struct {
	side     Side
	reversed bool
}

func (r sideRef) flip() sideRef { return sideRef{r.side, !r.reversed} }

// SourceSide reports which side of the untransformed bitmap appears on side s
// after o is applied, and whether its pixel order is reversed.
func (o Orientation) SourceSide(s Side) (Side, bool) {
	m := [4]sideRef{
		Top:    {Top, false},
		Right:  {Right, false},
		Bottom: {Bottom, false},
		Left:   {Left, false},
	}
	for i := 0; i < o.Rotation(); i++ {
		m = [4]sideRef{
			Top:    m[Right],
			Right:  m[Bottom].flip(),
			Bottom: m[Left],
			Left:   m[Top].flip(),
		}
	}
	if o.Mirrored() {
		m = [4]sideRef{
			Top:    m[Top].flip(),
			Right:  m[Left],
			Bottom: m[Bottom].flip(),
			Left:   m[Right],
		}
	}
	ref := m[s]
	return ref.side, ref.reversed
}

// ParseOrientation is the inverse of [Orientation.String].
func ParseOrientation(s string) (Orientation, error) {
	for _, o := range All {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}
