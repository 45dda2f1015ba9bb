package bitmap

// Side names one edge of a square bitmap.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// Sides lists the four sides in clockwise order starting at Top.
var Sides = [4]Side{Top, Right, Bottom, Left}

// String returns the lower-case side name.
func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Opposite returns the side facing s across the bitmap.
func (s Side) Opposite() Side { return (s + 2) & 3 }

// Border is the ordered pixel sequence along one side of a bitmap.
type Border []bool

// Reverse returns a reversed copy.
func (b Border) Reverse() Border {
	r := make(Border, len(b))
	for i, p := range b {
		r[len(b)-1-i] = p
	}
	return r
}

// Equal reports whether both borders hold the same pixels in the same order.
func (b Border) Equal(other Border) bool {
	if len(b) != len(other) {
		return false
	}
	for i, p := range b {
		if other[i] != p {
			return false
		}
	}
	return true
}

// String renders the border as a '#'/'.' string.
func (b Border) String() string {
	out := make([]byte, len(b))
	for i, p := range b {
		if p {
			out[i] = On
		} else {
			out[i] = Off
		}
	}
	return string(out)
}

// Borders holds one border per side, indexed by [Side].
type Borders [4]Border
