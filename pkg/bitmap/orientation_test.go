package bitmap

import "testing"

// asymmetric has no non-trivial symmetry, so all 8 orientations differ.
var asymmetric = MustParse(
	"##..",
	"#...",
	"...#",
	".#..",
)

func TestOfRoundTrip(t *testing.T) {
	for _, o := range All {
		if got := Of(o.Rotation(), o.Mirrored()); got != o {
			t.Errorf("Of(%d, %v) = %s, want %s", o.Rotation(), o.Mirrored(), got, o)
		}
	}
	if Of(5, false) != Rot90 {
		t.Errorf("Of(5, false) = %s, want rot90", Of(5, false))
	}
	if Of(-1, true) != MirrorRot270 {
		t.Errorf("Of(-1, true) = %s, want mirror+rot270", Of(-1, true))
	}
}

func TestOrientationString(t *testing.T) {
	tests := map[Orientation]string{
		Identity:     "identity",
		Rot90:        "rot90",
		Rot270:       "rot270",
		Mirror:       "mirror",
		MirrorRot180: "mirror+rot180",
		Orientation(8): "orientation(8)",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestParseOrientation(t *testing.T) {
	for _, o := range All {
		got, err := ParseOrientation(o.String())
		if err != nil || got != o {
			t.Errorf("ParseOrientation(%q) = %v, %v", o.String(), got, err)
		}
	}
	if _, err := ParseOrientation("rot45"); err == nil {
		t.Error("ParseOrientation(rot45) should fail")
	}
}

func TestApplyIdentity(t *testing.T) {
	if got := Identity.Apply(asymmetric); !got.Equal(asymmetric) {
		t.Errorf("Identity.Apply changed the bitmap:\n%s", got)
	}
}

func TestApplyKnownTransforms(t *testing.T) {
	b := MustParse(
		"#..",
		"...",
		"...",
	)
	tests := []struct {
		o    Orientation
		want *Bitmap
	}{
		{Rot90, MustParse("...", "...", "#..")},
		{Rot180, MustParse("...", "...", "..#")},
		{Rot270, MustParse("..#", "...", "...")},
		{Mirror, MustParse("..#", "...", "...")},
		{MirrorRot90, MustParse("...", "...", "..#")},
	}
	for _, tt := range tests {
		t.Run(tt.o.String(), func(t *testing.T) {
			if got := tt.o.Apply(b); !got.Equal(tt.want) {
				t.Errorf("Apply() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestApplyAllDistinct(t *testing.T) {
	seen := make(map[string]Orientation)
	for _, o := range All {
		s := o.Apply(asymmetric).String()
		if prev, dup := seen[s]; dup {
			t.Errorf("%s and %s produce the same grid", prev, o)
		}
		seen[s] = o
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct grids, want 8", len(seen))
	}
}

func TestApplyPreservesPixels(t *testing.T) {
	want := asymmetric.Count()
	for _, o := range All {
		if got := o.Apply(asymmetric).Count(); got != want {
			t.Errorf("%s: Count() = %d, want %d", o, got, want)
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	for _, o := range All {
		back := o.Inverse().Apply(o.Apply(asymmetric))
		if !back.Equal(asymmetric) {
			t.Errorf("%s then %s did not restore the grid:\n%s", o, o.Inverse(), back)
		}
	}
}

func TestBorderMatchesApply(t *testing.T) {
	for _, o := range All {
		applied := o.Apply(asymmetric)
		for _, s := range Sides {
			got := o.Border(asymmetric, s)
			want := Identity.Border(applied, s)
			if !got.Equal(want) {
				t.Errorf("%s %s border = %s, want %s", o, s, got, want)
			}
		}
	}
}

func TestIdentityBorders(t *testing.T) {
	bs := Identity.Borders(asymmetric)
	want := map[Side]string{
		Top:    "##..",
		Bottom: ".#..",
		Left:   "##..",
		Right:  "..#.",
	}
	for s, w := range want {
		if bs[s].String() != w {
			t.Errorf("%s border = %s, want %s", s, bs[s], w)
		}
	}
}

func TestSourceSide(t *testing.T) {
	identity := Identity.Borders(asymmetric)
	for _, o := range All {
		for _, s := range Sides {
			src, reversed := o.SourceSide(s)
			want := identity[src]
			if reversed {
				want = want.Reverse()
			}
			if got := o.Border(asymmetric, s); !got.Equal(want) {
				t.Errorf("%s: %s shows %s, SourceSide says %s (reversed=%v)", o, s, got, src, reversed)
			}
		}
	}
}
