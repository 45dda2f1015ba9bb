package tile

import (
	"testing"

	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/errors"
)

func square(rows ...string) *bitmap.Bitmap { return bitmap.MustParse(rows...) }

func TestNewStore(t *testing.T) {
	s, err := NewStore(map[ID]*bitmap.Bitmap{
		7: square("#..", "...", "..#"),
		3: square("...", ".#.", "..."),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if s.TileSize() != 3 {
		t.Errorf("TileSize() = %d, want 3", s.TileSize())
	}
	if ids := s.IDs(); ids[0] != 3 || ids[1] != 7 {
		t.Errorf("IDs() = %v, want [3 7]", ids)
	}
	if got := s.String(); got != "2 tiles of 3x3" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewStoreRejects(t *testing.T) {
	tests := []struct {
		name   string
		pixels map[ID]*bitmap.Bitmap
	}{
		{"empty", nil},
		{"zero id", map[ID]*bitmap.Bitmap{0: square("...", "...", "...")}},
		{"negative id", map[ID]*bitmap.Bitmap{-1: square("...", "...", "...")}},
		{"nil pixels", map[ID]*bitmap.Bitmap{1: nil}},
		{"too small", map[ID]*bitmap.Bitmap{1: square("..", "..")}},
		{"mixed sizes", map[ID]*bitmap.Bitmap{
			1: square("...", "...", "..."),
			2: square("....", "....", "....", "...."),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.pixels)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("NewStore() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestStoreCopiesInput(t *testing.T) {
	px := square("...", "...", "...")
	s, err := NewStore(map[ID]*bitmap.Bitmap{1: px})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	px.Set(1, 1, true)
	tl, _ := s.Get(1)
	if tl.Pixels.At(1, 1) {
		t.Error("store should not observe mutation of the caller's bitmap")
	}
}

func TestGetUnknown(t *testing.T) {
	s, _ := NewStore(map[ID]*bitmap.Bitmap{1: square("...", "...", "...")})
	if _, err := s.Get(42); !errors.Is(err, errors.ErrCodeUnknownTile) {
		t.Errorf("Get(42) error = %v, want UNKNOWN_TILE", err)
	}
	if _, err := s.Borders(42, bitmap.Identity); !errors.Is(err, errors.ErrCodeUnknownTile) {
		t.Errorf("Borders(42) error = %v, want UNKNOWN_TILE", err)
	}
	if _, err := s.Oriented(42, bitmap.Rot90); !errors.Is(err, errors.ErrCodeUnknownTile) {
		t.Errorf("Oriented(42) error = %v, want UNKNOWN_TILE", err)
	}
}

func TestBorders(t *testing.T) {
	s, _ := NewStore(map[ID]*bitmap.Bitmap{1: square("##.", "...", "..#")})

	bs, err := s.Borders(1, bitmap.Identity)
	if err != nil {
		t.Fatalf("Borders: %v", err)
	}
	want := map[bitmap.Side]string{
		bitmap.Top:    "##.",
		bitmap.Bottom: "..#",
		bitmap.Left:   "#..",
		bitmap.Right:  "..#",
	}
	for side, w := range want {
		if bs[side].String() != w {
			t.Errorf("%s = %s, want %s", side, bs[side], w)
		}
	}

	mirrored, _ := s.Borders(1, bitmap.Mirror)
	if mirrored[bitmap.Top].String() != ".##" {
		t.Errorf("mirrored top = %s, want .##", mirrored[bitmap.Top])
	}
}
