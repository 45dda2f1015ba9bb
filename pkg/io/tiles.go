package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

const maxLine = 1 << 20

type block struct {
	id   tile.ID
	line int
	rows []string
}

// ParseTiles decodes the tile text format from r into bitmaps keyed by ID.
// It checks syntax only; use [ReadTiles] to also validate the set as a store.
func ParseTiles(r io.Reader) (map[tile.ID]*bitmap.Bitmap, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	var (
		blocks []*block
		cur    *block
		n      int
	)
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			cur = nil
		case strings.HasPrefix(line, "Tile "):
			id, err := parseHeader(line)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", n)
			}
			cur = &block{id: id, line: n}
			blocks = append(blocks, cur)
		default:
			if cur == nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat,
					"line %d: pixel row outside a tile block", n)
			}
			if i := strings.IndexFunc(line, notPixel); i >= 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat,
					"line %d: invalid pixel %q in column %d", n, line[i], i+1)
			}
			cur.rows = append(cur.rows, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read tiles")
	}
	if len(blocks) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no tiles found")
	}

	out := make(map[tile.ID]*bitmap.Bitmap, len(blocks))
	for _, b := range blocks {
		if _, dup := out[b.id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"line %d: duplicate tile %d", b.line, b.id)
		}
		if len(b.rows) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"line %d: tile %d has no pixel rows", b.line, b.id)
		}
		px, err := bitmap.Parse(b.rows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
				"line %d: tile %d", b.line, b.id)
		}
		out[b.id] = px
	}
	return out, nil
}

func parseHeader(line string) (tile.ID, error) {
	rest, ok := strings.CutSuffix(strings.TrimPrefix(line, "Tile "), ":")
	if !ok {
		return 0, fmt.Errorf("tile header %q must end with ':'", line)
	}
	id, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, fmt.Errorf("tile header %q: identifier is not a number", line)
	}
	if id <= 0 {
		return 0, fmt.Errorf("tile header %q: identifier must be positive", line)
	}
	return tile.ID(id), nil
}

func notPixel(r rune) bool { return r != bitmap.On && r != bitmap.Off }

// ReadTiles decodes tiles from r and builds a validated store.
// ReadTiles does not close r.
func ReadTiles(r io.Reader) (*tile.Store, error) {
	pixels, err := ParseTiles(r)
	if err != nil {
		return nil, err
	}
	return tile.NewStore(pixels)
}

// ImportTiles reads the tile file at path.
func ImportTiles(path string) (*tile.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadTiles(f)
}

// WriteTiles encodes every tile of s in ascending ID order.
// The output can be re-read with [ReadTiles].
func WriteTiles(w io.Writer, s *tile.Store) error {
	bw := bufio.NewWriter(w)
	for i, id := range s.IDs() {
		t, err := s.Get(id)
		if err != nil {
			return err
		}
		if i > 0 {
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "Tile %d:\n%s\n", id, t.Pixels)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write tiles: %w", err)
	}
	return nil
}

// ExportTiles writes s to a file at path.
func ExportTiles(s *tile.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTiles(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
