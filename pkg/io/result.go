package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/jigsaw/pkg/pattern"
)

// Result is the serializable summary of a solve.
type Result struct {
	ID            string      `json:"id,omitempty"`
	Tiles         int         `json:"tiles"`
	TileSize      int         `json:"tile_size"`
	GridSide      int         `json:"grid_side"`
	Corners       []int       `json:"corners"`
	CornerProduct int64       `json:"corner_product"`
	Layout        [][]Cell    `json:"layout,omitempty"`
	Canvas        []string    `json:"canvas,omitempty"`
	Pattern       *PatternHit `json:"pattern,omitempty"`
}

// Cell is one placed tile in [Result.Layout].
type Cell struct {
	ID          int    `json:"id"`
	Orientation string `json:"orientation"`
}

// PatternHit describes where the pattern was found.
type PatternHit struct {
	Orientation string          `json:"orientation"`
	Occurrences []pattern.Point `json:"occurrences"`
	Total       int             `json:"total"`
	Remaining   int             `json:"remaining"`
}

// WriteResult encodes res as indented JSON.
func WriteResult(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadResult decodes a result previously written by [WriteResult].
func ReadResult(r io.Reader) (*Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &res, nil
}

// ExportResult writes res to a JSON file at path.
func ExportResult(res *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteResult(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
