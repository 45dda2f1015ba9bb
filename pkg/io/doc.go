// Package io reads and writes the text and JSON formats jigsaw exchanges
// with the outside world.
//
// # Tile Format
//
// A tile file is a sequence of blocks, each a header line followed by the
// tile's pixel rows, separated by blank lines:
//
//	Tile 2311:
//	..##.#..#.
//	##..#.....
//	...
//
// Rows use '#' for on and '.' for off. Each block must be square, and every
// tile in a file must have the same size. Parse errors carry the
// INVALID_FORMAT code and name the offending line.
//
// Use [ReadTiles] to read from any io.Reader, or [ImportTiles] to read a file.
// [WriteTiles] produces the same format, so generated puzzles round-trip.
//
// # Pattern Format
//
// A pattern file holds the rows of a sparse template. Only '#' is
// significant; any other character is a wildcard. Trailing blank lines are
// ignored. See [ReadPattern].
//
// # Result Format
//
// [WriteResult] encodes a [Result], the serializable summary of a solve, as
// indented JSON. The same shape is returned by the HTTP API and stored in the
// result cache.
package io
