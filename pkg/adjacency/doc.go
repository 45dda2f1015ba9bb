// Package adjacency discovers which tiles can sit next to each other.
//
// # Overview
//
// Two tiles are neighbors when a border of one equals a border of the other,
// read forwards or backwards (the other tile may be mirrored). [Resolve]
// compares every ordered pair of tiles once, using each tile's four borders in
// its original orientation against the eight candidate sequences of the other
// tile, and records the match on the side that produced it.
//
// Only relative matching matters at this stage, so no tile is rotated. The
// result is a [Map] from tile to [Neighbors], a fixed array indexed by
// [bitmap.Side] in the tile's own frame.
//
// # Validation
//
// Resolve is strict: the input must admit exactly one square tiling.
//
//   - A tile count that is not a perfect square fails before any comparison.
//   - A side matching two different tiles fails with AMBIGUOUS_ADJACENCY.
//   - A one-sided link, or a neighbor count outside {2, 3, 4}, or a corner /
//     edge / interior distribution that does not fit an R×R grid fails with
//     INVALID_ARRANGEMENT.
//
// # Concurrency
//
// Each tile's scan is independent and reads the store only, so [Options.Workers]
// can spread scans across goroutines. Every worker writes its own result slot;
// the links are validated by a single goroutine afterwards. The resulting Map
// is identical to a sequential run.
//
// Complexity is O(T²) border comparisons for T tiles, which is fine for the
// tens to low hundreds of tiles a puzzle has.
package adjacency
