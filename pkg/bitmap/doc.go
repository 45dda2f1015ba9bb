// Package bitmap provides square boolean pixel grids and the eight symmetries
// of a square that act on them.
//
// # Overview
//
// A [Bitmap] is the unit every other jigsaw package works with: tiles are
// bitmaps, the reconstructed canvas is a bitmap, and the Match Set produced by
// pattern search is a bitmap mask over the canvas. Bitmaps are always square
// and stored row-major.
//
// # Orientations
//
// [Orientation] is a closed enumeration of the 8 elements of the dihedral
// group of a square: four counter-clockwise quarter turns, each optionally
// followed by a horizontal mirror. [All] lists them in the fixed order every
// search in jigsaw uses, so results never depend on map iteration or
// goroutine scheduling.
//
//	for _, o := range bitmap.All {
//	    rotated := o.Apply(tile)
//	    ...
//	}
//
// Applying an orientation never creates or destroys pixels; [Orientation.Inverse]
// undoes it.
//
// # Borders
//
// [Orientation.Border] reads one side of a bitmap as it would appear after the
// orientation is applied, without materializing the rotated grid. Top and
// Bottom read left to right; Left and Right read top to bottom.
// [Orientation.SourceSide] answers the inverse question: which side of the
// untransformed bitmap ends up on a given side, and whether it is reversed.
//
// # Concurrency
//
// Bitmaps are not safe for concurrent mutation. Read-only sharing (At, Border,
// Apply) across goroutines is safe once construction is finished.
package bitmap
