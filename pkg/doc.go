// Package pkg provides the libraries behind the jigsaw solver.
//
// # Overview
//
// Jigsaw reassembles a square image from tiles that were shuffled, rotated
// and mirrored, then searches the image for a pattern. The pkg directory is
// organized into three areas:
//
//  1. Domain logic: [bitmap], [tile], [adjacency], [assemble], [pattern]
//  2. Orchestration: [pipeline] (resolve → assemble → search, with caching)
//  3. Infrastructure: [cache], [config], [io], [render], [server],
//     [observability], [errors], [buildinfo], [generate]
//
// # Architecture
//
// The typical data flow:
//
//	tile text
//	    ↓
//	[io] package (parse tiles into a [tile.Store])
//	    ↓
//	[adjacency] package (which borders match, corner tiles)
//	    ↓
//	[assemble] package (place every tile, stitch the canvas)
//	    ↓
//	[pattern] package (search all eight orientations)
//	    ↓
//	JSON / text / PNG / SVG output
//
// # Quick Start
//
//	s, _ := io.ImportTiles("tiles.txt")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := runner.Solve(ctx, s, pipeline.Options{Workers: 4})
//	fmt.Println(res.CornerProduct(), res.Remaining())
//
// # Main Packages
//
//   - [bitmap]: square pixel grids, the eight orientations and borders
//   - [tile]: the validated, immutable tile set
//   - [adjacency]: border matching and tile classification
//   - [assemble]: placement and stitching
//   - [pattern]: patterns and the orientation search
//   - [pipeline]: the cached end-to-end solve used by the CLI and server
//   - [cache]: file, SQLite, Redis and null result caches
//   - [render]: node-link diagrams and canvas images
//   - [server]: the HTTP API
//   - [generate]: random puzzles with known answers
package pkg
