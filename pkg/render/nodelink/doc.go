// Package nodelink renders the adjacency of a tile set as a node-link diagram.
//
// # Overview
//
// Every tile becomes a box and every shared border an undirected edge.
// Boxes are colored by [adjacency.Kind], so the four corners, the rim and
// the interior of the grid are easy to tell apart. When a solved
// [assemble.Layout] is supplied, boxes are pinned at their grid cells and
// the diagram reads like the assembled puzzle.
//
// # Usage
//
// Convert a map to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(m, nodelink.Options{Layout: layout, Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: label nodes with their kind and orientation, and edges with
//     the sides they join
//   - Layout: pin nodes at their solved positions
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
