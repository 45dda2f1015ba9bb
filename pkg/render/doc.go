// Package render groups the visual outputs of a jigsaw solve.
//
// # Overview
//
// Two subpackages turn solver results into pictures:
//
//   - [nodelink]: the adjacency of the tiles as a Graphviz node-link diagram
//   - [canvas]: the stitched canvas as PNG or text, with pattern
//     occurrences highlighted
//
// # Node-Link Diagrams
//
//	dot := nodelink.ToDOT(m, nodelink.Options{Layout: layout})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Canvas Images
//
//	png, err := canvas.RenderMatchPNG(match, canvas.WithScale(8))
//	fmt.Println(canvas.Text(match))
//
// [nodelink]: github.com/matzehuels/jigsaw/pkg/render/nodelink
// [canvas]: github.com/matzehuels/jigsaw/pkg/render/canvas
package render
