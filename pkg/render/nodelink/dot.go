package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jigsaw/pkg/adjacency"
	"github.com/matzehuels/jigsaw/pkg/assemble"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds kinds, orientations and joined sides to the labels.
	// When false, only the tile ID is shown.
	Detailed bool
	// Layout pins every node at its grid cell when set.
	Layout *assemble.Layout
}

// Fill colors per tile kind.
var kindColors = map[adjacency.Kind]string{
	adjacency.KindCorner:   "#f4a261",
	adjacency.KindEdge:     "#e9c46a",
	adjacency.KindInterior: "#ffffff",
}

// cellSpacing is the distance between pinned nodes, in inches.
const cellSpacing = 1.6

// ToDOT converts an adjacency map to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(m *adjacency.Map, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=9, fontcolor=grey40];\n")
	buf.WriteString("\n")

	for _, id := range m.IDs() {
		kind, _ := m.Kind(id)
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(id, kind, opts)),
			fmt.Sprintf("fillcolor=%q", kindColors[kind]),
		}
		if opts.Layout != nil {
			if r, c, ok := opts.Layout.Position(id); ok {
				attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"", float64(c)*cellSpacing, float64(-r)*cellSpacing))
			}
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(id), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range m.Links() {
		if opts.Detailed {
			fmt.Fprintf(&buf, "  %s -- %s [taillabel=%q, headlabel=%q];\n", nodeID(l.A), nodeID(l.B), l.SideA, l.SideB)
			continue
		}
		fmt.Fprintf(&buf, "  %s -- %s;\n", nodeID(l.A), nodeID(l.B))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id tile.ID) string {
	return strconv.Quote(strconv.Itoa(int(id)))
}

func fmtLabel(id tile.ID, kind adjacency.Kind, opts Options) string {
	label := strconv.Itoa(int(id))
	if !opts.Detailed {
		return label
	}
	label += "\n" + kind.String()
	if opts.Layout != nil {
		if r, c, ok := opts.Layout.Position(id); ok {
			label += "\n" + opts.Layout.At(r, c).Orientation.String()
		}
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
