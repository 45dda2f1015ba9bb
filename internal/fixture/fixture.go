// Package fixture exposes the nine-tile demo puzzle used across tests and
// by the CLI's --demo flag.
package fixture

import (
	_ "embed"
	"strings"

	"github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

//go:embed demo.txt
var demoText string

// Known answers for the demo puzzle.
const (
	DemoCornerProduct int64 = 20899048083289
	DemoRemaining           = 273
	DemoOccurrences         = 2
	DemoGridSide            = 3
	DemoTileSize            = 10
)

// DemoCorners are the corner tile identifiers in ascending order.
var DemoCorners = []tile.ID{1171, 1951, 2971, 3079}

// DemoGrid is one valid arrangement of the demo tiles, up to a whole-grid
// rotation or flip.
var DemoGrid = [][]tile.ID{
	{1951, 2311, 3079},
	{2729, 1427, 2473},
	{2971, 1489, 1171},
}

// DemoText returns the demo puzzle in the tile text format.
func DemoText() string { return demoText }

// Demo parses the demo puzzle. It panics if the embedded file is broken.
func Demo() *tile.Store {
	s, err := io.ReadTiles(strings.NewReader(demoText))
	if err != nil {
		panic("fixture: " + err.Error())
	}
	return s
}
