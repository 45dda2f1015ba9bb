package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jigsaw/pkg/adjacency"
	"github.com/matzehuels/jigsaw/pkg/assemble"
	"github.com/matzehuels/jigsaw/pkg/render/nodelink"
)

// graphCommand creates the graph command, which draws the adjacency of the
// tiles as a node-link diagram.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    solveFlags
		output   string
		detailed bool
		free     bool
	)

	cmd := &cobra.Command{
		Use:   "graph [tiles.txt]",
		Short: "Draw which tiles share borders",
		Long: `Graph resolves the adjacency of the tiles and draws it: one box per tile,
colored by whether it is a corner, rim or interior tile, and one line per
shared border. Boxes are pinned at their solved grid cells unless --free is
given.

The output format follows the file extension of -o: .svg is rendered with
Graphviz, anything else (or stdout) gets DOT text.`,
		Example: `  jigsaw graph --demo -o demo.svg
  jigsaw graph tiles.txt --detailed > tiles.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := checkOutput(output); err != nil {
				return err
			}
			s, err := loadTiles(args, flags.demo)
			if err != nil {
				return err
			}
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			m, err := adjacency.Resolve(ctx, s, adjacency.Options{Workers: opts.Workers})
			if err != nil {
				return err
			}
			dotOpts := nodelink.Options{Detailed: detailed}
			if !free {
				if dotOpts.Layout, err = assemble.Place(ctx, s, m); err != nil {
					return err
				}
			}
			dot := nodelink.ToDOT(m, dotOpts)
			prog.done(fmt.Sprintf("Resolved %d borders", len(m.Links())))

			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
				return err
			}
			data := []byte(dot)
			if strings.EqualFold(filepath.Ext(output), ".svg") {
				if data, err = nodelink.RenderSVG(dot); err != nil {
					return err
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Drew %d tiles and %d borders", m.Len(), len(m.Links()))
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg renders, otherwise DOT)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label kinds, orientations and joined sides")
	cmd.Flags().BoolVar(&free, "free", false, "let Graphviz place the boxes instead of pinning them to the grid")

	return cmd
}
