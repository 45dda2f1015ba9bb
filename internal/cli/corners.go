package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jigsaw/internal/fixture"
	pkgio "github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/pipeline"
)

// cornersCommand creates the corners command, which stops after the
// adjacency stage.
func (c *CLI) cornersCommand() *cobra.Command {
	var (
		flags         solveFlags
		jsonOut       bool
		expectProduct int64
	)

	cmd := &cobra.Command{
		Use:   "corners [tiles.txt]",
		Short: "Find the four corner tiles and print their product",
		Long: `Corners resolves which tiles share borders and reports the four tiles with
exactly two neighbors. It does not place tiles or search for the pattern,
so it is much cheaper than solve.`,
		Example: `  jigsaw corners tiles.txt
  jigsaw corners --demo --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := loadTiles(args, flags.demo)
			if err != nil {
				return err
			}
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Corners(ctx, s, opts)
			if err != nil {
				return err
			}

			if jsonOut {
				if err := pkgio.WriteResult(cmd.OutOrStdout(), res.Summary); err != nil {
					return err
				}
			} else {
				printKeyValue("Corners", joinInts(res.Summary.Corners))
				printKeyValue("Product", StyleNumber.Render(fmt.Sprint(res.CornerProduct())))
				printStats(res.Summary.Tiles, res.Summary.GridSide, res.CacheInfo.Hit)
			}
			want := pipeline.Expect{CornerProduct: expectProduct, Remaining: -1}
			if flags.demo && !cmd.Flags().Changed("expect-product") {
				want.CornerProduct = fixture.DemoCornerProduct
			}
			return res.Verify(want)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().Int64Var(&expectProduct, "expect-product", 0, "fail unless the corner product equals this value")

	return cmd
}
