package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jigsaw/internal/fixture"
	pkgio "github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/pattern"
	"github.com/matzehuels/jigsaw/pkg/pipeline"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

// solveCommand creates the solve command: reassemble the tiles, search the
// canvas for the pattern and report both answers.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		flags           solveFlags
		jsonOut         bool
		output          string
		expectProduct   int64
		expectRemaining int
	)

	cmd := &cobra.Command{
		Use:   "solve [tiles.txt]",
		Short: "Reassemble a tile file and count the pixels outside the pattern",
		Long: `Solve reads a tile file, works out which tiles share borders, places every
tile on the grid, stitches the interiors into one image and searches it for
the pattern in all eight orientations.

It prints the product of the four corner tile ids and the number of on
pixels not covered by any pattern occurrence. Use --expect-product and
--expect-remaining to fail when the answers differ from known values; with
--demo the known answers of the built-in puzzle are checked automatically.`,
		Example: `  jigsaw solve tiles.txt
  jigsaw solve --demo
  jigsaw solve tiles.txt --policy most --workers 8 --json
  jigsaw solve tiles.txt -o result.json --expect-product 20899048083289`,
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

			want := pipeline.Expect{CornerProduct: expectProduct, Remaining: expectRemaining}
			if flags.demo {
				if !cmd.Flags().Changed("expect-product") {
					want.CornerProduct = fixture.DemoCornerProduct
				}
				if !cmd.Flags().Changed("expect-remaining") && opts.Pattern == pattern.Monster {
					want.Remaining = fixture.DemoRemaining
				}
			}

			res, err := c.runSolve(ctx, s, flags, opts, !jsonOut)
			if err != nil {
				return err
			}

			if output != "" {
				if err := pkgio.ExportResult(res.Summary, output); err != nil {
					return err
				}
			}
			if jsonOut {
				if err := pkgio.WriteResult(cmd.OutOrStdout(), res.Summary); err != nil {
					return err
				}
			} else {
				printSolve(res)
				if output != "" {
					printFile(output)
				}
			}
			return res.Verify(want)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the result as JSON to this file")
	cmd.Flags().Int64Var(&expectProduct, "expect-product", 0, "fail unless the corner product equals this value")
	cmd.Flags().IntVar(&expectRemaining, "expect-remaining", -1, "fail unless the remaining pixel count equals this value")

	return cmd
}

// runSolve runs the full pipeline behind a spinner.
func (c *CLI) runSolve(ctx context.Context, s *tile.Store, flags solveFlags, opts pipeline.Options, spin bool) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if spin {
		spinner = newSpinnerTo(ctx, c.stderr, fmt.Sprintf("Solving %d tiles...", s.Len()))
		spinner.Start()
	}
	res, err := runner.Solve(ctx, s, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Solved %d tiles", s.Len()))
	return res, nil
}

// printSolve prints the answers of a full solve.
func printSolve(res *pipeline.Result) {
	sum := res.Summary
	printSuccess("Reassembled %d tiles", sum.Tiles)
	printNewline()
	printKeyValue("Corners", joinInts(sum.Corners))
	printKeyValue("Product", StyleNumber.Render(fmt.Sprint(sum.CornerProduct)))
	if hit := sum.Pattern; hit != nil {
		printKeyValue("Pattern", fmt.Sprintf("%s occurrences (%s)",
			StyleNumber.Render(fmt.Sprint(len(hit.Occurrences))), hit.Orientation))
		printKeyValue("Remaining", StyleNumber.Render(fmt.Sprint(hit.Remaining)))
	}
	printNewline()
	printStats(sum.Tiles, sum.GridSide, res.CacheInfo.Hit)
}
