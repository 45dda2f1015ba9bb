package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/generate"
	pkgio "github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/pattern"
)

// generateCommand creates the generate command, which writes a random
// puzzle with a known answer.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		grid        int
		size        int
		seed        int64
		monsters    int
		density     float64
		patternFile string
		unscrambled bool
		output      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random puzzle with a known solution",
		Long: `Generate draws a random image, stamps copies of the pattern into it, cuts
it into tiles with unique borders and scrambles every tile. The tiles are
written in the same text format solve reads, and the corner product of the
solution is printed so the solve can be checked.`,
		Example: `  jigsaw generate --grid 12 -o tiles.txt
  jigsaw generate --grid 5 --size 12 --seed 7 --monsters 3 | jigsaw solve /dev/stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			if density < 0 || density > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--density %v is outside [0, 1]", density)
			}
			if monsters < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--monsters must not be negative")
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			p := pattern.Monster
			if patternFile != "" {
				var err error
				if p, err = pkgio.ImportPattern(patternFile); err != nil {
					return err
				}
			}

			opts := []generate.Option{
				generate.WithSeed(seed),
				generate.WithDensity(density),
				generate.WithPattern(p, monsters),
			}
			if unscrambled {
				opts = append(opts, generate.WithoutScramble())
			}
			puzzle, err := generate.Puzzle(grid, size, opts...)
			if err != nil {
				return err
			}
			product := int64(1)
			for _, id := range puzzle.Corners() {
				product *= int64(id)
			}

			if output == "" {
				if err := pkgio.WriteTiles(cmd.OutOrStdout(), puzzle.Tiles); err != nil {
					return err
				}
				c.Logger.Info("generated puzzle", "tiles", puzzle.Tiles.Len(), "seed", seed, "corner_product", product)
				return nil
			}

			if err := pkgio.ExportTiles(puzzle.Tiles, output); err != nil {
				return err
			}
			printSuccess("Generated %d tiles of %dx%d", puzzle.Tiles.Len(), size, size)
			printFile(output)
			printNewline()
			printKeyValue("Seed", StyleNumber.Render(fmt.Sprint(seed)))
			printKeyValue("Product", StyleNumber.Render(fmt.Sprint(product)))
			printKeyValue("Stamped", StyleNumber.Render(fmt.Sprint(len(puzzle.Stamps))))
			printNewline()
			printNextStep("Solve it", fmt.Sprintf("%s solve %s --expect-product %d", appName, output, product))
			return nil
		},
	}

	cmd.Flags().IntVar(&grid, "grid", 3, "tiles per side of the grid")
	cmd.Flags().IntVar(&size, "size", 10, "pixels per side of each tile")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: current time)")
	cmd.Flags().IntVar(&monsters, "monsters", 2, "copies of the pattern to stamp")
	cmd.Flags().Float64Var(&density, "density", 0.2, "probability of a background pixel being on")
	cmd.Flags().StringVar(&patternFile, "pattern", "", "file with the pattern to stamp (default sea monster)")
	cmd.Flags().BoolVar(&unscrambled, "unscrambled", false, "keep tiles upright and numbered 1..N in grid order")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write tiles to this file instead of stdout")

	return cmd
}
