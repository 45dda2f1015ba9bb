package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/render/canvas"
)

// canvasCommand creates the canvas command, which prints or renders the
// reassembled image with pattern pixels marked.
func (c *CLI) canvasCommand() *cobra.Command {
	var (
		flags  solveFlags
		output string
		png    bool
		scale  int
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "canvas [tiles.txt]",
		Short: "Print or render the reassembled image",
		Long: `Canvas solves the puzzle and shows the image in the orientation where the
pattern was found. Text output uses '#' and '.' with pattern pixels marked
'O'. With --png the image is rendered as a PNG, pattern pixels highlighted.`,
		Example: `  jigsaw canvas --demo
  jigsaw canvas tiles.txt --png -o canvas.png --scale 12
  jigsaw canvas tiles.txt --plain > canvas.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := checkOutput(output); err != nil {
				return err
			}
			if png && output == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--png needs an output file (-o)")
			}
			s, err := loadTiles(args, flags.demo)
			if err != nil {
				return err
			}
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}
			res, err := c.runSolve(ctx, s, flags, opts, output != "")
			if err != nil {
				return err
			}

			var data []byte
			switch {
			case png && plain:
				data, err = canvas.RenderPNG(res.Match.Canvas, canvas.WithScale(scale))
			case png:
				data, err = canvas.RenderMatchPNG(res.Match, canvas.WithScale(scale))
			case plain:
				data = []byte(res.Match.Canvas.String() + "\n")
			default:
				data = []byte(canvas.Text(res.Match) + "\n")
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered %dx%d canvas", res.Match.Canvas.Size(), res.Match.Canvas.Size())
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&png, "png", false, "render a PNG image")
	cmd.Flags().IntVar(&scale, "scale", canvas.DefaultScale, "image pixels per canvas pixel (with --png)")
	cmd.Flags().BoolVar(&plain, "plain", false, "do not mark pattern pixels")

	return cmd
}
