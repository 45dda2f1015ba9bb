package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/pattern"
	"github.com/matzehuels/jigsaw/pkg/render/canvas"
)

// viewCommand creates the view command, an interactive canvas viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "view [tiles.txt]",
		Short: "Browse the reassembled image in the terminal",
		Long: `View solves the puzzle and opens the image in a scrollable terminal viewer
with pattern pixels highlighted.

Keys: arrows or hjkl scroll, m toggles pattern marks, o cycles through the
eight orientations, q quits.`,
		Example: `  jigsaw view --demo
  jigsaw view tiles.txt --policy most`,
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
			res, err := c.runSolve(ctx, s, flags, opts, true)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewCanvasModel(res.Match), tea.WithContext(ctx), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// CanvasModel - Interactive canvas viewer
// =============================================================================

// CanvasModel is the bubbletea model for browsing a solved canvas.
type CanvasModel struct {
	Match *pattern.Match

	// Turn is the extra orientation applied on top of Match.Orientation.
	Turn   bitmap.Orientation
	Marks  bool
	Row    int
	Col    int
	Height int
	Width  int

	canvas  *bitmap.Bitmap
	covered *bitmap.Bitmap
}

// NewCanvasModel creates a viewer for m with pattern marks on.
func NewCanvasModel(m *pattern.Match) CanvasModel {
	model := CanvasModel{
		Match:  m,
		Turn:   bitmap.Identity,
		Marks:  true,
		Height: 24,
		Width:  80,
	}
	model.orient()
	return model
}

func (m *CanvasModel) orient() {
	m.canvas = m.Turn.Apply(m.Match.Canvas)
	m.covered = m.Turn.Apply(m.Match.Covered)
}

func (m CanvasModel) Init() tea.Cmd {
	return nil
}

func (m CanvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Row--
		case "down", "j":
			m.Row++
		case "left", "h":
			m.Col--
		case "right", "l":
			m.Col++
		case "m":
			m.Marks = !m.Marks
		case "o":
			m.Turn = bitmap.All[(int(m.Turn)+1)%len(bitmap.All)]
			m.orient()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 4
		m.Width = msg.Width
	}
	m.clamp()
	return m, nil
}

// clamp keeps the scroll offsets inside the canvas.
func (m *CanvasModel) clamp() {
	n := m.canvas.Size()
	m.Row = max(0, min(m.Row, n-max(m.Height, 1)))
	m.Col = max(0, min(m.Col, n-max(m.Width, 1)))
}

func (m CanvasModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Canvas"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %dx%d  found %s  turned %s  %d occurrences  %d remaining",
		m.canvas.Size(), m.canvas.Size(), m.Match.Orientation, m.Turn, m.Match.Occurrences(), m.Match.Remaining)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("arrows/hjkl scroll  m marks  o orientation  q quit"))
	b.WriteString("\n\n")

	n := m.canvas.Size()
	rowEnd := min(n, m.Row+max(m.Height, 1))
	colEnd := min(n, m.Col+max(m.Width, 1))
	for y := m.Row; y < rowEnd; y++ {
		for x := m.Col; x < colEnd; x++ {
			b.WriteString(m.pixel(y, x))
		}
		if y < rowEnd-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m CanvasModel) pixel(y, x int) string {
	switch {
	case m.Marks && m.covered.At(y, x):
		return stylePixelMarked.Render(string(canvas.Marked))
	case m.canvas.At(y, x):
		return stylePixelOn.Render(string(bitmap.On))
	default:
		return stylePixelOff.Render(string(bitmap.Off))
	}
}
