package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/tree"
)

// List styles
var (
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeViewModel - Scrollable tree dump
// =============================================================================

// TreeViewModel is the bubbletea model behind "treegen browse". It pages
// through the dump of a tree.
type TreeViewModel struct {
	Title  string
	Lines  []string
	Offset int
	Height int
}

// NewTreeViewModel creates a viewer for the dump of root.
func NewTreeViewModel(title string, root tree.Node, opts tree.DumpOptions) (TreeViewModel, error) {
	var b strings.Builder
	if err := tree.Dump(&b, root, opts); err != nil {
		return TreeViewModel{}, err
	}
	return TreeViewModel{
		Title:  title,
		Lines:  strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n"),
		Height: 20,
	}, nil
}

func (m TreeViewModel) Init() tea.Cmd {
	return nil
}

func (m TreeViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Offset--
		case "down", "j":
			m.Offset++
		case "pgup", "b":
			m.Offset -= m.Height
		case "pgdown", "f", " ":
			m.Offset += m.Height
		case "home", "g":
			m.Offset = 0
		case "end", "G":
			m.Offset = len(m.Lines)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-4, 3)
	}
	m.Offset = max(min(m.Offset, len(m.Lines)-m.Height), 0)
	return m, nil
}

func (m TreeViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  pgup/pgdn page  g/G top/bottom  q quit"))
	b.WriteString("\n")

	end := min(m.Offset+m.Height, len(m.Lines))
	for _, line := range m.Lines[m.Offset:end] {
		b.WriteString(styleDumpLine(line))
		b.WriteString("\n")
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.Offset+1, end, len(m.Lines))))
	return b.String()
}

// styleDumpLine colors problems red and links blue.
func styleDumpLine(line string) string {
	switch {
	case strings.Contains(line, "!MISSING"):
		return StyleError.Render(line)
	case strings.Contains(line, "-->"):
		return StyleLink.Render(line)
	}
	return listNormalStyle.Render(line)
}

// browseCommand creates the "browse" command.
func (c *CLI) browseCommand() *cobra.Command {
	var opts tree.DumpOptions

	cmd := &cobra.Command{
		Use:   "browse <file>",
		Short: "Page through a tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.readTree(cmd, args)
			if err != nil {
				return err
			}
			m, err := NewTreeViewModel(args[0]+" · "+root.Type(), root, opts)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Annotations, "annotations", "a", nil, "annotation keys to show")
	cmd.Flags().IntVar(&opts.LinkDepth, "link-depth", 1, "how many links deep to expand link targets")

	return cmd
}
