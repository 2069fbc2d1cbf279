package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mapscript/mapscript/examples"
	errs "github.com/mapscript/mapscript/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// examplesCommand creates the examples command, which browses the bundled
// example documents.
func (c *CLI) examplesCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "examples [name]",
		Short: "Browse the bundled example documents",
		Long: `Print a bundled example MapScript document.

Without a name, an interactive picker lists the bundled documents. The
selected document is written to stdout or to --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ex examples.Example
			if len(args) == 1 {
				found, ok := examples.Get(args[0])
				if !ok {
					return errs.New(errs.ErrCodeNotFound, "no example named %q", args[0])
				}
				ex = found
			} else {
				picked, err := pickExample()
				if err != nil {
					return err
				}
				if picked == nil {
					return nil // user quit the picker
				}
				ex = *picked
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(ex.Source), 0o644); err != nil {
					return errs.Wrap(errs.ErrCodeStorage, err, "write %s", output)
				}
				printSuccess("wrote %s", ex.Name)
				printFile(output)
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), ex.Source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a file instead of stdout")

	return cmd
}

// pickExample runs the interactive picker and returns the chosen example,
// or nil when the user quit without choosing.
func pickExample() (*examples.Example, error) {
	all := examples.All()
	if len(all) == 0 {
		return nil, errs.New(errs.ErrCodeNotFound, "no bundled examples")
	}

	model := newExampleListModel(all)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}
	return final.(exampleListModel).Selected, nil
}

// =============================================================================
// ExampleListModel - Interactive example selection
// =============================================================================

// exampleListModel is the bubbletea model for the example picker.
type exampleListModel struct {
	Examples []examples.Example
	Cursor   int
	Selected *examples.Example
	Height   int
	Offset   int
}

func newExampleListModel(all []examples.Example) exampleListModel {
	return exampleListModel{
		Examples: all,
		Height:   15,
	}
}

func (m exampleListModel) Init() tea.Cmd {
	return nil
}

func (m exampleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Examples)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			ex := m.Examples[m.Cursor]
			m.Selected = &ex
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m exampleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Example"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Examples) {
		end = len(m.Examples)
	}

	for i := m.Offset; i < end; i++ {
		ex := m.Examples[i]
		line := fmt.Sprintf("%-12s %s", ex.Name, listDimStyle.Render(ex.Title()))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
