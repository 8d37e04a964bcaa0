package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hydronet/pkg/hydro"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorShade)
)

// =============================================================================
// TributaryListModel - Interactive tributary selection
// =============================================================================

// tributaryRow is the precomputed display data of one tributary.
type tributaryRow struct {
	Tributary  *hydro.Tributary
	Lake       string
	Reaches    int
	Catchments int
	Structures int
	Length     float64
	Area       float64
}

// TributaryListModel is the bubbletea model for interactive tributary
// selection.
type TributaryListModel struct {
	Rows     []tributaryRow
	Cursor   int
	Selected *hydro.Tributary
	Height   int
	Offset   int
}

// NewTributaryListModel creates a list of the network's tributaries.
func NewTributaryListModel(n *hydro.Network) TributaryListModel {
	var rows []tributaryRow
	for _, t := range n.Tributaries() {
		lake := ""
		if t.Lake() != nil {
			lake = t.Lake().ID()
		}
		rows = append(rows, tributaryRow{
			Tributary:  t,
			Lake:       lake,
			Reaches:    len(t.Reaches()),
			Catchments: len(t.Catchments()),
			Structures: len(t.Structures()),
			Length:     t.LengthAll(),
			Area:       t.AreaAll(),
		})
	}
	return TributaryListModel{Rows: rows, Height: 15}
}

func (m TributaryListModel) Init() tea.Cmd {
	return nil
}

func (m TributaryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) == 0 {
				return m, nil
			}
			m.Selected = m.Rows[m.Cursor].Tributary
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

func (m TributaryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Tributary"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			r.Tributary.ID(),
			r.Lake,
			fmt.Sprint(r.Reaches),
			fmt.Sprint(r.Catchments),
			fmt.Sprint(r.Structures),
			formatQuantity(r.Length),
			formatQuantity(r.Area),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorStone).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorShade)).
		Headers("", "Tributary", "Lake", "Reaches", "Catchments", "Structures", "Length", "Area").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Align(lipgloss.Right)
			}
			if idx == m.Cursor {
				return base.Foreground(colorWater).Bold(true)
			}
			if m.Rows[idx].Structures == 0 {
				return base.Foreground(colorShade)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "browse <input>",
		Short: "Pick a tributary interactively and inspect it",
		Args:  exactInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.network(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}

			model := NewTributaryListModel(result.Network)
			if len(model.Rows) == 0 {
				printInfo("Network has no tributaries")
				return nil
			}
			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if t := final.(TributaryListModel).Selected; t != nil {
				printTributary(t)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// printTributary prints the outlets and structures of t.
func printTributary(t *hydro.Tributary) {
	printNewline()
	printTitle("Tributary " + t.ID())
	printKeyValue("length", StyleNumber.Render(formatQuantity(t.LengthAll())))
	printKeyValue("area", StyleNumber.Render(formatQuantity(t.AreaAll())))

	var outlets []string
	for _, r := range t.Reaches() {
		if r.IsTerminal() {
			outlets = append(outlets, r.ID())
		}
	}
	printKeyValue("outlets", strings.Join(outlets, ", "))

	for _, s := range t.Structures() {
		line := fmt.Sprintf("%-10s %-8s reach %s at %.2f", s.ID(), s.Kind(), s.Reach().ID(), s.Position())
		if b, ok := hydro.BarrierOf(s); ok {
			if cost, ok := b.Cost().Get(); ok {
				line += fmt.Sprintf("  cost %s", formatQuantity(cost))
			}
		}
		printDetail("%s", line)
	}
}
