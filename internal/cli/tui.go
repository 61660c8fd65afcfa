package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/twintree/pkg/pipeline"
)

var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyText = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// =============================================================================
// groupBrowser - Interactive duplicate group browser
// =============================================================================

// groupBrowser is the bubbletea model listing duplicate groups with a
// detail pane for the group under the cursor.
type groupBrowser struct {
	summary *pipeline.Summary
	cursor  int
	height  int
	offset  int
	width   int
}

func newGroupBrowser(s *pipeline.Summary) groupBrowser {
	return groupBrowser{summary: s, height: 12, width: 80}
}

func (m groupBrowser) Init() tea.Cmd {
	return nil
}

func (m groupBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.summary.Groups)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = n - 1
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(msg.Height-14, 3)
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m, nil
}

func (m groupBrowser) View() string {
	var b strings.Builder
	groups := m.summary.Groups

	b.WriteString(StyleTitle.Render("Duplicate Subtrees"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d nodes · %s scheme", m.summary.Nodes, m.summary.Scheme)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(groups))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		g := groups[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(g.Count),
			strconv.Itoa(g.Size),
			truncateKey(g.Key, max(m.width-30, 16)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Count", "Size", "Key").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.offset+row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(groups))))
	b.WriteString("\n\n")
	b.WriteString(m.detail())

	return b.String()
}

// detail renders the selected group's fields.
func (m groupBrowser) detail() string {
	if len(m.summary.Groups) == 0 {
		return ""
	}
	g := m.summary.Groups[m.cursor]
	subtree := g.Subtree
	if subtree == "" {
		subtree = listDimStyle.Render(fmt.Sprintf("(more than %d nodes)", pipeline.PreviewNodes))
	}
	lines := []string{
		detailKeyText.Render("root") + " " + StyleValue.Render(strconv.Itoa(g.Value)),
		detailKeyText.Render("count") + " " + StyleNumber.Render(strconv.Itoa(g.Count)),
		detailKeyText.Render("height") + " " + StyleValue.Render(strconv.Itoa(g.Height)),
		detailKeyText.Render("subtree") + " " + StyleValue.Render(subtree),
	}
	return strings.Join(lines, "\n")
}
