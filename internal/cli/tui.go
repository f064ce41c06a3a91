package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tsalign/tsplot/pkg/statsfile"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// runGroupBrowser opens the interactive group browser.
func runGroupBrowser(ctx context.Context, groups []statsfile.Group, axis, metric string) error {
	model := newGroupListModel(groups, axis, metric)
	_, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// groupListModel is the bubbletea model browsing groups and their per-axis
// breakdown. The detail table always follows the cursor.
type groupListModel struct {
	groups []statsfile.Group
	axis   string
	metric string
	cursor int
	height int
	offset int
}

func newGroupListModel(groups []statsfile.Group, axis, metric string) groupListModel {
	return groupListModel{
		groups: groups,
		axis:   axis,
		metric: metric,
		height: 10,
	}
}

func (m groupListModel) Init() tea.Cmd {
	return nil
}

func (m groupListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.groups)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height/2 - 4
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m groupListModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Groups by %s", m.axis)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.groups) {
		end = len(m.groups)
	}
	for i := m.offset; i < end; i++ {
		g := m.groups[i]
		runs := 0
		for _, p := range g.Points {
			runs += len(p.Samples)
		}
		line := fmt.Sprintf("%-40s %3d points %4d runs", g.Label, len(g.Points), runs)
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.groups))))

	return b.String()
}

// detailView renders the per-point breakdown of the group under the cursor.
func (m groupListModel) detailView() string {
	if len(m.groups) == 0 {
		return ""
	}
	g := m.groups[m.cursor]

	rows := make([][]string, 0, len(g.Points))
	for _, p := range g.Points {
		row := []string{strconv.FormatFloat(p.Key, 'g', -1, 64), strconv.Itoa(len(p.Samples))}
		for _, s := range []statsfile.Statistics{p.Min, p.Median, p.Mean, p.Max} {
			v, err := s.Metric(m.metric)
			if err != nil {
				return listDimStyle.Render(err.Error())
			}
			row = append(row, formatMetric(v))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(strings.ToUpper(m.axis), "RUNS", "MIN", "MEDIAN", "MEAN", "MAX").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			return styleValue
		})

	return t.Render()
}
