package root

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1).
			MarginBottom(1)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	AvailableStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// NewTable returns a table with a bold header row. Columns listed in
// centered are center aligned.
func NewTable(headers []string, rows [][]string, centered ...int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			baseStyle := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return baseStyle.Bold(true)
			}
			for _, c := range centered {
				if c == col {
					return baseStyle.AlignHorizontal(lipgloss.Center)
				}
			}
			return baseStyle
		}).
		Rows(rows...)
}

// NewKeyValueTable renders two-column label/value rows.
func NewKeyValueTable(rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			baseStyle := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if col == 0 {
				return baseStyle.Foreground(lipgloss.Color("241"))
			}
			return baseStyle.Bold(true)
		}).
		Rows(rows...)
}
