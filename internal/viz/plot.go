// Package viz renders runs in the terminal: static asciigraph charts
// of any result column and a live bubbletea replay of a finished
// evolution.
package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/steve-maddox/chemevol/internal/analysis"
	"github.com/steve-maddox/chemevol/internal/evolve"
)

const (
	plotWidth  = 72
	plotHeight = 16
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	chartStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 2)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Plot renders one named column of a run as an ASCII chart.
func Plot(records []evolve.Record, column string) (string, error) {
	times, values, err := analysis.Column(records, column)
	if err != nil {
		return "", err
	}
	if len(values) < 2 {
		return "", fmt.Errorf("viz: need at least two records to plot, got %d", len(values))
	}

	chart := asciigraph.Plot(values,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(column))

	header := titleStyle.Render(fmt.Sprintf("%s over time", column))
	footer := axisStyle.Render(fmt.Sprintf("t = %.3g .. %.3g Gyr, %d steps",
		times[0], times[len(times)-1], len(times)))
	return header + "\n" + chartStyle.Render(chart) + "\n" + footer + "\n", nil
}
