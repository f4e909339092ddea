package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/steve-maddox/chemevol/internal/evolve"
)

const historyWindow = 200

var (
	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Model replays a finished run step by step, charting the reservoirs
// as the play head advances.
type Model struct {
	result   *evolve.Result
	head     int
	running  bool
	finished bool
}

// NewModel builds a replay over the run's records.
func NewModel(res *evolve.Result) Model {
	return Model{result: res, head: 0, running: true}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.head = 0
			m.running = true
			m.finished = false
		case "[":
			m.running = false
			if m.head > 0 {
				m.head--
			}
		case "]":
			m.running = false
			if m.head < len(m.result.Records)-1 {
				m.head++
			}
		}
	case tickMsg:
		if m.running && !m.finished {
			m.head++
			if m.head >= len(m.result.Records)-1 {
				m.head = len(m.result.Records) - 1
				m.finished = true
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	records := m.result.Records
	if len(records) == 0 {
		return "no records\n"
	}
	rec := records[m.head]

	// Chart the gas reservoir over a sliding window behind the head.
	lo := m.head + 1 - historyWindow
	if lo < 0 {
		lo = 0
	}
	gas := make([]float64, 0, m.head+1-lo)
	for _, r := range records[lo : m.head+1] {
		gas = append(gas, r.GasMass)
	}

	var chart string
	if len(gas) > 1 {
		chart = graphStyle.Render(asciigraph.Plot(gas,
			asciigraph.Height(10), asciigraph.Width(60),
			asciigraph.Caption("gas mass (Msun)")))
	}

	status := "RUNNING"
	switch {
	case m.finished:
		status = strings.ToUpper(m.result.Status.String())
	case !m.running:
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.result.Galaxy.Name)) + "\n")
	s.WriteString(status + "\n\n")
	row := func(label, format string, v float64) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, v)) + "\n")
	}
	row("Time", "%.3f Gyr", rec.Time)
	row("Gas", "%.3e Msun", rec.GasMass)
	row("Stars", "%.3e Msun", rec.StellarMass)
	row("Metals", "%.3e Msun", rec.MetalMass)
	row("Metallicity", "%.2e", rec.Metallicity)
	row("Dust", "%.3e Msun", rec.DustMass)
	row("Dust/metals", "%.3f", rec.DustToMetal)
	row("SFR", "%.3f Msun/yr", rec.SFR)
	s.WriteString(fmt.Sprintf("\nstep %d/%d\n", m.head+1, len(records)))
	s.WriteString(helpStyle.Render("SP:Pause R:Restart [ ]:Step Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, chart, statsStyle.Render(s.String())) + "\n"
}

// Live runs the replay UI until the user quits.
func Live(res *evolve.Result) error {
	_, err := tea.NewProgram(NewModel(res)).Run()
	return err
}
