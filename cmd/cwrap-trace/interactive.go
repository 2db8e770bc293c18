package main

import (
	"fmt"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgelde/cwrap"
	"github.com/mgelde/cwrap/guard"
	"github.com/mgelde/cwrap/mockapi"
	"github.com/mgelde/cwrap/track"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	originStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type uiState int

const (
	stateWatch uiState = iota
	stateLabel
)

type heldGuard = guard.Guard[*mockapi.Resource, cwrap.NoFail[*mockapi.Resource]]

type monitorModel struct {
	err      error
	api      *mockapi.API
	registry *track.Registry
	guards   []*heldGuard
	live     []track.Entry
	status   string
	label    textinput.Model
	spin     spinner.Model
	stats    track.Stats
	state    uiState
}

func newMonitorModel(registry *track.Registry) *monitorModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return &monitorModel{
		api:      mockapi.New(),
		registry: registry,
		spin:     s,
		state:    stateWatch,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *monitorModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, tick())
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateLabel {
			switch msg.String() {
			case "enter":
				label := strings.TrimSpace(m.label.Value())
				if label == "" {
					label = "interactive"
				}
				m.arm(label)
				m.state = stateWatch
				return m, nil
			case "esc":
				m.state = stateWatch
				return m, nil
			default:
				var cmd tea.Cmd
				m.label, cmd = m.label.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.releaseAll()
			return m, tea.Quit

		case "a":
			ti := textinput.New()
			ti.Placeholder = "label"
			ti.Prompt = "label: "
			ti.Width = 24
			ti.Focus()
			m.label = ti
			m.state = stateLabel

		case "r":
			m.releaseNewest()

		case "m":
			m.moveNewest()

		case "l":
			m.abandonOne()
			m.status = "abandoned a guard, press g until the collector finds it"
			m.err = nil

		case "f":
			m.api.FailNext(syscall.EIO)
			m.status = "next acquisition will fail with EIO"
			m.err = nil

		case "g":
			runtime.GC()
			m.status = "forced a collection"
		}

	case tickMsg:
		m.refresh()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *monitorModel) refresh() {
	m.stats = m.registry.Stats()
	m.live = m.registry.Snapshot()
}

func (m *monitorModel) arm(label string) {
	res, err := acquire(m.api)
	if err != nil {
		m.err = err
		m.status = ""
		return
	}
	g := guard.New(cwrap.NoFail[*mockapi.Resource](m.api.FreeResources), res, guard.WithLabel(label))
	m.guards = append(m.guards, g)
	m.err = nil
	m.status = fmt.Sprintf("armed %q", label)
	m.refresh()
}

func (m *monitorModel) releaseNewest() {
	if len(m.guards) == 0 {
		m.status = "no held guards"
		m.err = nil
		return
	}
	g := m.guards[len(m.guards)-1]
	m.guards = m.guards[:len(m.guards)-1]
	if err := g.Release(); err != nil {
		m.err = err
		m.status = ""
	} else {
		m.err = nil
		m.status = "released"
	}
	m.refresh()
}

func (m *monitorModel) moveNewest() {
	if len(m.guards) == 0 {
		m.status = "no held guards"
		m.err = nil
		return
	}
	i := len(m.guards) - 1
	m.guards[i] = m.guards[i].Move()
	m.status = "ownership moved to a fresh guard, identity kept"
	m.err = nil
}

// abandonOne arms a guard that nothing references afterwards. Kept out
// of line so the reference really is gone when it returns.
//
//go:noinline
func (m *monitorModel) abandonOne() {
	res := m.api.CreateAndInitialize()
	guard.New(cwrap.NoFail[*mockapi.Resource](m.api.FreeResources), res, guard.WithLabel("abandoned"))
}

func (m *monitorModel) releaseAll() {
	for _, g := range m.guards {
		g.Release()
	}
	m.guards = nil
}

func (m *monitorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cwrap guard monitor"))
	b.WriteString(" ")
	b.WriteString(m.spin.View())
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("armed %d   released %d   failed %d   leaked %d   live %d   held %d",
		m.stats.Armed, m.stats.Released, m.stats.Failed, m.stats.Leaked, m.stats.Live, len(m.guards)))
	b.WriteString("\n\n")

	if len(m.live) == 0 {
		b.WriteString(helpStyle.Render("no live guards"))
		b.WriteString("\n")
	} else {
		for _, e := range m.live {
			age := time.Since(e.ArmedAt).Round(time.Second)
			b.WriteString(fmt.Sprintf("  #%-4d %s %8s  %s\n",
				e.ID,
				labelStyle.Render(fmt.Sprintf("%-18s", e.Label)),
				age,
				originStyle.Render(e.Origin())))
		}
	}
	b.WriteString("\n")

	if m.state == stateLabel {
		b.WriteString(m.label.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter arm • esc back"))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	} else if m.status != "" {
		b.WriteString(okStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("a arm • r release • m move • l leak • f fail next • g collect • q quit"))
	return b.String()
}

func runInteractive() error {
	registry := track.NewRegistry()
	guard.SetMonitor(registry)
	defer guard.SetMonitor(nil)

	p := tea.NewProgram(newMonitorModel(registry), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
