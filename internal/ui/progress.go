package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"beaconzone/internal/scan"
)

type bandState uint8

const (
	bandQueued bandState = iota
	bandScanning
	bandClear
	bandFound
)

type gapModel struct {
	title     string
	events    <-chan scan.Progress
	spinner   spinner.Model
	prog      progress.Model
	bands     []bandState
	rowsDone  uint64
	rowsTotal uint64
	width     int
	done      bool
}

type eventMsg scan.Progress
type doneMsg struct{}

// NewGapModel returns a Bubble Tea model that renders the progress of a
// parallel gap search. It quits when events is closed.
func NewGapModel(title string, bands int, rowsTotal uint64, events <-chan scan.Progress) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &gapModel{
		title:     title,
		events:    events,
		spinner:   sp,
		prog:      prog,
		bands:     make([]bandState, max(bands, 0)),
		rowsTotal: rowsTotal,
		width:     80,
	}
}

func (m *gapModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *gapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(scan.Progress(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *gapModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s  %d/%d rows", m.title, m.rowsDone, m.rowsTotal)
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n  ")

	perLine := max(m.width-4, 8)
	for i, st := range m.bands {
		if i > 0 && i%perLine == 0 {
			b.WriteString("\n  ")
		}
		b.WriteString(bandCell(st))
	}
	b.WriteString("\n\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *gapModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *gapModel) applyEvent(ev scan.Progress) tea.Cmd {
	if ev.Band >= len(m.bands) {
		grown := make([]bandState, ev.Band+1)
		copy(grown, m.bands)
		m.bands = grown
	}
	if ev.Band >= 0 {
		switch {
		case ev.Found:
			m.bands[ev.Band] = bandFound
		case ev.BandDone:
			m.bands[ev.Band] = bandClear
		default:
			m.bands[ev.Band] = bandScanning
		}
	}
	if ev.RowsDone > m.rowsDone {
		m.rowsDone = ev.RowsDone
	}
	if ev.RowsTotal > 0 {
		m.rowsTotal = ev.RowsTotal
	}
	if m.rowsTotal == 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.rowsDone) / float64(m.rowsTotal))
}

func bandCell(st bandState) string {
	switch st {
	case bandScanning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Render("▸")
	case bandClear:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("■")
	case bandFound:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).Render("★")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("·")
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, "…")
}
