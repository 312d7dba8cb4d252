// Package tui provides a terminal tuning explorer for microtune
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/microtune/pkg/tuning"
)

// Chart range shown for every tuning
const (
	chartFrom = 60 // C4
	chartTo   = 72 // C5
)

var (
	tealGreen  = lipgloss.Color("#2EC4B6")
	amber      = lipgloss.Color("#FF9F1C")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(tealGreen).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(tealGreen).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(amber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	sharpStyle = lipgloss.NewStyle().Foreground(amber)
	flatStyle  = lipgloss.NewStyle().Foreground(tealGreen)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(tealGreen).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateLoading
	StateChart
)

// MenuItem represents a menu option. Divisions is zero for entries that are
// not an equal division.
type MenuItem struct {
	Title       string
	Description string
	Divisions   int
	OpenFile    bool
}

var menuItems = []MenuItem{
	{Title: "12-EDO", Description: "Standard equal temperament", Divisions: 12},
	{Title: "19-EDO", Description: "Close to 1/3-comma meantone", Divisions: 19},
	{Title: "22-EDO", Description: "Superpyth and porcupine temperaments", Divisions: 22},
	{Title: "31-EDO", Description: "Close to 1/4-comma meantone", Divisions: 31},
	{Title: "53-EDO", Description: "Near-just fifths and thirds", Divisions: 53},
	{Title: "Open tuning file", Description: "Load a Scala .scl or AnaMark .tun file", OpenFile: true},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	source       *tuning.Source
	rows         []tuning.Row
	warnings     []error
	err          error
	width        int
	height       int
}

// tuningLoadedMsg signals that a tuning file has been read
type tuningLoadedMsg struct {
	source   *tuning.Source
	warnings []error
	err      error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".scl", ".tun"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(tealGreen)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// the file picker needs to receive every message while it is open
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, loadTuning(path))
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateChart:
			return m.updateChart(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tuningLoadedMsg:
		m.warnings = msg.warnings
		m.showTuning(msg.source, msg.err)
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		item := menuItems[m.menuIndex]
		switch {
		case item.OpenFile:
			m.state = StateFilePicker
			return m, m.filePicker.Init()
		case item.Divisions > 0:
			src, err := tuning.EqualDivision(item.Divisions)
			m.selectedFile = ""
			m.warnings = nil
			m.showTuning(src, err)
			return m, nil
		default:
			return m, tea.Quit
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateChart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.source = nil
		m.rows = nil
		m.warnings = nil
		m.selectedFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// showTuning moves to the chart view for src
func (m *Model) showTuning(src *tuning.Source, err error) {
	m.state = StateChart
	m.source = src
	m.err = err
	m.rows = nil
	if err != nil {
		return
	}
	m.rows, m.err = tuning.Chart(src, chartFrom, chartTo)
}

func loadTuning(path string) tea.Cmd {
	return func() tea.Msg {
		src, warnings, err := tuning.Load(path)
		return tuningLoadedMsg{source: src, warnings: warnings, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateLoading:
		s.WriteString(m.viewLoading())
	case StateChart:
		s.WriteString(m.viewChart())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT TUNING "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(amber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT TUNING FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" LOADING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Reading %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))

	return boxStyle.Render(s.String())
}

func (m Model) viewChart() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Could not use tuning: %s", m.err.Error())))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("Press enter to continue"))
		return boxStyle.Render(s.String())
	}

	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(m.source.Name()))))
	s.WriteString("\n")
	s.WriteString(statusStyle.Render(fmt.Sprintf("%s • %d steps • repeats at %.2f cents", m.source.Kind(), m.source.Len(), m.source.Equave())))
	s.WriteString("\n\n")
	s.WriteString(renderChart(m.rows))

	if len(m.warnings) > 0 {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("%d line(s) skipped:", len(m.warnings))))
		for _, w := range m.warnings {
			s.WriteString("\n  " + w.Error())
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

// renderChart formats chart rows as an aligned table
func renderChart(rows []tuning.Row) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%-5s %9s %10s %10s\n", "NOTE", "12-EDO", "TUNED", "DEVIATION"))
	for _, r := range rows {
		dev := fmt.Sprintf("%+10.2f", r.Deviation)
		switch {
		case r.Deviation > 0.005:
			dev = sharpStyle.Render(dev)
		case r.Deviation < -0.005:
			dev = flatStyle.Render(dev)
		}
		s.WriteString(fmt.Sprintf("%-5s %9.0f %10.2f %s\n", r.Name, r.Cents12, r.Tuned, dev))
	}
	return s.String()
}

func asciiLogo() string {
	logo := `
            _                 _
  _ __ ___ (_) ___ _ __ ___ | |_ _   _ _ __   ___
 | '_ ` + "`" + ` _ \| |/ __| '__/ _ \| __| | | | '_ \ / _ \
 | | | | | | | (__| | | (_) | |_| |_| | | | |  __/
 |_| |_| |_|_|\___|_|  \___/ \__|\__,_|_| |_|\___|
`
	return lipgloss.NewStyle().Foreground(tealGreen).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
