package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/modelkit/internal/model"
	"github.com/san-kum/modelkit/internal/orchestrator"
	"github.com/san-kum/modelkit/internal/report"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var modelInfo = map[model.Kind]string{
	model.KindEconomicA:  "weighted aggregate PKB",
	model.KindEconomicB:  "fixed-weight combination",
	model.KindAgentBased: "stochastic agents",
}

type state int

const (
	stateMenu state = iota
	stateData
	stateResults
	stateScript
)

type app struct {
	orch *orchestrator.Orchestrator
	dir  string

	state  state
	cursor int
	kinds  []model.Kind

	dataFiles  []string
	dataCursor int

	scriptFiles []string
	scriptBuf   string

	status string
	err    error
}

func newApp(orch *orchestrator.Orchestrator, dir string) *app {
	return &app{
		orch:  orch,
		dir:   dir,
		state: stateMenu,
		kinds: orch.Kinds(),
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m app) handleKey(msg tea.KeyMsg) (app, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateData:
		return m.dataKey(msg)
	case stateResults:
		return m.resultsKey(msg)
	case stateScript:
		return m.scriptKey(msg)
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.kinds)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.err = nil
		if err := m.orch.Select(string(m.kinds[m.cursor])); err != nil {
			m.err = err
			return m, nil
		}
		if !m.orch.UsesDataset() {
			m.run()
			return m, nil
		}
		m.dataFiles = listFiles(m.dir, ".txt")
		m.dataCursor = 0
		m.state = stateData
	}
	return m, nil
}

func (m app) dataKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.dataCursor > 0 {
			m.dataCursor--
		}
	case "down", "j":
		if m.dataCursor < len(m.dataFiles)-1 {
			m.dataCursor++
		}
	case "enter", " ":
		if len(m.dataFiles) == 0 {
			m.err = fmt.Errorf("no dataset files in %s", m.dir)
			return m, nil
		}
		m.err = nil
		if err := m.orch.Bind(filepath.Join(m.dir, m.dataFiles[m.dataCursor])); err != nil {
			m.err = err
			return m, nil
		}
		m.run()
	}
	return m, nil
}

func (m app) resultsKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
		m.status = ""
		m.err = nil
	case "r":
		m.run()
	case "e":
		m.scriptBuf = ""
		m.err = nil
		m.state = stateScript
	case "f":
		m.scriptFiles = listFiles(m.dir, ".star")
		if len(m.scriptFiles) == 0 {
			m.err = fmt.Errorf("no .star scripts in %s", m.dir)
			return m, nil
		}
		m.runScriptFile(m.scriptFiles[0])
	}
	return m, nil
}

func (m app) scriptKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = stateResults
	case tea.KeyEnter:
		src := strings.TrimSpace(m.scriptBuf)
		m.state = stateResults
		if src == "" {
			return m, nil
		}
		if err := m.orch.RunScript(context.Background(), strings.ReplaceAll(src, ";", "\n")); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = "ad hoc script applied"
	case tea.KeyBackspace:
		if len(m.scriptBuf) > 0 {
			m.scriptBuf = m.scriptBuf[:len(m.scriptBuf)-1]
		}
	case tea.KeySpace:
		m.scriptBuf += " "
	case tea.KeyRunes:
		m.scriptBuf += string(msg.Runes)
	}
	return m, nil
}

func (m *app) run() {
	if err := m.orch.Run(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = fmt.Sprintf("%s run %d", m.orch.Kind(), m.orch.Runs())
	m.state = stateResults
}

func (m *app) runScriptFile(name string) {
	if err := m.orch.RunScriptFile(context.Background(), filepath.Join(m.dir, name)); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "script " + name + " applied"
}

func (m app) View() string {
	var b strings.Builder
	switch m.state {
	case stateMenu:
		m.viewMenu(&b)
	case stateData:
		m.viewData(&b)
	case stateResults, stateScript:
		m.viewResults(&b)
	}
	if m.err != nil {
		b.WriteString("\n      " + red.Render(m.err.Error()) + "\n")
	}
	return b.String()
}

func (m app) viewMenu(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("m o d e l k i t") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for i, k := range m.kinds {
		name := fmt.Sprintf("%-18s", k)
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(name) + dim.Render(modelInfo[k]) + "\n")
		} else {
			b.WriteString("        " + dim.Render(name) + dimmer.Render(modelInfo[k]) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter run   q quit") + "\n")
}

func (m app) viewData(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(string(m.orch.Kind())) + "  " + dim.Render("select data") + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	if len(m.dataFiles) == 0 {
		b.WriteString("        " + dim.Render("no *.txt datasets in "+m.dir) + "\n")
	}
	for i, name := range m.dataFiles {
		if i == m.dataCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(name) + "\n")
		} else {
			b.WriteString("        " + dim.Render(name) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  enter bind+run  esc back") + "\n")
}

func (m app) viewResults(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(string(m.orch.Kind())) + "  " + dim.Render(m.status) + "\n\n")
	b.WriteString(report.Pretty(m.orch.Table()) + "\n\n")

	if m.state == stateScript {
		b.WriteString("      " + magenta.Render("script> ") + white.Render(m.scriptBuf+"▋") + "\n")
		b.WriteString(dim.Render("      ; separates lines   enter run   esc cancel") + "\n")
		return
	}
	b.WriteString(dim.Render("      r rerun   e ad hoc script   f run first .star file   esc back") + "\n")
}

func listFiles(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Run starts the interactive picker over the datasets and scripts in dir.
func Run(orch *orchestrator.Orchestrator, dir string) error {
	p := tea.NewProgram(newApp(orch, dir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
