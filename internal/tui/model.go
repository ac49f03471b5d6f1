package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bryanwahyu/insight/internal/client"
	domain "github.com/bryanwahyu/insight/internal/domain/analysis"
)

// ChangedMsg tells the program that the controller state moved.
type ChangedMsg struct{}

type analyzedMsg struct{}

// Model is the terminal front-end of a client.Controller.
type Model struct {
	ctrl   *client.Controller
	ctx    context.Context
	export string
	width  int
}

func New(ctx context.Context, ctrl *client.Controller) Model {
	return Model{ctrl: ctrl, ctx: ctx}
}

// Export is the text copied with ctrl+y, if any.
func (m Model) Export() string { return m.export }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case ChangedMsg, analyzedMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.ctrl.State().(type) {
	case client.Idle:
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace:
			m.ctrl.SetInput(m.ctrl.Input() + string(msg.Runes))
		case tea.KeyEnter:
			m.ctrl.SetInput(m.ctrl.Input() + "\n")
		case tea.KeyTab:
			m.ctrl.SetInput(m.ctrl.Input() + "\t")
		case tea.KeyBackspace:
			in := []rune(m.ctrl.Input())
			if len(in) > 0 {
				m.ctrl.SetInput(string(in[:len(in)-1]))
			}
		case tea.KeyCtrlS:
			if m.ctrl.CanAnalyze() {
				return m, m.analyze()
			}
		}
	case client.Results:
		switch msg.Type {
		case tea.KeyCtrlN:
			m.ctrl.Reset()
			m.export = ""
		case tea.KeyCtrlY:
			m.export = m.ctrl.ExportText()
		}
	case client.Failure:
		if msg.Type == tea.KeyEnter {
			m.ctrl.TryAgain()
		}
	}
	return m, nil
}

func (m Model) analyze() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		ctrl.Analyze(ctx)
		return analyzedMsg{}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString("Insight\n\n")

	switch s := m.ctrl.State().(type) {
	case client.Idle:
		b.WriteString("Paste or type the text to analyze:\n\n")
		b.WriteString(m.ctrl.Input())
		b.WriteString("█\n\n")
		if m.ctrl.CanAnalyze() {
			b.WriteString("ctrl+s analyze · ctrl+c quit")
		} else {
			b.WriteString("ctrl+c quit")
		}
	case client.Analyzing:
		fmt.Fprintf(&b, "%s\n", s.PhaseLabel())
	case client.Results:
		r := s.Result
		fmt.Fprintf(&b, "Score: %d/100 (%s)\n", r.Score, domain.ScoreLabel(r.Score))
		fmt.Fprintf(&b, "%d high · %d medium · %d low\n\n",
			r.Count(domain.SeverityHigh), r.Count(domain.SeverityMedium), r.Count(domain.SeverityLow))
		b.WriteString(client.Render(r))
		b.WriteString("\n\n")
		if m.export != "" {
			b.WriteString("Copied; printed on exit.\n")
		}
		b.WriteString("ctrl+n new · ctrl+y copy · ctrl+c quit")
	case client.Failure:
		fmt.Fprintf(&b, "Analysis failed: %s\n\nenter try again · ctrl+c quit", s.Message)
	}
	b.WriteString("\n")
	return b.String()
}
