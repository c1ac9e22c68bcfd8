package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"textsum/internal/domain"
	"textsum/internal/evaluation"
	"textsum/internal/pipeline"
)

// Model is the Bubble Tea model for the summary viewer. It shows the produced
// summary with its details; typing a reference summary and pressing Enter
// scores the summary against it.
type Model struct {
	resp     pipeline.Response
	evalCfg  evaluation.Config
	input    textinput.Model
	viewport viewport.Model
	scores   domain.ScoreSet
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(resp pipeline.Response, evalCfg evaluation.Config) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Paste a reference summary and press Enter to score"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{resp: resp, evalCfg: evalCfg, input: ti, viewport: vp, status: "Summary ready."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around the summary and input boxes
		_, sh := summaryBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header + status + input box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-sh)
		m.viewport.SetContent(m.renderContent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			ref := strings.TrimSpace(m.input.Value())
			if ref != "" {
				scores, err := evaluation.ComputeScores([]string{ref}, m.resp.Summary, nil, m.evalCfg)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.scores = nil
				} else {
					m.status = "Scored against reference."
					m.scores = scores
				}
				m.viewport.SetContent(m.renderContent())
				return m, nil
			}
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Text Summarizer")
	body := summaryBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderContent() string {
	var b strings.Builder
	b.WriteString(modeStyle.Render(fmt.Sprintf("mode: %s  chunks: %d", m.resp.Mode, m.resp.Details.ChunkCount)))
	b.WriteString("\n\n")
	b.WriteString(m.resp.Summary)
	if len(m.resp.Details.SourceSentenceIndices) > 0 {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("source sentences: %v", m.resp.Details.SourceSentenceIndices)))
	}
	for _, w := range m.resp.Details.Warnings {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("warning: " + w.String()))
	}
	if len(m.scores) > 0 {
		b.WriteString("\n\n")
		b.WriteString(modeStyle.Render("scores"))
		names := make([]string, 0, len(m.scores))
		for name := range m.scores {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := m.scores[name]
			b.WriteString(fmt.Sprintf("\n%-8s  p=%.3f  r=%.3f  f1=%.3f", name, s.Precision, s.Recall, s.F1))
		}
	}
	return b.String()
}

var (
	summaryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	modeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
