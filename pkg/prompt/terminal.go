package prompt

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// TerminalPrompter asks questions with an interactive text input.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminalPrompter creates a prompter bound to a terminal.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{In: in, Out: out}
}

func (p *TerminalPrompter) Ask(ctx context.Context, q Question) (string, error) {
	program := tea.NewProgram(
		newInputModel(q),
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)

	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("asking %q: %w", q.Message, err)
	}

	m, ok := final.(inputModel)
	if !ok {
		return "", fmt.Errorf("asking %q: unexpected model %T", q.Message, final)
	}
	if m.aborted {
		return "", ErrAborted
	}
	return m.answer(), nil
}

type inputModel struct {
	question Question
	input    textinput.Model
	done     bool
	aborted  bool
}

func newInputModel(q Question) inputModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = q.Default
	ti.Focus()
	return inputModel{question: q, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	label := questionStyle.Render(m.question.Message)
	if m.done {
		return label + " " + answerStyle.Render(m.answer()) + "\n"
	}
	if m.aborted {
		return label + "\n"
	}
	return label + " " + m.input.View() + "\n"
}

func (m inputModel) answer() string {
	return orDefault(m.input.Value(), m.question.Default)
}
