package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

// turnResultMsg carries the outcome of the agent call back into the
// bubbletea loop and ends it.
type turnResultMsg struct {
	err error
}

// turnSpinnerModel animates a spinner for exactly one in-flight agent
// turn. The call itself runs as the model's start command.
type turnSpinnerModel struct {
	spin    spinner.Model
	label   string
	start   tea.Cmd
	result  error
	settled bool
}

func (m turnSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.start)
}

func (m turnSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case turnResultMsg:
		m.settled = true
		m.result = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m turnSpinnerModel) View() string {
	// Nothing once settled, so the final frame leaves no residue on
	// the prompt line.
	if m.settled {
		return ""
	}
	return m.spin.View() + " " + m.label
}

// runTurnSpinner blocks on send while animating label next to a
// spinner, and returns whatever send returned.
func runTurnSpinner(ctx context.Context, output io.Writer, label string, send func(context.Context) error) error {
	model := turnSpinnerModel{
		spin:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		label: label,
		start: func() tea.Msg { return turnResultMsg{err: send(ctx)} },
	}

	final, err := tea.NewProgram(model,
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return err
	}
	settled, ok := final.(turnSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", final)
	}
	return settled.result
}
