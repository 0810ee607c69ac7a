package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type addressDoneMsg struct {
	address string
}

type statusQueryDoneMsg struct {
	err error
}

// statusProgressModel shows how many addresses have answered and which one
// the command is still waiting on.
type statusProgressModel struct {
	spinner  spinner.Model
	pending  []string
	total    int
	finished int
	query    tea.Cmd
	err      error
	done     bool
}

func newStatusProgressModel(addresses []string, query tea.Cmd) statusProgressModel {
	return statusProgressModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("42"))),
		),
		pending: slices.Clone(addresses),
		total:   len(addresses),
		query:   query,
	}
}

func (m statusProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.query)
}

func (m statusProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case addressDoneMsg:
		if i := slices.Index(m.pending, msg.address); i >= 0 {
			m.pending = slices.Delete(slices.Clone(m.pending), i, i+1)
			m.finished++
		}
		return m, nil
	case statusQueryDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m statusProgressModel) View() string {
	if m.done || len(m.pending) == 0 {
		return ""
	}

	waiting := m.pending[0]
	if more := len(m.pending) - 1; more > 0 {
		waiting = fmt.Sprintf("%s (+%d more)", waiting, more)
	}
	return fmt.Sprintf("%s Querying %d/%d, waiting on %s", m.spinner.View(), m.finished, m.total, waiting)
}

// runStatusProgress animates progress on output while query runs. query calls
// report once per address as soon as that address has an outcome.
func runStatusProgress(ctx context.Context, output io.Writer, addresses []string, query func(ctx context.Context, report func(address string)) error) error {
	var p *tea.Program
	report := func(address string) {
		p.Send(addressDoneMsg{address: address})
	}

	p = tea.NewProgram(
		newStatusProgressModel(addresses, func() tea.Msg {
			return statusQueryDoneMsg{err: query(ctx, report)}
		}),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(statusProgressModel)
	if !ok {
		return fmt.Errorf("unexpected final progress model type %T", finalModel)
	}
	return result.err
}
