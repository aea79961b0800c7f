// Package tui provides the interactive progress view shown while a
// benchmark run is in flight.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/ragmark/internal/appconfig"
	"github.com/mwiater/ragmark/internal/runner"
	"github.com/mwiater/ragmark/internal/util"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	queryStyle = lipgloss.NewStyle().Faint(true)
)

type progressMsg runner.Progress

type finishedMsg struct {
	report *runner.Report
	err    error
}

type model struct {
	spinner  spinner.Model
	bar      progress.Model
	done     int
	total    int
	queryID  string
	finished bool
}

func newModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return model{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case progressMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.queryID = msg.QueryID
		return m, nil
	case finishedMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m model) View() string {
	if m.finished {
		return ""
	}
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	line := fmt.Sprintf("%s %s %d/%d", m.spinner.View(), m.bar.ViewAs(percent), m.done, m.total)
	detail := ""
	if m.queryID != "" {
		detail = queryStyle.Render(util.TruncateRunes("evaluating "+m.queryID, 60))
	}
	return titleStyle.Render("ragmark evaluate") + "\n" + line + "\n" + detail + "\n"
}

// RunWithProgress executes the evaluation pipeline behind a progress view
// and returns the finished report.
func RunWithProgress(ctx context.Context, cfg *appconfig.Config) (*runner.Report, error) {
	program := tea.NewProgram(newModel())

	resultCh := make(chan finishedMsg, 1)
	go func() {
		report, err := runner.Run(ctx, cfg, func(p runner.Progress) {
			program.Send(progressMsg(p))
		})
		msg := finishedMsg{report: report, err: err}
		resultCh <- msg
		program.Send(msg)
	}()

	if _, err := program.Run(); err != nil {
		return nil, fmt.Errorf("progress view failed: %w", err)
	}

	result := <-resultCh
	return result.report, result.err
}
