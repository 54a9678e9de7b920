package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spiffcs/gameshell/internal/app"
	"golang.org/x/term"
)

// ErrAborted is returned when the user interrupts the program with ctrl+c
// instead of quitting through the shell.
var ErrAborted = errors.New("aborted")

// Run drives a from a Bubble Tea program until the shell requests exit,
// the user aborts, or ctx is cancelled.
func Run(ctx context.Context, a *app.App, opts ...ModelOption) (app.ExitStatus, error) {
	model := NewModel(a, opts...)
	// Don't use alt screen - render inline
	p := tea.NewProgram(model, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ErrAborted
		}
		return 0, fmt.Errorf("tui: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return 0, fmt.Errorf("tui: unexpected model %T", final)
	}
	if m.aborted {
		return 0, ErrAborted
	}
	status, _ := a.Exit()
	return status, nil
}

// ShouldUseTUI returns true if the TUI should be used based on environment.
func ShouldUseTUI() bool {
	// Check if stdout is a TTY
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}

	// Check for CI environment variables
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"GITLAB_CI",
		"BUILDKITE",
	}

	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return false
		}
	}

	return true
}
