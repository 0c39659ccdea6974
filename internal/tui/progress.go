package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type workDoneMsg struct{ err error }

// Waiter is a Bubble Tea model that shows a spinner while a model call runs.
// ctrl+c cancels the call and waits for it to return.
type Waiter struct {
	spinner   spinner.Model
	label     string
	model     string
	start     time.Time
	cancel    context.CancelFunc
	run       func() error
	err       error
	done      bool
	cancelled bool
}

// NewWaiter creates a waiter that runs work with a cancellable context.
func NewWaiter(ctx context.Context, label, model string, work func(context.Context) error) *Waiter {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(ctx)
	return &Waiter{
		spinner: s,
		label:   label,
		model:   model,
		start:   time.Now(),
		cancel:  cancel,
		run:     func() error { return work(ctx) },
	}
}

// Init implements tea.Model.
func (w *Waiter) Init() tea.Cmd {
	return tea.Batch(w.spinner.Tick, func() tea.Msg {
		return workDoneMsg{err: w.run()}
	})
}

// Update implements tea.Model.
func (w *Waiter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.cancelled = true
			w.cancel()
		}
		return w, nil

	case workDoneMsg:
		w.done = true
		w.err = msg.err
		w.cancel()
		return w, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}
	return w, nil
}

// View implements tea.Model.
func (w *Waiter) View() string {
	if w.done {
		return ""
	}
	label := w.label
	if w.cancelled {
		label = "Cancelling"
	}
	return fmt.Sprintf("%s %s  %s  %s\n",
		w.spinner.View(),
		NameStyle.Render(label),
		ModelStyle.Render(w.model),
		HelpStyle.Render(time.Since(w.start).Truncate(time.Second).String()),
	)
}

// Err returns the work's error once the waiter has finished.
func (w *Waiter) Err() error { return w.err }

// RunWithSpinner runs work while rendering a spinner to out, then prints a
// completion line. The work's error is returned unchanged.
func RunWithSpinner(ctx context.Context, out io.Writer, label, model string, work func(context.Context) error) error {
	w := NewWaiter(ctx, label, model, work)

	p := tea.NewProgram(w, tea.WithOutput(out))
	if _, err := p.Run(); err != nil && !w.done {
		return fmt.Errorf("progress display failed: %w", err)
	}

	printDone(out, label, w.start, w.err)
	return w.err
}

// RunPlain runs work without a spinner, printing start and completion lines.
// Used when out is not a terminal.
func RunPlain(ctx context.Context, out io.Writer, label, model string, work func(context.Context) error) error {
	fmt.Fprintf(out, "%s %s  %s\n", SpinnerStyle.Render("→"), NameStyle.Render(label), ModelStyle.Render(model))
	start := time.Now()
	err := work(ctx)
	printDone(out, label, start, err)
	return err
}

func printDone(out io.Writer, label string, start time.Time, err error) {
	mark := SuccessStyle.Render("✓")
	if err != nil {
		mark = ErrorStyle.Render("✗")
	}
	fmt.Fprintf(out, "%s %s  %s\n", mark, NameStyle.Render(label), HelpStyle.Render(time.Since(start).Truncate(time.Second).String()))
}
