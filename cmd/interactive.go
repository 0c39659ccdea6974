package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhabedank/idea-blueprint/internal/core"
	"github.com/dhabedank/idea-blueprint/internal/history"
	"github.com/dhabedank/idea-blueprint/internal/output"
	"github.com/dhabedank/idea-blueprint/internal/service"
	"github.com/dhabedank/idea-blueprint/internal/tui"
)

// InteractiveCmd runs a prompt loop over one in-memory history.
var InteractiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Explore ideas in an interactive session",
	Long: `Start an interactive session.

Generate blueprints, refine them with a focus area, browse the outline, jump
between earlier generations and export the current one. History is kept for
the session only.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

const sessionHelp = `Commands:
  n [idea]            new idea
  f [focus]           refine the current idea with a focus area
  o                   browse the outline (expand/collapse)
  t <key>             toggle an outline node, e.g. t p1 or t p0.backend.services[0]
  h [index]           pick from history, or jump to an index
  x <name|key>        explore a component or service
  e <format> [path]   export current blueprint (json/markdown/text)
  ?                   show this help
  q                   quit`

func runInteractive(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, true)
	if err != nil {
		return err
	}

	s := &session{
		svc:      rt.svc,
		store:    history.NewStore(),
		expanded: core.DefaultExpanded(),
		in:       bufio.NewReader(cmd.InOrStdin()),
		out:      cmd.OutOrStdout(),
		terminal: isTerminal(cmd.OutOrStdout()),
		wait: func(label string, work func(context.Context) error) error {
			return rt.wait(cmd, label, work)
		},
	}

	fmt.Fprintf(s.out, "%s  %s\n\n%s\n", tui.TitleStyle.Render("idea-blueprint"), tui.ModelStyle.Render(rt.model), tui.HelpStyle.Render(sessionHelp))
	err = s.run(cmd.Context())
	if s.store.Len() > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), rt.meter.Summary())
	}
	return err
}

// session holds the state of one interactive run.
type session struct {
	svc      *service.Service
	store    *history.Store
	expanded core.ExpandedSet
	in       *bufio.Reader
	out      io.Writer
	terminal bool
	wait     func(label string, work func(context.Context) error) error
}

// run reads commands until q or end of input.
func (s *session) run(ctx context.Context) error {
	for {
		line, err := s.prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		quit, err := s.handle(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "%s %v\n", tui.ErrorStyle.Render("✗"), err)
		}
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// prompt writes label and reads one trimmed line.
func (s *session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ask returns arg, or prompts for a value when arg is empty.
func (s *session) ask(arg, label string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	return s.prompt(label)
}

func (s *session) handle(ctx context.Context, line string) (bool, error) {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "":
		return false, nil
	case "q", "quit", "exit":
		return true, nil
	case "?", "help":
		fmt.Fprintln(s.out, sessionHelp)
		return false, nil
	case "n", "new":
		idea, err := s.ask(arg, "Idea: ")
		if err != nil {
			return false, err
		}
		return false, s.generate(ctx, core.GenerationRequest{Idea: idea})
	case "f", "focus":
		current, ok := s.store.Current()
		if !ok {
			return false, errors.New("generate a blueprint first (n)")
		}
		focus, err := s.ask(arg, "Focus area: ")
		if err != nil {
			return false, err
		}
		req := current.Request
		req.FocusArea = &focus
		return false, s.generate(ctx, req)
	case "o", "outline":
		return false, s.browse(ctx)
	case "t", "toggle":
		if _, ok := s.store.Current(); !ok {
			return false, errors.New("generate a blueprint first (n)")
		}
		if arg == "" {
			return false, errors.New("usage: t <key>")
		}
		s.expanded = s.expanded.Toggle(arg)
		s.printOutline()
		return false, nil
	case "h", "history":
		return false, s.history(arg)
	case "x", "explore":
		return false, s.explore(ctx, arg)
	case "e", "export":
		return false, s.export(arg)
	}
	return false, fmt.Errorf("unknown command %q (? for help)", verb)
}

// generate runs a generation and appends it to history on success.
func (s *session) generate(ctx context.Context, req core.GenerationRequest) error {
	var bp *core.Blueprint
	err := s.wait("Generating blueprint", func(ctx context.Context) error {
		var err error
		bp, err = s.svc.Generate(ctx, req)
		return err
	})
	if err != nil {
		return userError(err)
	}

	index, entry := s.store.Append(req.Normalize(), bp)
	s.expanded = core.DefaultExpanded()
	fmt.Fprintf(s.out, "%s #%d %s\n%s\n\n", tui.SuccessStyle.Render("✓"), index, entry.Label(), blueprintStats(bp))
	s.printOutline()
	return nil
}

func (s *session) printOutline() {
	current, ok := s.store.Current()
	if !ok {
		return
	}
	fmt.Fprint(s.out, tui.RenderOutline(core.Outline(current.Blueprint, s.expanded)))
}

func (s *session) browse(ctx context.Context) error {
	current, ok := s.store.Current()
	if !ok {
		return errors.New("generate a blueprint first (n)")
	}
	if !s.terminal {
		s.printOutline()
		return nil
	}

	expanded, picked, err := tui.BrowseOutline(s.out, current.Blueprint, s.expanded)
	if err != nil {
		return err
	}
	s.expanded = expanded
	if picked != "" {
		return s.explore(ctx, picked)
	}
	return nil
}

func (s *session) history(arg string) error {
	if s.store.Len() == 0 {
		return errors.New("history is empty")
	}

	var index int
	switch {
	case arg != "":
		i, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid history index %q", arg)
		}
		index = i
	case s.terminal:
		i, err := tui.PickHistory(s.out, s.store.Entries(), s.store.CurrentIndex())
		if err != nil || i < 0 {
			return err
		}
		index = i
	default:
		for i, e := range s.store.Entries() {
			marker := " "
			if i == s.store.CurrentIndex() {
				marker = "*"
			}
			fmt.Fprintf(s.out, "%s %d. %s\n", marker, i, e.Label())
		}
		return nil
	}

	if err := s.store.Navigate(index); err != nil {
		return err
	}
	s.expanded = core.DefaultExpanded()
	current, _ := s.store.Current()
	fmt.Fprintf(s.out, "%s #%d %s\n", tui.SuccessStyle.Render("→"), index, current.Label())
	s.printOutline()
	return nil
}

// findItem resolves a structural key or a name across all priority levels.
func findItem(bp *core.Blueprint, ref string) (core.ExploredItem, error) {
	if p := core.PriorityOfKey(ref); slices.Contains(core.PriorityKeys, p) {
		return core.FindComponent(bp, p, ref)
	}
	for _, p := range core.PriorityKeys {
		if item, err := core.FindComponent(bp, p, ref); err == nil {
			return item, nil
		}
	}
	return core.ExploredItem{}, fmt.Errorf("no component or service named %q", ref)
}

func (s *session) explore(ctx context.Context, ref string) error {
	current, ok := s.store.Current()
	if !ok {
		return errors.New("generate a blueprint first (n)")
	}
	ref, err := s.ask(ref, "Component or service: ")
	if err != nil {
		return err
	}
	item, err := findItem(current.Blueprint, ref)
	if err != nil {
		return err
	}

	var breakdown *core.ComponentBreakdown
	err = s.wait("Exploring "+item.Request.ComponentName, func(ctx context.Context) error {
		var err error
		breakdown, err = s.svc.Explore(ctx, item.Request)
		return err
	})
	if err != nil {
		return userError(err)
	}
	fmt.Fprintln(s.out, output.ComponentMarkdown(breakdown))
	return nil
}

func (s *session) export(arg string) error {
	current, ok := s.store.Current()
	if !ok {
		return errors.New("generate a blueprint first (n)")
	}
	format, path, _ := strings.Cut(arg, " ")
	adapter, err := output.NewAdapter(format, output.DefaultConfig())
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if err := output.Write(adapter, current.Blueprint, path, s.out); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(s.out, "%s Exported %s to %s\n", tui.SuccessStyle.Render("✓"), adapter.Name(), path)
	}
	return nil
}
