package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhabedank/idea-blueprint/internal/core"
	"github.com/dhabedank/idea-blueprint/internal/output"
	"github.com/dhabedank/idea-blueprint/internal/tui"
)

var (
	exploreFromJSON     string
	explorePriority     string
	exploreComponent    string
	exploreAll          bool
	exploreParallel     int
	exploreName         string
	exploreDescription  string
	exploreRequirements []string
	exploreType         string
	exploreFormat       string
	exploreOutput       string
)

// ExploreCmd breaks a single component or service down into implementation detail.
var ExploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Explore a component or service in depth",
	Long: `Produce a detailed implementation breakdown for one component or service.

Pick an item from a saved blueprint (--from-json with --component, or --all for
every item of a priority level), or describe it directly with --name,
--description, --requirement and --type.`,
	Example: `  idea-blueprint explore --from-json plan.json --priority p0 --component "Auth Service"
  idea-blueprint explore --from-json plan.json --priority p1 --all --format markdown
  idea-blueprint explore --name Checkout --description "Cart payment" --requirement Stripe --type backend`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

func init() {
	ExploreCmd.Flags().StringVar(&exploreFromJSON, "from-json", "", "Blueprint JSON produced by generate")
	ExploreCmd.Flags().StringVarP(&explorePriority, "priority", "p", "p0", "Priority level (p0/p1/p2)")
	ExploreCmd.Flags().StringVarP(&exploreComponent, "component", "c", "", "Component or service name, or structural key")
	ExploreCmd.Flags().BoolVar(&exploreAll, "all", false, "Explore every component and service of the priority level")
	ExploreCmd.Flags().IntVar(&exploreParallel, "parallel", core.DefaultDrillDownParallelism, "Concurrent model calls with --all")

	ExploreCmd.Flags().StringVar(&exploreName, "name", "", "Component name")
	ExploreCmd.Flags().StringVar(&exploreDescription, "description", "", "Component description")
	ExploreCmd.Flags().StringSliceVar(&exploreRequirements, "requirement", nil, "Requirement (repeatable)")
	ExploreCmd.Flags().StringVar(&exploreType, "type", "frontend", "Component type (frontend/backend)")

	ExploreCmd.Flags().StringVar(&exploreFormat, "format", "json", "Output format (json/markdown)")
	ExploreCmd.Flags().StringVarP(&exploreOutput, "output", "o", "", "Write to file instead of stdout")
}

func runExplore(cmd *cobra.Command, args []string) error {
	if exploreFormat != "json" && exploreFormat != "markdown" && exploreFormat != "md" {
		return fmt.Errorf("unknown explore format: %s (use json, markdown)", exploreFormat)
	}

	var bp *core.Blueprint
	if exploreFromJSON != "" {
		data, err := os.ReadFile(exploreFromJSON)
		if err != nil {
			return fmt.Errorf("failed to read blueprint: %w", err)
		}
		if bp, err = output.ParseJSON(data); err != nil {
			return fmt.Errorf("invalid blueprint %s: %w", exploreFromJSON, err)
		}
	}

	// Resolve the request before building the adapter
	var req core.ComponentRequest
	switch {
	case bp != nil && exploreAll:
	case bp != nil && exploreComponent != "":
		item, err := core.FindComponent(bp, explorePriority, exploreComponent)
		if err != nil {
			return err
		}
		req = item.Request
	case bp != nil:
		return fmt.Errorf("--from-json needs --component or --all")
	case exploreAll || exploreComponent != "":
		return fmt.Errorf("--component and --all need --from-json")
	default:
		req = core.ComponentRequest{
			ComponentName: exploreName,
			Description:   exploreDescription,
			Requirements:  exploreRequirements,
			Type:          exploreType,
			Priority:      explorePriority,
		}
		if err := req.Validate(); err != nil {
			return err
		}
	}

	rt, err := newRuntime(cmd, true)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd, exploreOutput)
	if err != nil {
		return err
	}
	defer closeOut()

	if exploreAll {
		err = exploreLevel(cmd, rt, bp, out)
	} else {
		err = exploreOne(cmd, rt, req, out)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), rt.meter.Summary())
	return nil
}

func exploreOne(cmd *cobra.Command, rt *runtime, req core.ComponentRequest, out io.Writer) error {
	var breakdown *core.ComponentBreakdown
	err := rt.wait(cmd, "Exploring "+req.ComponentName, func(ctx context.Context) error {
		var err error
		breakdown, err = rt.svc.Explore(ctx, req)
		return err
	})
	if err != nil {
		return userError(err)
	}
	return writeBreakdown(out, breakdown)
}

// exploredItem is the JSON shape of one --all result.
type exploredItem struct {
	Key       string                   `json:"key"`
	Name      string                   `json:"name"`
	Breakdown *core.ComponentBreakdown `json:"breakdown,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

func exploreLevel(cmd *cobra.Command, rt *runtime, bp *core.Blueprint, out io.Writer) error {
	items, err := core.ComponentRequests(bp, explorePriority)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%s has no components or services", core.PriorityTitle(strings.ToLower(explorePriority)))
	}

	var result *core.DrillDownResult
	label := fmt.Sprintf("Exploring %d items of %s", len(items), strings.ToUpper(explorePriority))
	err = rt.wait(cmd, label, func(ctx context.Context) error {
		var err error
		result, err = core.DrillDown(ctx, rt.svc, bp, explorePriority, exploreParallel)
		return err
	})
	if err != nil {
		return userError(err)
	}

	for _, item := range result.Items {
		if item.Err != nil {
			msg, _ := core.PublicError(item.Err)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", tui.ErrorStyle.Render("✗"), item.Request.ComponentName, msg)
		}
	}

	if exploreFormat == "json" {
		results := make([]exploredItem, len(result.Items))
		for i, item := range result.Items {
			results[i] = exploredItem{Key: item.Key, Name: item.Request.ComponentName, Breakdown: item.Breakdown}
			if item.Err != nil {
				results[i].Error, _ = core.PublicError(item.Err)
			}
		}
		data, err := output.JSON(results)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	written := 0
	for _, item := range result.Items {
		if item.Breakdown == nil {
			continue
		}
		if written > 0 {
			fmt.Fprint(out, "\n---\n\n")
		}
		fmt.Fprint(out, output.ComponentMarkdown(item.Breakdown))
		written++
	}
	return nil
}

func writeBreakdown(out io.Writer, breakdown *core.ComponentBreakdown) error {
	if exploreFormat != "json" {
		_, err := io.WriteString(out, output.ComponentMarkdown(breakdown))
		return err
	}
	data, err := output.JSON(breakdown)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// openOutput returns stdout, or a created file when path is set.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
