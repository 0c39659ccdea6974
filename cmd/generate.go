package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhabedank/idea-blueprint/internal/core"
	"github.com/dhabedank/idea-blueprint/internal/output"
	"github.com/dhabedank/idea-blueprint/internal/tui"
)

var (
	focusArea    string
	depth        int
	outputFormat string
	outputPath   string
)

// GenerateCmd turns a product idea into a blueprint.
var GenerateCmd = &cobra.Command{
	Use:   "generate <idea...>",
	Short: "Generate a technical blueprint from a product idea",
	Long: `Generate a prioritized technical blueprint for a product idea.

The blueprint contains:
- An overview of the product
- P0/P1/P2 priority levels with frontend components, backend services and data model
- Ordered development phases

Use --focus to emphasise one area (for example "authentication" or "offline sync").`,
	Example: `  idea-blueprint generate "a habit tracker for remote teams"
  idea-blueprint generate "recipe sharing app" --focus "social features" --format markdown -o plan.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&focusArea, "focus", "f", "", "Area of the product to emphasise")
	GenerateCmd.Flags().IntVar(&depth, "depth", 1, "Breakdown depth")
	GenerateCmd.Flags().StringVar(&outputFormat, "format", "json", "Output format (json/markdown/text)")
	GenerateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to file instead of stdout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Fail on a bad format before spending a model call
	adapter, err := output.NewAdapter(outputFormat, output.DefaultConfig())
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd, true)
	if err != nil {
		return err
	}

	req := core.GenerationRequest{Idea: strings.Join(args, " "), Depth: depth}
	if focusArea != "" {
		req.FocusArea = &focusArea
	}

	bp, err := rt.generate(cmd, req)
	if err != nil {
		return err
	}

	if err := output.Write(adapter, bp, outputPath, cmd.OutOrStdout()); err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	if outputPath != "" {
		fmt.Fprintf(errOut, "%s Blueprint saved to %s\n", tui.SuccessStyle.Render("✓"), outputPath)
	}
	fmt.Fprintln(errOut, blueprintStats(bp))
	fmt.Fprintln(errOut, rt.meter.Summary())
	return nil
}

// generate runs one generation behind a progress display.
func (rt *runtime) generate(cmd *cobra.Command, req core.GenerationRequest) (*core.Blueprint, error) {
	var bp *core.Blueprint
	err := rt.wait(cmd, "Generating blueprint", func(ctx context.Context) error {
		var err error
		bp, err = rt.svc.Generate(ctx, req)
		return err
	})
	if err != nil {
		return nil, userError(err)
	}
	return bp, nil
}

func blueprintStats(bp *core.Blueprint) string {
	components, services, phases := bp.Stats()
	return fmt.Sprintf("  %d components  %d services  %d phases", components, services, phases)
}
