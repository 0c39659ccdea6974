package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhabedank/idea-blueprint/cmd"
	"github.com/dhabedank/idea-blueprint/internal/version"
)

var appVersion = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "idea-blueprint",
		Short: "Turn product ideas into prioritized technical blueprints",
		Long: `idea-blueprint asks an LLM to break a product idea into a technical
blueprint: an overview, P0/P1/P2 frontend components and backend services,
a data model, and ordered development phases.`,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			if c.Name() == "serve" {
				return
			}
			if version.IsFirstRun() {
				version.PrintFirstRunNotice(c.ErrOrStderr())
			}
		},
		PersistentPostRun: func(c *cobra.Command, args []string) {
			if c.Name() == "serve" {
				return
			}
			version.PrintUpdateNotice(c.ErrOrStderr(), version.CheckForUpdate(c.Context(), appVersion))
		},
	}

	cmd.AddPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		cmd.GenerateCmd,
		cmd.ExploreCmd,
		cmd.InteractiveCmd,
		cmd.ServeCmd,
		cmd.SetupCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
