package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pevans/newsorder"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx)
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the exit status.
func execute(ctx context.Context) int {
	opts := &checkOptions{}
	root := newRootCommand(opts)

	err := root.ExecuteContext(ctx)
	if opts.result != nil {
		return opts.result.ExitCode()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return newsorder.ExitCode(err)
	}
	return newsorder.ExitPass
}

func newRootCommand(opts *checkOptions) *cobra.Command {
	check := newCheckCommand(opts)

	root := &cobra.Command{
		Use:   "newsorder",
		Short: "Check that a news listing is sorted newest to oldest",
		Long: `newsorder loads a news listing, follows its "More" link until enough
items are collected and verifies that they run from newest to oldest.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          check.RunE,
	}
	root.Flags().AddFlagSet(check.Flags())

	root.AddCommand(check)
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsorder version %s\n", version)
		},
	})

	return root
}
