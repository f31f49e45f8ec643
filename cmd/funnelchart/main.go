package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnelchart/internal/cli"
	ferrors "github.com/matzehuels/funnelchart/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The level must be known before the config is loaded and subcommands log.
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// formatError prefixes coded errors with their code so scripts can match on it.
func formatError(err error) string {
	code := ferrors.GetCode(err)
	if code == "" {
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("Error [%s]: %s", code, ferrors.UserMessage(err))
}

// exitCode returns 2 for invalid input and 1 for everything else.
func exitCode(err error) int {
	if ferrors.IsValidation(err) {
		return 2
	}
	return 1
}
