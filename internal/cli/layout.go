package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnelchart/pkg/pipeline"
)

// layoutCommand creates the layout command, which prints the computed
// segments and optionally writes the geometry as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   chartFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute and print funnel segment geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], &flags, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write geometry JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, flags *chartFlags, output string, noCache bool) error {
	table, err := readTable(ctx, input, flags)
	if err != nil {
		return err
	}
	opts, err := c.options(ctx, flags)
	if err != nil {
		return err
	}
	opts.Table = table
	opts.Formats = []string{pipeline.FormatJSON}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	l := result.Layout
	if title := l.Title(); title != "" {
		fmt.Println(StyleTitle.Render(title))
	}
	fmt.Println(segmentTable(l.Segments))
	printStats(result.Stats.Segments, result.Stats.Total, result.Stats.RevealDuration, result.CacheInfo.BuildHit)
	printKeyValue("canvas", fmt.Sprintf("%gx%g", l.Width, l.Height))
	printKeyValue("bottom", fmt.Sprintf("%.3f of width", l.BottomPercent))

	if output != "" {
		if err := writeOutput(output, result.Artifacts[pipeline.FormatJSON]); err != nil {
			return err
		}
		printFile(output)
	}
	return nil
}
