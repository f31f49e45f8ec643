package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnelchart/pkg/pipeline"
	"github.com/matzehuels/funnelchart/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	chart   chartFlags
	output  string  // output file path (or base path for multiple outputs)
	formats string  // comma-separated output formats
	static  bool    // render the final state without animation
	title   bool    // draw the value header above the funnel
	scale   float64 // PNG scale factor
	noCache bool    // bypass the render cache
	refresh bool    // recompute and overwrite cache entries
}

// renderCommand creates the render command for generating funnel charts.
//
// Default settings:
//   - format: svg (animated draw-in)
//   - style: classic
//   - size: 600x400, bottom base one third of the width
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a table as a funnel chart",
		Long: `Render a two-column table (label, value) as a funnel chart.

The input may be CSV, TSV, XLSX/XLSM or JSON. If the first row's second
cell is not a number it is treated as a header and skipped.`,
		Example: `  funnelchart render hiring.csv
  funnelchart render report.xlsx --sheet Q3 --range A1:B6 -f svg,png -o q3
  funnelchart render hiring.csv --style outline --speed 2 --title`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.chart.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.static, "static", false, "render the final state without animation")
	cmd.Flags().BoolVar(&opts.title, "title", false, "draw the value column header as a title")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached results")

	return cmd
}

// runRender reads the table, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, ro *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	formats := pipeline.ParseFormats(ro.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	table, err := readTable(ctx, input, &ro.chart)
	if err != nil {
		return err
	}
	opts, err := c.options(ctx, &ro.chart)
	if err != nil {
		return err
	}
	opts.Table = table
	opts.Formats = formats
	opts.Static = ro.static
	opts.Title = ro.title
	opts.Scale = ro.scale
	opts.Refresh = ro.refresh

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spinner *Spinner
	if needsConverter(formats) {
		if !render.Available() {
			printWarning("PNG and PDF output need rsvg-convert (librsvg) on PATH")
		}
		spinner = newSpinnerWithContext(ctx, "Converting with rsvg-convert...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		if err != nil && !spinner.Cancelled() {
			spinner.StopWithError("Rendering failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}

	var written []string
	for _, format := range uniqueFormats(formats) {
		path := outputPath(ro.output, input, format, len(uniqueFormats(formats)))
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", format, "path", path, "bytes", len(result.Artifacts[format]))
		written = append(written, path)
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Segments, result.Stats.Total, result.Stats.RevealDuration,
		result.CacheInfo.BuildHit && result.CacheInfo.RenderHit)
	for _, path := range written {
		printFile(path)
	}
	prog.done("rendered", "files", len(written))

	if !ro.static && slices.Contains(formats, pipeline.FormatSVG) {
		printNextStep("Preview the reveal in the terminal", appName+" preview "+input)
	}
	return nil
}

func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}

func uniqueFormats(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	var out []string
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns where format is written. A single format goes to
// output verbatim when given; otherwise files share the base path.
func outputPath(output, input, format string, count int) string {
	if count == 1 && output != "" && filepath.Ext(output) != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
