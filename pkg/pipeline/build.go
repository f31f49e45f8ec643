package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/funnelchart/pkg/cache"
	"github.com/matzehuels/funnelchart/pkg/funnel"
	"github.com/matzehuels/funnelchart/pkg/observability"
)

// Parse normalizes the raw table into labelled rows.
func Parse(opts Options) (funnel.Input, error) {
	return funnel.FromCells(opts.Table)
}

// Build computes the funnel layout for the options' table and geometry.
// Every call produces a chart with a fresh identifier.
func Build(ctx context.Context, opts Options) (funnel.Layout, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return funnel.Layout{}, err
	}
	in, err := Parse(opts)
	if err != nil {
		return funnel.Layout{}, err
	}
	return buildInput(ctx, in, opts)
}

func buildInput(ctx context.Context, in funnel.Input, opts Options) (funnel.Layout, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnBuildStart(ctx, len(in.Rows))

	layout, err := func() (funnel.Layout, error) {
		chart, err := funnel.Build(in, opts.Config())
		if err != nil {
			return funnel.Layout{}, err
		}
		opts.Logger.Debug("built funnel", "chart", chart.ID(), "rows", chart.Len(), "slope", chart.Slope())
		return chart.Layout()
	}()

	hooks.OnBuildComplete(ctx, len(in.Rows), time.Since(start), err)
	return layout, err
}

// InputHash returns the content hash of normalized input. Tables that
// normalize to the same rows share a hash.
func InputHash(in funnel.Input) string {
	h, _ := cache.HashJSON(in)
	return h
}

// LayoutHash returns the content hash of a computed layout.
func LayoutHash(l funnel.Layout) (string, error) {
	return cache.HashJSON(l)
}
