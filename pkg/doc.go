// Package pkg provides the core libraries for funnelchart.
//
// # Overview
//
// Funnelchart turns a two-column table of stages and values into a funnel
// whose segment areas are proportional to the values, and reveals the
// segments one at a time. The pkg directory is organized into four areas:
//
//  1. [funnel] and [reveal] - Domain logic (geometry, reveal sequencing)
//  2. [source] and [render] - Input readers and output sinks
//  3. [pipeline] and [api] - Orchestration (parse → build → render) and HTTP
//  4. [cache], [settings], [config] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	CSV / XLSX / JSON table
//	         ↓
//	    [source] package (read the bound cell range)
//	         ↓
//	    [funnel] package (validate rows, solve trapezoids)
//	         ↓
//	    [reveal] package (plan and sequence the draw-in)
//	         ↓
//	    SVG/PDF/PNG/JSON output, terminal preview
//
// # Quick Start
//
// Read a table and render an animated SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/funnelchart/pkg/funnel"
//	    "github.com/matzehuels/funnelchart/pkg/render/sink"
//	    "github.com/matzehuels/funnelchart/pkg/source"
//	)
//
//	cells, _ := source.ReadFile(ctx, "hiring.csv", source.Options{})
//	in, _ := funnel.FromCells(cells)
//	chart, _ := funnel.Build(in, funnel.Config{}.WithDefaults())
//	l, _ := chart.Layout()
//	svg := sink.RenderSVG(l)
//
// The [pipeline] package wraps the same steps with validation and caching
// and is shared by the CLI and the HTTP API.
//
// # Main Packages
//
// [funnel] - Proportional-area geometry. Each stage becomes a trapezoid
// under a shared envelope; bases are solved from the area equation.
//
// [reveal] - Step planning (duration = perimeter / speed) and a sequencer
// that starts each step only after the previous one signalled completion.
//
// [source] - CSV, TSV, XLSX and JSON readers with sheet and range selection.
//
// [render] - SVG to PDF/PNG conversion. [render/sink] writes SVG, PDF, PNG
// and JSON; [render/styles] holds the classic and outline styles.
//
// [cache] - File, Redis and no-op caches for geometry and artifacts.
//
// [settings] - Per-document numeric settings in TOML files or MongoDB.
//
// [observability] - Hooks for build, render, reveal, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/funnel/...             # Specific package
//	go test -run Example                 # Examples only
//
// [funnel]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/funnel
// [reveal]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/reveal
// [source]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/source
// [render]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/render/styles
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/api
// [cache]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/cache
// [settings]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/settings
// [config]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/funnelchart/pkg/observability
package pkg
