// Package sink provides output format renderers for funnel charts.
//
// # Overview
//
// A "sink" transforms a computed [funnel.Layout] into a final output format.
// This package provides renderers for:
//
//   - SVG: Scalable vector graphics with a draw-in reveal animation
//   - JSON: Geometry export for external tools
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws each segment as a path and animates it with SMIL: the
// outline is traced by animating stroke-dashoffset, then the fill and label
// fade in. Segment i+1 begins when segment i's outline animation ends
// (begin="<id>.end"), so the chain is sequential without any script.
// Durations come from [reveal.Plan].
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithStyle(styles.Outline{}),
//	    sink.WithSpeed(reveal.DefaultSpeed),
//	)
//
// # SVG Options
//
//   - [WithStyle]: Visual style ([styles.Classic] or [styles.Outline])
//   - [WithSpeed]: Draw-in speed in pixels per millisecond
//   - [WithoutAnimation]: Render the final state only
//   - [WithTitle]: Show the value column header above the funnel
//
// # JSON Output
//
// [RenderJSON] exports the segments with their polygons, label anchors and
// reveal timing.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render a static SVG and convert it via
// [render.ToPDF] and [render.ToPNG]:
//
//	pdf, err := sink.RenderPDF(ctx, layout, opts...)
//	png, err := sink.RenderPNG(ctx, layout, sink.WithScale(2), opts...)
//
// These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [funnel.Layout]: github.com/matzehuels/funnelchart/pkg/funnel.Layout
// [reveal.Plan]: github.com/matzehuels/funnelchart/pkg/reveal.Plan
// [render.ToPDF]: github.com/matzehuels/funnelchart/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/funnelchart/pkg/render.ToPNG
// [styles.Classic]: github.com/matzehuels/funnelchart/pkg/render/styles.Classic
// [styles.Outline]: github.com/matzehuels/funnelchart/pkg/render/styles.Outline
package sink
