// Package render converts funnel charts into output formats.
//
// The [sink] subpackage produces SVG and JSON directly from computed
// segments; the [styles] subpackage controls how segments look.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). rsvg-convert renders the
// document's initial state, so sinks pass a static (non-animated) SVG:
//
//	svg, err := sink.RenderSVG(segs, sink.WithoutAnimation())
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/funnelchart/pkg/render/sink
// [styles]: github.com/matzehuels/funnelchart/pkg/render/styles
package render
