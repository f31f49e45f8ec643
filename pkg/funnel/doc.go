// Package funnel lays out funnel charts as stacked trapezoids whose areas are
// proportional to their values.
//
// # Overview
//
// A funnel chart encodes each stage's value as the *area* of a horizontal
// band, not its height. The bands share a common envelope: a trapezoid whose
// top base is the full frame width and whose bottom base is BottomPercent of
// it. Walking down the envelope, each band takes its share of the total area,
// which fixes how far the band narrows and therefore how tall it is.
//
// # Geometry
//
// For a frame of width W, height H and bottom fraction p:
//
//	slope     = 2H / (W - pW)        // height gained per unit of half-width lost
//	totalArea = (W + pW) * H / 2     // area of the envelope
//
// A band between bases b1 (top) and b2 (bottom) has area slope*(b1² - b2²)/4,
// so the next base is
//
//	b2 = sqrt((slope*b1² - 4*area) / slope)
//
// and the band drops slope*(b1-b2)/2 pixels. [SolveNextBase] implements this
// step and reports [errors.ErrCodeDegenerateGeometry] instead of producing NaN
// coordinates when the radicand goes negative.
//
// # Usage
//
//	in, err := funnel.ParseTable([][]string{
//	    {"Stage", "Candidates"},
//	    {"Applied", "100"},
//	    {"Phone Interview", "80"},
//	    {"Given Offer", "30"},
//	})
//	if err != nil {
//	    return err // INVALID_INPUT_SHAPE: select two columns and at least two rows
//	}
//
//	chart, err := funnel.Build(in, funnel.Config{Width: 400, Height: 250})
//	if err != nil {
//	    return err
//	}
//	segments, err := chart.Segments()
//
// Charts are immutable. Every Build returns a new chart with its own ID, so a
// redraw never shares state with the chart it replaces.
//
// [errors.ErrCodeDegenerateGeometry]: github.com/matzehuels/funnelchart/pkg/errors
package funnel
