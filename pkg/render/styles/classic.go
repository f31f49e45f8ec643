package styles

import (
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
)

const labelFont = `font-family="Helvetica, Arial, sans-serif"`

// Classic draws filled palette segments with white labels.
type Classic struct{}

// Name implements Style.
func (Classic) Name() string { return "classic" }

// RenderDefs writes the label shadow filter.
func (Classic) RenderDefs(canvas *svg.SVG) {
	canvas.Def()
	fmt.Fprintln(canvas.Writer, `<filter id="label-shadow" x="-10%" y="-10%" width="120%" height="120%">`+
		`<feDropShadow dx="0" dy="1" stdDeviation="1" flood-opacity="0.35"/></filter>`)
	canvas.DefEnd()
}

// RenderSegment implements Style.
func (Classic) RenderSegment(canvas *svg.SVG, s Segment, attrs ...string) {
	base := []string{
		Attr("id", s.ID),
		Attr("fill", s.Color),
		Attr("stroke", s.Color),
		`stroke-width="2"`,
		`stroke-linejoin="round"`,
	}
	canvas.Path(s.Path, append(base, attrs...)...)
}

// RenderLabel implements Style.
func (Classic) RenderLabel(canvas *svg.SVG, s Segment, attrs ...string) {
	base := []string{
		Attr("id", s.ID+"-label"),
		labelFont,
		Attr("font-size", Num(s.FontSize)),
		`font-weight="bold"`,
		`fill="#ffffff"`,
		`filter="url(#label-shadow)"`,
		`text-anchor="middle"`,
		`dominant-baseline="central"`,
	}
	canvas.Text(round(s.X), round(s.Y), TruncateLabel(s.Text, s.Width, s.FontSize), append(base, attrs...)...)
}

func round(f float64) int { return int(math.Round(f)) }
