package styles

import svg "github.com/ajstarks/svgo"

// outlineTint is how far segment fills are lightened toward white.
const outlineTint = 0.8

// Outline draws palette-coloured outlines over a pale fill with dark labels.
type Outline struct{}

// Name implements Style.
func (Outline) Name() string { return "outline" }

// RenderDefs writes nothing.
func (Outline) RenderDefs(*svg.SVG) {}

// RenderSegment implements Style.
func (Outline) RenderSegment(canvas *svg.SVG, s Segment, attrs ...string) {
	base := []string{
		Attr("id", s.ID),
		Attr("fill", Tint(s.Color, outlineTint)),
		Attr("stroke", s.Color),
		`stroke-width="2.5"`,
		`stroke-linejoin="round"`,
	}
	canvas.Path(s.Path, append(base, attrs...)...)
}

// RenderLabel implements Style.
func (Outline) RenderLabel(canvas *svg.SVG, s Segment, attrs ...string) {
	base := []string{
		Attr("id", s.ID+"-label"),
		labelFont,
		Attr("font-size", Num(s.FontSize)),
		`fill="#333333"`,
		`text-anchor="middle"`,
		`dominant-baseline="central"`,
	}
	canvas.Text(round(s.X), round(s.Y), TruncateLabel(s.Text, s.Width, s.FontSize), append(base, attrs...)...)
}
