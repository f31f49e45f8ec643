package sink

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/funnelchart/pkg/funnel"
	"github.com/matzehuels/funnelchart/pkg/render/styles"
	"github.com/matzehuels/funnelchart/pkg/reveal"
)

const (
	margin      = 10.0
	titleHeight = 28.0
	// fadeSeconds is how long fill and label take to appear once a
	// segment's outline is complete.
	fadeSeconds = 0.25
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style   styles.Style
	speed   float64
	animate bool
	title   bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithSpeed(pxPerMs float64) SVGOption {
	return func(r *svgRenderer) { r.speed = pxPerMs }
}
func WithoutAnimation() SVGOption { return func(r *svgRenderer) { r.animate = false } }
func WithTitle() SVGOption        { return func(r *svgRenderer) { r.title = true } }

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l funnel.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	top := margin
	title := l.Title()
	if r.title && title != "" {
		top += titleHeight
	}
	width := int(math.Ceil(l.Width + 2*margin))
	height := int(math.Ceil(l.Height + top + margin))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height, fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height))
	if title != "" {
		canvas.Title(title)
	}
	r.style.RenderDefs(canvas)
	canvas.Rect(0, 0, width, height, `fill="#ffffff"`)
	if r.title && title != "" {
		canvas.Text(width/2, int(margin+titleHeight/2), title,
			`font-family="Helvetica, Arial, sans-serif"`, `font-size="16"`, `font-weight="bold"`,
			`fill="#333333"`, `text-anchor="middle"`, `dominant-baseline="central"`)
	}

	canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", styles.Num(margin), styles.Num(top)))
	prefix := idPrefix(l.ID)
	steps := reveal.Plan(l.Segments, r.speed)
	for _, step := range steps {
		seg := styleSegment(prefix, step.Segment)
		if !r.animate {
			r.style.RenderSegment(canvas, seg)
			r.style.RenderLabel(canvas, seg)
			continue
		}
		renderAnimated(canvas, r.style, prefix, seg, step)
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Classic{}, speed: reveal.DefaultSpeed, animate: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		r.style = styles.Classic{}
	}
	return r
}

// renderAnimated draws a segment in its hidden initial state and chains its
// animations to the previous segment's draw-in.
func renderAnimated(canvas *svg.SVG, style styles.Style, prefix string, seg styles.Segment, step reveal.Step) {
	dash := int(math.Ceil(step.Length)) + 1
	style.RenderSegment(canvas, seg,
		fmt.Sprintf(`stroke-dasharray="%d"`, dash),
		fmt.Sprintf(`stroke-dashoffset="%d"`, dash),
		`fill-opacity="0"`,
	)
	style.RenderLabel(canvas, seg, `opacity="0"`)

	begin := "0s"
	if step.Index > 0 {
		begin = drawID(prefix, step.Index-1) + ".end"
	}
	canvas.Animate("#"+seg.ID, "stroke-dashoffset", dash, 0, step.Duration.Seconds(), 1,
		styles.Attr("id", drawID(prefix, step.Index)), styles.Attr("begin", begin), `fill="freeze"`)

	after := drawID(prefix, step.Index) + ".end"
	canvas.Animate("#"+seg.ID, "fill-opacity", 0, 1, fadeSeconds, 1,
		styles.Attr("begin", after), `fill="freeze"`)
	canvas.Animate("#"+seg.ID+"-label", "opacity", 0, 1, fadeSeconds, 1,
		styles.Attr("begin", after), `fill="freeze"`)
}

func styleSegment(prefix string, s funnel.Segment) styles.Segment {
	text := s.Text()
	t := s.Trapezoid
	width := min(t.TopWidth(), t.BottomWidth())
	return styles.Segment{
		ID:       segmentID(prefix, s.Index),
		Index:    s.Index,
		Text:     text,
		Path:     t.PathData(),
		Color:    s.Color,
		X:        s.LabelAnchor.X,
		Y:        s.LabelAnchor.Y,
		Width:    width,
		Height:   t.Height(),
		FontSize: styles.FontSize(width, t.Height(), text),
	}
}

// idPrefix derives element ids from the chart instance id so that several
// funnels can be inlined in one HTML page.
func idPrefix(chartID string) string {
	if len(chartID) > 8 {
		chartID = chartID[:8]
	}
	if chartID == "" {
		return "funnel"
	}
	return "funnel-" + chartID
}

func segmentID(prefix string, i int) string { return fmt.Sprintf("%s-seg%d", prefix, i) }
func drawID(prefix string, i int) string    { return fmt.Sprintf("%s-draw%d", prefix, i) }
