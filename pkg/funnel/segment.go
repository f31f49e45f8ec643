package funnel

// Palette is the qualitative colour cycle used for segments (d3 category10).
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ColorAt returns the palette colour for segment i, cycling after ten.
func ColorAt(i int) string {
	return Palette[i%len(Palette)]
}

// Segment is a trapezoid with everything a renderer needs to draw and
// annotate it.
type Segment struct {
	Index     int       `json:"index"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	Share     float64   `json:"share"`
	Color     string    `json:"color"`
	Trapezoid Trapezoid `json:"trapezoid"`
	// LabelAnchor is where the annotation is centred: the horizontal centre
	// at the vertical midpoint between both bases.
	LabelAnchor Point `json:"label_anchor"`
}

// Text returns the annotation shown on the segment.
func (s Segment) Text() string {
	return s.Label + ": " + FormatValue(s.Value)
}

// Segments computes the trapezoids and attaches labels, values, shares and
// colours, in input order.
func (c *Chart) Segments() ([]Segment, error) {
	traps, err := c.ComputeTrapezoids()
	if err != nil {
		return nil, err
	}
	segs := make([]Segment, len(traps))
	for i, t := range traps {
		segs[i] = Segment{
			Index:       i,
			Label:       c.rows[i].Label,
			Value:       c.rows[i].Value,
			Share:       c.rows[i].Value / c.totalEngagement,
			Color:       ColorAt(i),
			Trapezoid:   t,
			LabelAnchor: Point{X: t.CenterX(), Y: t.MidY()},
		}
	}
	return segs, nil
}
