package funnel

// Layout is a computed funnel in serialisable form. Sinks render it and
// the pipeline caches it.
type Layout struct {
	ID            string    `json:"id"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	BottomPercent float64   `json:"bottom_percent"`
	Header        []string  `json:"header,omitempty"`
	Total         float64   `json:"total"`
	Segments      []Segment `json:"segments"`
}

// Layout computes the chart's segments and packages them with the
// configuration they were computed for.
func (c *Chart) Layout() (Layout, error) {
	segs, err := c.Segments()
	if err != nil {
		return Layout{}, err
	}
	return Layout{
		ID:            c.id,
		Width:         c.cfg.Width,
		Height:        c.cfg.Height,
		BottomPercent: c.cfg.BottomPercent,
		Header:        c.Header(),
		Total:         c.totalEngagement,
		Segments:      segs,
	}, nil
}

// Title returns a heading for the funnel: the value column's header when
// there is one.
func (l Layout) Title() string {
	if len(l.Header) >= 2 && l.Header[1] != "" {
		return l.Header[1]
	}
	if len(l.Header) == 1 {
		return l.Header[0]
	}
	return ""
}
