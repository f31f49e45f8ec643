package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/funnelchart/pkg/funnel"
	"github.com/matzehuels/funnelchart/pkg/reveal"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style string
	speed float64
}

// WithJSONStyle records the style name (e.g., "classic", "outline") in the
// JSON output for round-trip rendering.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONSpeed sets the draw-in speed used for the reveal timing fields.
func WithJSONSpeed(pxPerMs float64) JSONOption { return func(r *jsonRenderer) { r.speed = pxPerMs } }

type jsonOutput struct {
	ID            string        `json:"id"`
	Title         string        `json:"title,omitempty"`
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	BottomPercent float64       `json:"bottom_percent"`
	Total         float64       `json:"total"`
	Style         string        `json:"style,omitempty"`
	Speed         float64       `json:"speed"`
	DurationMs    float64       `json:"duration_ms"`
	Segments      []jsonSegment `json:"segments"`
}

type jsonSegment struct {
	Index      int           `json:"index"`
	Label      string        `json:"label"`
	Value      float64       `json:"value"`
	Share      float64       `json:"share"`
	Color      string        `json:"color"`
	Points     [5][2]float64 `json:"points"`
	Path       string        `json:"path"`
	LabelX     float64       `json:"label_x"`
	LabelY     float64       `json:"label_y"`
	Area       float64       `json:"area"`
	Perimeter  float64       `json:"perimeter"`
	BeginMs    float64       `json:"begin_ms"`
	DurationMs float64       `json:"duration_ms"`
}

// RenderJSON exports the layout as a pretty-printed JSON document.
//
// Each segment carries its five polygon points in drawing order
// ([bottom right, top right, top left, bottom left, bottom right]), the
// label anchor, and the reveal timing at the configured speed.
//
// RenderJSON does not modify l and is safe to call concurrently.
func RenderJSON(l funnel.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{speed: reveal.DefaultSpeed}
	for _, opt := range opts {
		opt(&r)
	}
	if r.speed <= 0 {
		r.speed = reveal.DefaultSpeed
	}

	steps := reveal.Plan(l.Segments, r.speed)
	out := jsonOutput{
		ID:            l.ID,
		Title:         l.Title(),
		Width:         l.Width,
		Height:        l.Height,
		BottomPercent: l.BottomPercent,
		Total:         l.Total,
		Style:         r.style,
		Speed:         r.speed,
		DurationMs:    ms(reveal.TotalDuration(steps)),
		Segments:      make([]jsonSegment, len(steps)),
	}
	for i, step := range steps {
		s := step.Segment
		js := jsonSegment{
			Index:      s.Index,
			Label:      s.Label,
			Value:      s.Value,
			Share:      s.Share,
			Color:      s.Color,
			Path:       s.Trapezoid.PathData(),
			LabelX:     s.LabelAnchor.X,
			LabelY:     s.LabelAnchor.Y,
			Area:       s.Trapezoid.Area(),
			Perimeter:  step.Length,
			BeginMs:    ms(step.Begin),
			DurationMs: ms(step.Duration),
		}
		for j, p := range s.Trapezoid.Points {
			js.Points[j] = [2]float64{p.X, p.Y}
		}
		out.Segments[i] = js
	}
	return json.MarshalIndent(out, "", "  ")
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
