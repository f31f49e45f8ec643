// Package reveal sequences the draw-in animation of funnel segments.
//
// Segments are revealed strictly in order: a segment starts drawing only after
// the previous one signalled completion. Each segment's animation runs at a
// constant speed along its outline, so its duration is perimeter / speed.
//
// The package has two halves:
//
//   - [Plan] turns segments into timed [Step] values. Renderers that animate
//     declaratively (SVG) use the Begin offsets directly.
//   - [Sequencer] executes steps one at a time against a [Drawer], waiting on
//     each step's completion signal before starting the next, and stops
//     scheduling when its context is cancelled.
package reveal

import (
	"time"

	"github.com/matzehuels/funnelchart/pkg/funnel"
)

// DefaultSpeed is the draw-in speed in pixels per millisecond.
const DefaultSpeed = 2.5

// Step is one segment's draw-in animation.
type Step struct {
	Index   int
	Segment funnel.Segment
	// Length is the outline length travelled by the animation, in pixels.
	Length float64
	// Duration is Length / speed.
	Duration time.Duration
	// Begin is the offset from the start of the reveal at which this step
	// starts when every earlier step completes on time.
	Begin time.Duration
}

// End returns the offset at which the step completes.
func (s Step) End() time.Duration { return s.Begin + s.Duration }

// Plan computes the reveal steps for segs at speed pixels per millisecond.
// A non-positive speed uses DefaultSpeed. Easing is linear.
func Plan(segs []funnel.Segment, speed float64) []Step {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	steps := make([]Step, len(segs))
	var begin time.Duration
	for i, seg := range segs {
		length := seg.Trapezoid.Perimeter()
		d := time.Duration(length / speed * float64(time.Millisecond))
		steps[i] = Step{
			Index:    i,
			Segment:  seg,
			Length:   length,
			Duration: d,
			Begin:    begin,
		}
		begin += d
	}
	return steps
}

// TotalDuration returns the time the whole reveal takes.
func TotalDuration(steps []Step) time.Duration {
	if len(steps) == 0 {
		return 0
	}
	return steps[len(steps)-1].End()
}

// SpeedFromSetting maps the persisted animation speed setting, a multiplier
// of the default pace, to pixels per millisecond. Non-positive settings
// fall back to the default pace.
func SpeedFromSetting(setting float64) float64 {
	if setting <= 0 {
		return DefaultSpeed
	}
	return DefaultSpeed * setting
}
