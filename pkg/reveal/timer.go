package reveal

import (
	"context"
	"time"
)

// Clock schedules completion signals. Tests substitute a manual clock.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// TimerDrawer is a Drawer for targets that animate on their own, such as a
// terminal frame loop: it announces the step, then signals completion once
// the step's duration has elapsed.
type TimerDrawer struct {
	Clock Clock
	// OnStart is called when the step begins drawing.
	OnStart func(Step)
	// OnDone is called when the step's animation has finished.
	OnDone func(Step)
}

// Draw implements Drawer.
func (t *TimerDrawer) Draw(ctx context.Context, step Step) <-chan error {
	clock := t.Clock
	if clock == nil {
		clock = RealClock
	}
	if t.OnStart != nil {
		t.OnStart(step)
	}

	ch := make(chan error, 1)
	go func() {
		select {
		case <-clock.After(step.Duration):
			if t.OnDone != nil {
				t.OnDone(step)
			}
			ch <- nil
		case <-ctx.Done():
			ch <- ctx.Err()
		}
	}()
	return ch
}
