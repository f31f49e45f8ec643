package reveal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnelchart/pkg/funnel"
	"github.com/matzehuels/funnelchart/pkg/observability"
)

// ErrBusy is returned when a reveal is started on a sequencer that is
// already building or revealing.
var ErrBusy = errors.New("reveal already in progress")

// State is the lifecycle position of a Sequencer.
type State int

const (
	StateIdle State = iota
	StateBuilding
	StateRevealing
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateRevealing:
		return "revealing"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Drawer draws one step on a rendering target.
type Drawer interface {
	// Draw starts the step's animation and returns a channel that receives
	// exactly one value when it completes: nil on success, or the failure.
	Draw(ctx context.Context, step Step) <-chan error
}

// DrawerFunc adapts a synchronous function to a Drawer.
type DrawerFunc func(ctx context.Context, step Step) error

// Draw runs f in a goroutine and signals its result.
func (f DrawerFunc) Draw(ctx context.Context, step Step) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- f(ctx, step) }()
	return ch
}

// Sequencer runs reveal steps one at a time for a single rendering target.
// Its state may be read concurrently; only one reveal runs at a time.
type Sequencer struct {
	logger *log.Logger

	mu    sync.Mutex
	state State
	drawn int
}

// NewSequencer returns an idle sequencer. A nil logger discards output.
func NewSequencer(logger *log.Logger) *Sequencer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Sequencer{logger: logger}
}

// State returns the current lifecycle state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Drawn returns how many steps of the current or last reveal completed.
func (s *Sequencer) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawn
}

// Reveal computes the chart's segments and reveals them at speed.
// Geometry failures move the sequencer to StateFailed before anything is drawn.
func (s *Sequencer) Reveal(ctx context.Context, chart *funnel.Chart, speed float64, d Drawer) error {
	if !s.enter(StateBuilding) {
		return ErrBusy
	}
	segs, err := chart.Segments()
	if err != nil {
		s.setState(StateFailed)
		return err
	}
	s.setState(StateRevealing)
	return s.run(ctx, chart.ID(), Plan(segs, speed), d)
}

// Run reveals the given steps in order. Each step starts only after the
// previous step's completion signal arrived.
//
// Cancelling ctx stops scheduling further steps and returns nil; steps already
// drawn stay drawn. A drawer error aborts the remaining steps and is returned.
// Run returns ErrBusy when another reveal is in progress.
func (s *Sequencer) Run(ctx context.Context, steps []Step, d Drawer) error {
	if !s.enter(StateRevealing) {
		return ErrBusy
	}
	return s.run(ctx, "", steps, d)
}

func (s *Sequencer) run(ctx context.Context, chartID string, steps []Step, d Drawer) error {
	hooks := observability.Reveal()
	start := time.Now()
	hooks.OnRevealStart(ctx, chartID, len(steps))

	for _, step := range steps {
		if ctx.Err() != nil {
			return s.cancelled(ctx, chartID, start)
		}

		s.logger.Debug("revealing segment", "index", step.Index, "label", step.Segment.Label, "duration", step.Duration)
		select {
		case err := <-d.Draw(ctx, step):
			if err != nil {
				if ctx.Err() != nil {
					return s.cancelled(ctx, chartID, start)
				}
				s.setState(StateFailed)
				hooks.OnRevealComplete(ctx, chartID, StateFailed.String(), time.Since(start))
				return fmt.Errorf("reveal segment %d (%s): %w", step.Index, step.Segment.Label, err)
			}
		case <-ctx.Done():
			return s.cancelled(ctx, chartID, start)
		}

		s.mu.Lock()
		s.drawn++
		s.mu.Unlock()
		hooks.OnStepComplete(ctx, chartID, step.Index, step.Duration)
	}

	s.setState(StateDone)
	hooks.OnRevealComplete(ctx, chartID, StateDone.String(), time.Since(start))
	return nil
}

func (s *Sequencer) cancelled(ctx context.Context, chartID string, start time.Time) error {
	s.logger.Debug("reveal cancelled", "drawn", s.Drawn())
	s.setState(StateCancelled)
	observability.Reveal().OnRevealComplete(ctx, chartID, StateCancelled.String(), time.Since(start))
	return nil
}

// enter moves to st unless a reveal is in progress, resetting the drawn count.
func (s *Sequencer) enter(st State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateBuilding || s.state == StateRevealing {
		return false
	}
	s.state = st
	s.drawn = 0
	return true
}

func (s *Sequencer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
