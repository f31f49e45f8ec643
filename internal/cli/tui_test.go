package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/funnelchart/pkg/funnel"
	"github.com/matzehuels/funnelchart/pkg/reveal"
)

func hiringModel(t *testing.T) (previewModel, *bool) {
	t.Helper()
	in := funnel.Input{
		Header: []string{"Stage", "Candidates"},
		Rows: []funnel.Row{
			{Label: "Applied", Value: 100},
			{Label: "Phone Interview", Value: 80},
			{Label: "On-site Interview", Value: 45},
			{Label: "Given Offer", Value: 30},
			{Label: "Accepted Offer", Value: 12},
		},
	}
	chart, err := funnel.Build(in, funnel.Config{}.WithDefaults())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l, err := chart.Layout()
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	cancelled := new(bool)
	m := newPreviewModel(l, reveal.Plan(l.Segments, reveal.DefaultSpeed), func() { *cancelled = true })
	return m, cancelled
}

func update(t *testing.T, m previewModel, msg tea.Msg) (previewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(previewModel), cmd
}

func TestPreviewModelReveal(t *testing.T) {
	m, _ := hiringModel(t)
	if got := m.status(); got != "building" {
		t.Errorf("initial status = %q, want building", got)
	}
	if m.Init() == nil {
		t.Error("Init should schedule the first frame")
	}

	start := time.Now()
	m, _ = update(t, m, stepStartedMsg{index: 0, at: start})
	if m.state != reveal.StateRevealing || m.drawing != 0 {
		t.Fatalf("after start: state=%v drawing=%d", m.state, m.drawing)
	}
	if strings.Contains(strings.Join(m.raster(), "\n"), previewDrawingGlyph) {
		t.Error("no rows should be filled at zero progress")
	}

	m, cmd := update(t, m, frameMsg(start.Add(m.durations[0])))
	if cmd == nil {
		t.Error("frames should keep ticking while revealing")
	}
	view := m.View()
	if !strings.Contains(view, previewDrawingGlyph) {
		t.Error("segment in progress should be partially filled")
	}
	if strings.Contains(view, "Applied: 100") {
		t.Error("label should appear only once the segment is drawn")
	}

	m, _ = update(t, m, stepDoneMsg{index: 0})
	view = m.View()
	if m.drawn != 1 || m.drawing != -1 {
		t.Errorf("after done: drawn=%d drawing=%d", m.drawn, m.drawing)
	}
	for _, want := range []string{previewDoneGlyph, "Applied: 100", "Candidates", "revealing · 1 of 5 segments", "q stop reveal"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	for i := 1; i < 5; i++ {
		m, _ = update(t, m, stepStartedMsg{index: i, at: start})
		m, _ = update(t, m, stepDoneMsg{index: i})
	}
	m, _ = update(t, m, revealEndedMsg{state: reveal.StateDone})
	if got := m.status(); got != "done · 5 segments" {
		t.Errorf("final status = %q", got)
	}
	if _, cmd := update(t, m, frameMsg(time.Now())); cmd != nil {
		t.Error("frames should stop once the reveal ended")
	}
	if !strings.Contains(m.View(), "Accepted Offer: 12") {
		t.Error("final view should label every segment")
	}
}

func TestPreviewModelStop(t *testing.T) {
	m, cancelled := hiringModel(t)
	m, _ = update(t, m, stepStartedMsg{index: 0, at: time.Now()})
	m, _ = update(t, m, stepDoneMsg{index: 0})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !*cancelled {
		t.Error("q should cancel a running reveal")
	}
	if cmd != nil {
		t.Error("q should not quit while the reveal is winding down")
	}

	m, _ = update(t, m, revealEndedMsg{state: reveal.StateCancelled})
	if got := m.status(); got != "stopped · 1 of 5 segments" {
		t.Errorf("status = %q", got)
	}
	if _, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit after the reveal ended")
	}
}

func TestPreviewModelFailed(t *testing.T) {
	m, _ := hiringModel(t)
	m, _ = update(t, m, revealEndedMsg{state: reveal.StateFailed, err: errors.New("boom")})
	if got := m.status(); got != "failed: boom" {
		t.Errorf("status = %q", got)
	}
	m.err = nil
	if got := m.status(); got != "failed" {
		t.Errorf("status without error = %q", got)
	}
}

func TestPreviewModelResize(t *testing.T) {
	m, _ := hiringModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 4})
	if m.cols != 20 || m.rows != 8 {
		t.Errorf("small window grid = %dx%d, want 20x8", m.cols, m.rows)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 112, Height: 35})
	if m.cols != 80 || m.rows != 30 {
		t.Errorf("grid = %dx%d, want 80x30", m.cols, m.rows)
	}
	if got := len(m.raster()); got != 30 {
		t.Errorf("raster rows = %d, want 30", got)
	}
}

func TestPreviewSequencerDrivesModel(t *testing.T) {
	m, _ := hiringModel(t)
	msgs := make(chan tea.Msg, 16)
	drawer := &reveal.TimerDrawer{
		Clock:   instantClock{},
		OnStart: func(s reveal.Step) { msgs <- stepStartedMsg{index: s.Index, at: time.Now()} },
		OnDone:  func(s reveal.Step) { msgs <- stepDoneMsg{index: s.Index} },
	}
	steps := reveal.Plan(m.segs, reveal.DefaultSpeed)
	seq := reveal.NewSequencer(nil)
	if err := seq.Run(context.Background(), steps, drawer); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(msgs)
	for msg := range msgs {
		m, _ = update(t, m, msg)
	}
	m, _ = update(t, m, revealEndedMsg{state: seq.State()})
	if m.drawn != 5 || m.state != reveal.StateDone {
		t.Errorf("drawn=%d state=%v, want 5 done", m.drawn, m.state)
	}
}

type instantClock struct{}

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}
