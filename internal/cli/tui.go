package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/funnelchart/pkg/funnel"
	"github.com/matzehuels/funnelchart/pkg/reveal"
)

const (
	frameInterval = time.Second / 30
	defaultCols   = 60
	defaultRows   = 20
	labelGutter   = 32

	previewDoneGlyph    = "█"
	previewDrawingGlyph = "▓"
)

// Preview styles
var (
	previewHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	previewStateStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// previewCommand creates the preview command, which plays the reveal in
// the terminal.
func (c *CLI) previewCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Play the funnel reveal in the terminal",
		Long: `Play the segment-by-segment reveal of a funnel in the terminal.

Each segment starts drawing only after the previous one has finished. Press
q to stop the reveal; segments already drawn stay on screen.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, flags *chartFlags) error {
	table, err := readTable(ctx, input, flags)
	if err != nil {
		return err
	}
	opts, err := c.options(ctx, flags)
	if err != nil {
		return err
	}
	in, err := funnel.FromCells(table)
	if err != nil {
		return err
	}
	chart, err := funnel.Build(in, opts.Config())
	if err != nil {
		return err
	}
	l, err := chart.Layout()
	if err != nil {
		return err
	}

	revealCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newPreviewModel(l, reveal.Plan(l.Segments, opts.Speed), cancel)
	p := tea.NewProgram(m)

	// The sequencer logs nowhere: output would tear the terminal frame.
	seq := reveal.NewSequencer(nil)
	drawer := &reveal.TimerDrawer{
		OnStart: func(s reveal.Step) { p.Send(stepStartedMsg{index: s.Index, at: time.Now()}) },
		OnDone:  func(s reveal.Step) { p.Send(stepDoneMsg{index: s.Index}) },
	}
	go func() {
		err := seq.Reveal(revealCtx, chart, opts.Speed, drawer)
		p.Send(revealEndedMsg{state: seq.State(), err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	fm := final.(previewModel)
	if fm.err != nil {
		return fm.err
	}
	switch fm.state {
	case reveal.StateDone:
		printSuccess("Revealed %d segments", fm.drawn)
	case reveal.StateCancelled:
		printInfo("Reveal stopped after %d of %d segments", fm.drawn, len(fm.segs))
	}
	loggerFromContext(ctx).Debug("preview finished", "chart", chart.ID(), "state", fm.state, "drawn", seq.Drawn())
	return nil
}

// =============================================================================
// previewModel - Terminal reveal animation
// =============================================================================

type stepStartedMsg struct {
	index int
	at    time.Time
}

type stepDoneMsg struct{ index int }

type revealEndedMsg struct {
	state reveal.State
	err   error
}

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// previewModel rasterizes the funnel into terminal cells. Completed
// segments are solid, the segment being drawn fills top-down in proportion
// to its elapsed animation time, and pending segments are blank.
type previewModel struct {
	segs      []funnel.Segment
	durations []time.Duration
	width     float64
	height    float64
	title     string

	cols, rows int

	state   reveal.State
	drawing int // segment being drawn, -1 when none
	drawn   int
	started time.Time
	now     time.Time
	err     error

	cancel context.CancelFunc
}

func newPreviewModel(l funnel.Layout, steps []reveal.Step, cancel context.CancelFunc) previewModel {
	durations := make([]time.Duration, len(steps))
	for i, s := range steps {
		durations[i] = s.Duration
	}
	return previewModel{
		segs:      l.Segments,
		durations: durations,
		width:     l.Width,
		height:    l.Height,
		title:     l.Title(),
		cols:      defaultCols,
		rows:      defaultRows,
		state:     reveal.StateBuilding,
		drawing:   -1,
		cancel:    cancel,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nextFrame()
}

func (m previewModel) running() bool {
	return m.state == reveal.StateBuilding || m.state == reveal.StateRevealing
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "q", "esc":
			if m.running() {
				m.cancel()
				return m, nil
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.cols = clampInt(msg.Width-labelGutter, 20, 120)
		m.rows = clampInt(msg.Height-5, 8, 48)
	case stepStartedMsg:
		m.state = reveal.StateRevealing
		m.drawing = msg.index
		m.started = msg.at
		m.now = msg.at
	case stepDoneMsg:
		m.drawn = msg.index + 1
		if m.drawing == msg.index {
			m.drawing = -1
		}
	case revealEndedMsg:
		m.state = msg.state
		m.err = msg.err
		m.drawing = -1
	case frameMsg:
		m.now = time.Time(msg)
		if m.running() {
			return m, nextFrame()
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(StyleTitle.Render(m.title))
		b.WriteString("\n\n")
	}
	for _, line := range m.raster() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(previewStateStyle.Render(m.status()))
	b.WriteString("\n")
	help := "q quit"
	if m.running() {
		help = "q stop reveal · ctrl+c quit"
	}
	b.WriteString(previewHelpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m previewModel) status() string {
	total := len(m.segs)
	switch m.state {
	case reveal.StateDone:
		return fmt.Sprintf("done · %d segments", total)
	case reveal.StateCancelled:
		return fmt.Sprintf("stopped · %d of %d segments", m.drawn, total)
	case reveal.StateFailed:
		if m.err != nil {
			return "failed: " + m.err.Error()
		}
		return "failed"
	case reveal.StateRevealing:
		return fmt.Sprintf("revealing · %d of %d segments", m.drawn, total)
	}
	return "building"
}

// raster returns one string per terminal row.
func (m previewModel) raster() []string {
	labels := m.labelRows()
	lines := make([]string, m.rows)
	for r := range lines {
		y := (float64(r) + 0.5) / float64(m.rows) * m.height
		line := strings.Repeat(" ", m.cols)
		if i := m.segmentAt(y); i >= 0 {
			if glyph := m.glyph(i, y); glyph != "" {
				line = m.band(i, y, glyph)
			}
		}
		if label, ok := labels[r]; ok {
			line += "  " + label
		}
		lines[r] = line
	}
	return lines
}

// band renders the inside of segment i at height y, padded to the grid width.
func (m previewModel) band(i int, y float64, glyph string) string {
	t := m.segs[i].Trapezoid
	half := t.HalfWidthAt(y)
	cell := m.width / float64(m.cols)
	left := clampInt(int(math.Ceil((t.CenterX()-half)/cell-0.5)), 0, m.cols)
	right := clampInt(int(math.Floor((t.CenterX()+half)/cell-0.5)), -1, m.cols-1)
	if right < left {
		return strings.Repeat(" ", m.cols)
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.segs[i].Color))
	return strings.Repeat(" ", left) +
		style.Render(strings.Repeat(glyph, right-left+1)) +
		strings.Repeat(" ", m.cols-right-1)
}

// glyph returns the fill for segment i at height y, or "" when that part
// of the segment is not drawn yet.
func (m previewModel) glyph(i int, y float64) string {
	switch {
	case i < m.drawn:
		return previewDoneGlyph
	case i == m.drawing:
		t := m.segs[i].Trapezoid
		if t.Height() <= 0 || (y-t.TopY())/t.Height() <= m.progress(i) {
			return previewDrawingGlyph
		}
	}
	return ""
}

// progress returns the fraction of segment i's animation that has elapsed.
func (m previewModel) progress(i int) float64 {
	d := m.durations[i]
	if d <= 0 {
		return 1
	}
	f := float64(m.now.Sub(m.started)) / float64(d)
	return math.Max(0, math.Min(1, f))
}

func (m previewModel) segmentAt(y float64) int {
	for i, s := range m.segs {
		if y >= s.Trapezoid.TopY() && y <= s.Trapezoid.BottomY() {
			return i
		}
	}
	return -1
}

// labelRows places each completed segment's annotation on the row of its
// label anchor.
func (m previewModel) labelRows() map[int]string {
	labels := make(map[int]string)
	for i := 0; i < m.drawn && i < len(m.segs); i++ {
		s := m.segs[i]
		r := clampInt(int(s.LabelAnchor.Y/m.height*float64(m.rows)), 0, m.rows-1)
		text := swatch(s.Color) + " " + s.Text()
		if prev, ok := labels[r]; ok {
			text = prev + "  " + text
		}
		labels[r] = text
	}
	return labels
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
