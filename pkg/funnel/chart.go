package funnel

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

// Defaults for Config fields left at zero.
const (
	DefaultWidth         = 600.0
	DefaultHeight        = 400.0
	DefaultBottomPercent = 1.0 / 3.0
)

// radicandTolerance is the relative amount by which slope*b² - 4*area may
// fall below zero and still be read as zero. The last band of a funnel
// lands exactly on the envelope's bottom base, so rounding alone can push
// the radicand slightly negative when BottomPercent is tiny.
const radicandTolerance = 1e-9

// Config holds the canvas dimensions and taper of a funnel.
type Config struct {
	Width         float64 `json:"width" toml:"width"`
	Height        float64 `json:"height" toml:"height"`
	BottomPercent float64 `json:"bottom_percent" toml:"bottom_percent"`
}

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.BottomPercent == 0 {
		c.BottomPercent = DefaultBottomPercent
	}
	return c
}

// Validate checks that the dimensions are positive and the bottom fraction
// lies strictly between 0 and 1.
func (c Config) Validate() error {
	if !positive(c.Width) {
		return errors.New(errors.ErrCodeInvalidConfig, "width must be a positive number, got %v", c.Width)
	}
	if !positive(c.Height) {
		return errors.New(errors.ErrCodeInvalidConfig, "height must be a positive number, got %v", c.Height)
	}
	if !(c.BottomPercent > 0 && c.BottomPercent < 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "bottom percent must be between 0 and 1, got %v", c.BottomPercent)
	}
	return nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Chart is a built funnel: validated rows plus the constants derived from
// the configuration. It is immutable.
type Chart struct {
	id              string
	cfg             Config
	header          []string
	rows            []Row
	slope           float64
	totalArea       float64
	totalEngagement float64
}

// Build validates in against cfg and derives the funnel constants.
//
// Zero config fields take their defaults. Build fails with
// INVALID_INPUT_SHAPE for fewer than two rows, NEGATIVE_VALUE for a negative
// value and ZERO_TOTAL_ENGAGEMENT when the values sum to zero.
func Build(in Input, cfg Config) (*Chart, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(in.Rows) < 2 {
		return nil, improperData("%d data rows, want at least 2", len(in.Rows))
	}

	var total float64
	for i, r := range in.Rows {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, improperData("row %d (%s) value is not finite", i+1, r.Label)
		}
		if r.Value < 0 {
			return nil, errors.New(errors.ErrCodeNegativeValue, "stage %q has negative value %v", r.Label, r.Value)
		}
		total += r.Value
	}
	if math.IsInf(total, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "values are too large to sum")
	}
	if total == 0 {
		return nil, errors.New(errors.ErrCodeZeroTotal, "all stage values are zero")
	}

	bottom := cfg.BottomPercent * cfg.Width
	return &Chart{
		id:              uuid.NewString(),
		cfg:             cfg,
		header:          append([]string(nil), in.Header...),
		rows:            append([]Row(nil), in.Rows...),
		slope:           2 * cfg.Height / (cfg.Width - bottom),
		totalArea:       (cfg.Width + bottom) * cfg.Height / 2,
		totalEngagement: total,
	}, nil
}

// ID returns the chart's unique instance identifier.
func (c *Chart) ID() string { return c.id }

// Config returns the effective configuration (defaults applied).
func (c *Chart) Config() Config { return c.cfg }

// Header returns the stripped header row, if the input had one.
func (c *Chart) Header() []string { return append([]string(nil), c.header...) }

// Rows returns a copy of the data rows.
func (c *Chart) Rows() []Row { return append([]Row(nil), c.rows...) }

// Len returns the number of stages.
func (c *Chart) Len() int { return len(c.rows) }

// Slope returns the envelope slope.
func (c *Chart) Slope() float64 { return c.slope }

// TotalArea returns the area of the envelope trapezoid.
func (c *Chart) TotalArea() float64 { return c.totalArea }

// TotalEngagement returns the sum of all values.
func (c *Chart) TotalEngagement() float64 { return c.totalEngagement }

// AreaOf returns the area allotted to row i.
func (c *Chart) AreaOf(i int) float64 {
	return c.rows[i].Value * c.totalArea / c.totalEngagement
}

// ComputeTrapezoids lays out one trapezoid per row, top to bottom, each with
// an area proportional to its value. The first band's top base spans the full
// width at y=0; every following band's top base is the previous bottom base.
//
// The result depends only on the rows and config, so repeated calls return
// identical coordinates.
func (c *Chart) ComputeTrapezoids() ([]Trapezoid, error) {
	traps := make([]Trapezoid, 0, len(c.rows))
	leftX, rightX, y := 0.0, c.cfg.Width, 0.0

	for i, row := range c.rows {
		prevBase := rightX - leftX
		nextBase, err := SolveNextBase(prevBase, c.slope, c.AreaOf(i))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDegenerateGeometry, err,
				"stage %d (%s) does not fit in the funnel", i+1, row.Label)
		}

		inset := (prevBase - nextBase) / 2
		nextLeftX, nextRightX := leftX+inset, rightX-inset
		nextY := y + c.slope*inset

		traps = append(traps, Trapezoid{Points: [5]Point{
			{nextRightX, nextY},
			{rightX, y},
			{leftX, y},
			{nextLeftX, nextY},
			{nextRightX, nextY},
		}})
		leftX, rightX, y = nextLeftX, nextRightX, nextY
	}
	return traps, nil
}

// SolveNextBase returns the base length b2 such that the band between a base
// of prevBase and b2, narrowing at slope, has the given area:
//
//	b2 = sqrt((slope*prevBase² - 4*area) / slope)
//
// It fails with DEGENERATE_GEOMETRY when the area cannot fit above a base of
// zero width (slope*prevBase² < 4*area) or any input is not a finite,
// non-negative number.
func SolveNextBase(prevBase, slope, area float64) (float64, error) {
	if !positive(slope) || !finiteNonNeg(prevBase) || !finiteNonNeg(area) {
		return 0, errors.New(errors.ErrCodeDegenerateGeometry,
			"invalid geometry inputs: base=%v slope=%v area=%v", prevBase, slope, area)
	}

	capacity := slope * prevBase * prevBase
	radicand := capacity - 4*area
	if radicand < 0 {
		if radicand < -radicandTolerance*capacity {
			return 0, errors.New(errors.ErrCodeDegenerateGeometry,
				"area %.4g exceeds the %.4g left below a base of %.4g", area, capacity/4, prevBase)
		}
		radicand = 0
	}

	next := math.Sqrt(radicand / slope)
	if !finiteNonNeg(next) {
		return 0, errors.New(errors.ErrCodeDegenerateGeometry, "next base is not finite")
	}
	return next, nil
}

func finiteNonNeg(f float64) bool {
	return f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// String implements fmt.Stringer for debug logging.
func (c *Chart) String() string {
	return fmt.Sprintf("funnel(%d stages, %gx%g, bottom=%.3g)", len(c.rows), c.cfg.Width, c.cfg.Height, c.cfg.BottomPercent)
}
