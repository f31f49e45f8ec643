package funnel

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position in canvas coordinates (y grows downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trapezoid is one funnel band as a closed five-point polygon:
//
//	[bottom right, top right, top left, bottom left, bottom right]
//
// The top base is the previous band's bottom base.
type Trapezoid struct {
	Points [5]Point `json:"points"`
}

// TopY returns the y coordinate of the top base.
func (t Trapezoid) TopY() float64 { return t.Points[1].Y }

// BottomY returns the y coordinate of the bottom base.
func (t Trapezoid) BottomY() float64 { return t.Points[0].Y }

// TopWidth returns the length of the top base.
func (t Trapezoid) TopWidth() float64 { return t.Points[1].X - t.Points[2].X }

// BottomWidth returns the length of the bottom base.
func (t Trapezoid) BottomWidth() float64 { return t.Points[0].X - t.Points[3].X }

// Height returns the vertical extent of the band.
func (t Trapezoid) Height() float64 { return t.BottomY() - t.TopY() }

// MidY returns the vertical midpoint between both bases.
func (t Trapezoid) MidY() float64 { return (t.TopY() + t.BottomY()) / 2 }

// CenterX returns the horizontal centre of the band.
func (t Trapezoid) CenterX() float64 { return (t.Points[1].X + t.Points[2].X) / 2 }

// Area returns the trapezoid area computed from its corner points.
func (t Trapezoid) Area() float64 {
	return (t.TopWidth() + t.BottomWidth()) / 2 * t.Height()
}

// Perimeter returns the length of the closed outline, which is the distance a
// draw-in animation travels.
func (t Trapezoid) Perimeter() float64 {
	var sum float64
	for i := 1; i < len(t.Points); i++ {
		sum += math.Hypot(t.Points[i].X-t.Points[i-1].X, t.Points[i].Y-t.Points[i-1].Y)
	}
	return sum
}

// PathData returns the outline as SVG path data.
func (t Trapezoid) PathData() string {
	var b strings.Builder
	for i, p := range t.Points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%.2f,%.2f ", cmd, p.X, p.Y)
	}
	b.WriteString("Z")
	return b.String()
}

// HalfWidthAt returns half the funnel width at canvas height y inside this
// band, or -1 when y lies outside it. Terminal renderers use it to rasterize.
func (t Trapezoid) HalfWidthAt(y float64) float64 {
	top, bottom := t.TopY(), t.BottomY()
	if y < top || y > bottom {
		return -1
	}
	if bottom == top {
		return t.TopWidth() / 2
	}
	frac := (y - top) / (bottom - top)
	return (t.TopWidth() + frac*(t.BottomWidth()-t.TopWidth())) / 2
}
