// Package styles defines how funnel segments look in SVG output.
package styles

import (
	"sort"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

// Style defines the visual appearance of a funnel.
// Implementations draw segment shapes and labels onto an SVG canvas; the
// caller passes any extra attributes (ids, animation state) through attrs.
type Style interface {
	// Name returns the registry name of the style.
	Name() string
	// RenderDefs writes <defs> content (filters, gradients). May write nothing.
	RenderDefs(canvas *svg.SVG)
	// RenderSegment writes the SVG for one segment outline and fill.
	RenderSegment(canvas *svg.SVG, s Segment, attrs ...string)
	// RenderLabel writes the SVG for one segment's label.
	RenderLabel(canvas *svg.SVG, s Segment, attrs ...string)
}

// Segment contains all data needed to render one funnel segment.
type Segment struct {
	ID       string  // Element id, unique within the document
	Index    int     // Position in the funnel, top first
	Text     string  // Label text ("label: value")
	Path     string  // SVG path data of the trapezoid
	Color    string  // Palette colour
	X, Y     float64 // Label anchor
	Width    float64 // Narrowest width available for the label
	Height   float64 // Segment height
	FontSize float64 // Label font size
}

// Registry maps style names to constructors.
var Registry = map[string]func() Style{
	"classic": func() Style { return Classic{} },
	"outline": func() Style { return Outline{} },
}

// Default is the style used when none is named.
const Default = "classic"

// Lookup returns the named style. An empty name returns the default.
func Lookup(name string) (Style, error) {
	if name == "" {
		name = Default
	}
	ctor, ok := Registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (available: %s)",
			name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names returns the registered style names, sorted.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
