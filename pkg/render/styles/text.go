package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const (
	fontHeightRatio = 0.5
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 20.0
)

// FontSize returns a label size that fits text inside a box of the given
// width and height, clamped to a readable range.
func FontSize(width, height float64, text string) float64 {
	n := max(1, len([]rune(text)))
	byHeight := height * fontHeightRatio
	byWidth := (width * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// TruncateLabel shortens text so it fits width at fontSize.
func TruncateLabel(text string, width, fontSize float64) string {
	maxChars := int(width * fontWidthRatio / (fontSize * fontCharWidth))
	if maxChars < 3 {
		maxChars = 3
	}
	r := []rune(text)
	if len(r) <= maxChars {
		return text
	}
	return string(r[:maxChars-2]) + ".."
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Attr formats one SVG attribute with an escaped value.
func Attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, EscapeXML(value))
}

// Num formats a coordinate with at most two decimals.
func Num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Tint mixes a #rrggbb colour with white. amount 0 keeps the colour,
// 1 yields white. Malformed colours are returned unchanged.
func Tint(color string, amount float64) string {
	if len(color) != 7 || color[0] != '#' {
		return color
	}
	v, err := strconv.ParseUint(color[1:], 16, 32)
	if err != nil {
		return color
	}
	mix := func(c uint64) uint64 {
		return uint64(float64(c) + (255-float64(c))*amount + 0.5)
	}
	r, g, b := mix(v>>16&0xff), mix(v>>8&0xff), mix(v&0xff)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
