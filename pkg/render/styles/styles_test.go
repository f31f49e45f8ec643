package styles

import (
	"bytes"
	"strings"
	"testing"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"", "classic", "Outline"} {
		s, err := Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
			continue
		}
		want := strings.ToLower(name)
		if want == "" {
			want = Default
		}
		if s.Name() != want {
			t.Errorf("Lookup(%q).Name() = %q", name, s.Name())
		}
	}

	_, err := Lookup("handdrawn")
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("Lookup(unknown) = %v, want INVALID_STYLE", err)
	}
}

func TestNames(t *testing.T) {
	got := Names()
	if len(got) != 2 || got[0] != "classic" || got[1] != "outline" {
		t.Errorf("Names() = %v", got)
	}
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		text          string
		want          float64
	}{
		{"limited by height", 400, 20, "A: 1", 10},
		{"clamped to max", 1000, 200, "A", fontSizeMax},
		{"clamped to min", 10, 2, "a very long label: 1000", fontSizeMin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FontSize(tt.width, tt.height, tt.text); got != tt.want {
				t.Errorf("FontSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := TruncateLabel("Applied: 100", 400, 12); got != "Applied: 100" {
		t.Errorf("short label truncated: %q", got)
	}
	got := TruncateLabel("Interviewed by the hiring committee: 60", 60, 12)
	if !strings.HasSuffix(got, "..") || len(got) >= 20 {
		t.Errorf("long label = %q", got)
	}
	if got := TruncateLabel("Ünïcödé", 1, 12); got != "Ü.." {
		t.Errorf("rune-safe truncation = %q", got)
	}
}

func TestEscapeAndAttr(t *testing.T) {
	if got := EscapeXML(`a<b & "c"`); got != "a&lt;b &amp; &#34;c&#34;" {
		t.Errorf("EscapeXML = %q", got)
	}
	if got := Attr("id", `x"y`); got != `id="x&#34;y"` {
		t.Errorf("Attr = %q", got)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{10: "10", 2.5: "2.5", 1.234: "1.23", 0: "0", -3.10: "-3.1"}
	for in, want := range tests {
		if got := Num(in); got != want {
			t.Errorf("Num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTint(t *testing.T) {
	tests := []struct {
		color  string
		amount float64
		want   string
	}{
		{"#1f77b4", 0, "#1f77b4"},
		{"#1f77b4", 1, "#ffffff"},
		{"#000000", 0.5, "#808080"},
		{"red", 0.5, "red"},
		{"#zzzzzz", 0.5, "#zzzzzz"},
	}
	for _, tt := range tests {
		if got := Tint(tt.color, tt.amount); got != tt.want {
			t.Errorf("Tint(%q, %v) = %q, want %q", tt.color, tt.amount, got, tt.want)
		}
	}
}

func TestRenderSegmentAndLabel(t *testing.T) {
	seg := Segment{
		ID: "f-seg0", Text: "Applied & Screened: 100", Path: "M0,0 L10,0 L5,10 Z",
		Color: "#1f77b4", X: 50, Y: 20, Width: 400, Height: 40, FontSize: 14,
	}
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, _ := Lookup(name)
			var buf bytes.Buffer
			canvas := svg.New(&buf)
			s.RenderDefs(canvas)
			s.RenderSegment(canvas, seg, `opacity="0.5"`)
			s.RenderLabel(canvas, seg)
			out := buf.String()

			for _, want := range []string{
				`d="M0,0 L10,0 L5,10 Z"`,
				`id="f-seg0"`,
				`stroke="#1f77b4"`,
				`opacity="0.5"`,
				`id="f-seg0-label"`,
				`Applied &amp; Screened: 100`,
			} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %s:\n%s", want, out)
				}
			}
		})
	}
}
