package editor

import (
	"encoding/json"
	"math"
	"testing"

	"canvasstudio/internal/canvas"
)

func applyProp(t *testing.T, el canvas.Element, property string, raw any) canvas.Element {
	t.Helper()
	s := NewStore()
	s.SelectTemplate(&canvas.Template{
		ID:               "t",
		CanvasDimensions: canvas.Dimensions{Width: 100, Height: 100},
		Elements:         []canvas.Element{el},
	})
	if !s.UpdateElementProperty(el.ID, property, raw) {
		t.Fatalf("update %q did not apply", property)
	}
	return s.Snapshot().Template.Elements[0]
}

func TestOpacityCoercion(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementShape, Opacity: 1}
	cases := []struct {
		raw  any
		want float64
	}{
		{"2", 1},
		{-5, 0},
		{"abc", 0},
		{0.37, 0.37},
		{json.Number("0.5"), 0.5},
		{" 0.25 ", 0.25},
		{math.NaN(), 0},
		{nil, 0},
	}
	for _, c := range cases {
		got := applyProp(t, el, "opacity", c.raw).Opacity
		if got != c.want {
			t.Errorf("opacity(%v): got %v want %v", c.raw, got, c.want)
		}
		if got < 0 || got > 1 {
			t.Errorf("opacity(%v) escaped [0,1]: %v", c.raw, got)
		}
	}
}

func TestGeometryCoercion(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementShape, X: 10, Y: 10, Width: 10, Height: 10}
	for _, prop := range []string{"x", "y", "width", "height"} {
		if got := applyProp(t, el, prop, -42); fieldOf(got, prop) != 0 {
			t.Errorf("%s(-42): got %v want 0", prop, fieldOf(got, prop))
		}
		if got := applyProp(t, el, prop, "oops"); fieldOf(got, prop) != 0 {
			t.Errorf("%s(invalid): got %v want 0", prop, fieldOf(got, prop))
		}
		if got := applyProp(t, el, prop, "123.5"); fieldOf(got, prop) != 123.5 {
			t.Errorf("%s(string number): got %v want 123.5", prop, fieldOf(got, prop))
		}
	}
}

func fieldOf(el canvas.Element, prop string) float64 {
	switch prop {
	case "x":
		return el.X
	case "y":
		return el.Y
	case "width":
		return el.Width
	case "height":
		return el.Height
	}
	return math.NaN()
}

func TestFontSizeCoercion(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementText, FontSize: 24}
	if got := applyProp(t, el, "fontSize", "abc").FontSize; got != 16 {
		t.Fatalf("invalid fontSize must default to 16, got %v", got)
	}
	if got := applyProp(t, el, "fontSize", 0.2).FontSize; got != 1 {
		t.Fatalf("fontSize must clamp to >= 1, got %v", got)
	}
	if got := applyProp(t, el, "fontSize", "40").FontSize; got != 40 {
		t.Fatalf("fontSize string parse: got %v", got)
	}
}

func TestFontSizeOnWatermark(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementWatermark, FontSize: 14}
	if got := applyProp(t, el, "fontSize", -3).FontSize; got != 1 {
		t.Fatalf("watermark fontSize must clamp like text, got %v", got)
	}
}

func TestFontSizeOnShapeIsVerbatim(t *testing.T) {
	// Non-textual elements take the value verbatim (untyped passthrough),
	// with no text clamping.
	el := canvas.Element{ID: "e", Type: canvas.ElementShape}
	if got := applyProp(t, el, "fontSize", 0.2).FontSize; got != 0.2 {
		t.Fatalf("shape fontSize must pass through, got %v", got)
	}
}

func TestSrcKeepsPreviousOnEmpty(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementImage, Src: "https://cdn.example.com/a.jpg"}
	if got := applyProp(t, el, "src", "").Src; got != "https://cdn.example.com/a.jpg" {
		t.Fatalf("empty src must keep previous, got %q", got)
	}
	if got := applyProp(t, el, "src", "   ").Src; got != "https://cdn.example.com/a.jpg" {
		t.Fatalf("blank src must keep previous, got %q", got)
	}
	if got := applyProp(t, el, "src", 42).Src; got != "https://cdn.example.com/a.jpg" {
		t.Fatalf("non-string src must keep previous, got %q", got)
	}
	if got := applyProp(t, el, "src", "https://cdn.example.com/b.jpg").Src; got != "https://cdn.example.com/b.jpg" {
		t.Fatalf("valid src must replace, got %q", got)
	}
}

func TestRotationUnclamped(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementText}
	if got := applyProp(t, el, "rotation", 765).Rotation; got != 765 {
		t.Fatalf("rotation must not normalize, got %v", got)
	}
	if got := applyProp(t, el, "rotation", -90).Rotation; got != -90 {
		t.Fatalf("negative rotation must be allowed, got %v", got)
	}
	if got := applyProp(t, el, "rotation", "spin").Rotation; got != 0 {
		t.Fatalf("invalid rotation must default to 0, got %v", got)
	}
}

func TestLineHeightAndLetterSpacingClamps(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementText}
	if got := applyProp(t, el, "lineHeight", 9.0).LineHeight; got != 3 {
		t.Fatalf("lineHeight must clamp to 3, got %v", got)
	}
	if got := applyProp(t, el, "lineHeight", 0.1).LineHeight; got != 0.8 {
		t.Fatalf("lineHeight must clamp to 0.8, got %v", got)
	}
	if got := applyProp(t, el, "letterSpacing", -10.0).LetterSpacing; got != -2 {
		t.Fatalf("letterSpacing must clamp to -2, got %v", got)
	}
	if got := applyProp(t, el, "letterSpacing", 99.0).LetterSpacing; got != 10 {
		t.Fatalf("letterSpacing must clamp to 10, got %v", got)
	}
}

func TestKnownFieldPassthrough(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementText, Content: "hi"}
	if got := applyProp(t, el, "textDecoration", "underline line-through").TextDecoration; got != "underline line-through" {
		t.Fatalf("textDecoration: got %q", got)
	}
	if got := applyProp(t, el, "locked", true); !got.Locked {
		t.Fatalf("locked not assigned")
	}
	if got := applyProp(t, el, "zIndex", 7).ZIndex; got != 7 {
		t.Fatalf("zIndex: got %v", got)
	}
}

func TestVolumeClampedThroughPassthrough(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementVideo, Src: "v.mp4"}
	if got := applyProp(t, el, "volume", 4.0).Volume; got != 1 {
		t.Fatalf("volume must clamp to 1, got %v", got)
	}
}

func TestUnknownPropertyLandsInExtra(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementText}
	got := applyProp(t, el, "animationPreset", "fade-in")
	if got.Extra["animationPreset"] != "fade-in" {
		t.Fatalf("unknown property must pass through: %+v", got.Extra)
	}
}

func TestKnownFieldTypeMismatchLandsInExtra(t *testing.T) {
	el := canvas.Element{ID: "e", Type: canvas.ElementText}
	got := applyProp(t, el, "color", 0xff0000)
	if got.Color != "" {
		t.Fatalf("mismatched type must not clobber field: %q", got.Color)
	}
	if got.Extra["color"] != 0xff0000 {
		t.Fatalf("mismatched value must survive in extra: %+v", got.Extra)
	}
}
