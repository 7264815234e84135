package editor

import (
	"math"
	"testing"

	"canvasstudio/internal/canvas"
)

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b)) }

func TestResizeSquareToPortrait(t *testing.T) {
	// 1080x1080 -> 1080x1920: scaleX=1, scaleY=16/9, contentScale=1.
	// Text stretches its box vertically but keeps its font size.
	s := NewStore()
	s.SelectTemplate(&canvas.Template{
		ID:               "t",
		CanvasDimensions: canvas.Dimensions{Width: 1080, Height: 1080},
		Elements: []canvas.Element{{
			ID: "e", Type: canvas.ElementText,
			X: 100, Y: 100, Width: 200, Height: 50, FontSize: 24, Opacity: 1,
		}},
	})
	if !s.SetCanvasDimensions(canvas.Dimensions{Width: 1080, Height: 1920}) {
		t.Fatalf("resize reported no-op")
	}
	el := s.Snapshot().Template.Elements[0]
	scaleY := 1920.0 / 1080.0
	if !near(el.X, 100) || !near(el.Width, 200) {
		t.Fatalf("x/width must not move: %+v", el)
	}
	if !near(el.Y, 100*scaleY) || !near(el.Height, 50*scaleY) {
		t.Fatalf("y/height must scale by %v: %+v", scaleY, el)
	}
	if el.FontSize != 24 {
		t.Fatalf("fontSize must follow content scale (1): %v", el.FontSize)
	}
}

func TestResizeUniformDouble(t *testing.T) {
	s := NewStore()
	s.SelectTemplate(&canvas.Template{
		ID:               "t",
		CanvasDimensions: canvas.Dimensions{Width: 1080, Height: 1080},
		Elements: []canvas.Element{{
			ID: "e", Type: canvas.ElementText,
			X: 100, Y: 100, Width: 200, Height: 50, FontSize: 24, Opacity: 1,
		}},
	})
	s.SetCanvasDimensions(canvas.Dimensions{Width: 2160, Height: 2160})
	el := s.Snapshot().Template.Elements[0]
	if !near(el.X, 200) || !near(el.Y, 200) || !near(el.Width, 400) || !near(el.Height, 100) {
		t.Fatalf("uniform 2x geometry: %+v", el)
	}
	if !near(el.FontSize, 48) {
		t.Fatalf("uniform 2x fontSize: %v", el.FontSize)
	}
}

func TestResizeContainedMediaKeepsAspect(t *testing.T) {
	// Canvas stretches 2x on width only; a contained 4:3 image must follow
	// its own aspect ratio at the new width instead of stretching.
	s := NewStore()
	s.SelectTemplate(&canvas.Template{
		ID:               "t",
		CanvasDimensions: canvas.Dimensions{Width: 1000, Height: 1000},
		Elements: []canvas.Element{
			{ID: "contained", Type: canvas.ElementImage, ObjectFit: "contain",
				X: 0, Y: 0, Width: 400, Height: 300, Opacity: 1},
			{ID: "covered", Type: canvas.ElementImage, ObjectFit: "cover",
				X: 0, Y: 0, Width: 400, Height: 300, Opacity: 1},
		},
	})
	s.SetCanvasDimensions(canvas.Dimensions{Width: 2000, Height: 1000})
	st := s.Snapshot()

	contained := st.Template.Elements[0]
	if !near(contained.Width, 800) {
		t.Fatalf("contained width: %v", contained.Width)
	}
	if !near(contained.Height, 600) {
		t.Fatalf("contained height must be 800/(4/3)=600, got %v", contained.Height)
	}

	covered := st.Template.Elements[1]
	if !near(covered.Width, 800) || !near(covered.Height, 300) {
		t.Fatalf("covered media keeps anisotropic height: %+v", covered)
	}
}

func TestResizeNoOpScaleIsIdentity(t *testing.T) {
	s := NewStore()
	tpl := quoteTemplate()
	s.SelectTemplate(tpl)
	before := s.Snapshot()
	if !s.SetCanvasDimensions(tpl.CanvasDimensions) {
		t.Fatalf("no-op scale must still report applied")
	}
	after := s.Snapshot()
	for i := range before.Template.Elements {
		b, a := before.Template.Elements[i], after.Template.Elements[i]
		if b.X != a.X || b.Y != a.Y || b.Width != a.Width || b.Height != a.Height || b.FontSize != a.FontSize {
			t.Fatalf("element %d changed under scale 1: %+v vs %+v", i, b, a)
		}
	}
}

func TestResizeRoundTripLaw(t *testing.T) {
	// Applying a resize sequence and then returning to the original
	// dimensions must reproduce the bounding boxes within floating-point
	// tolerance, for elements without aspect-preserving object fit.
	s := NewStore()
	s.SelectTemplate(&canvas.Template{
		ID:               "t",
		CanvasDimensions: canvas.Dimensions{Width: 1080, Height: 1080},
		Elements: []canvas.Element{
			{ID: "text", Type: canvas.ElementText, X: 100, Y: 100, Width: 200, Height: 50, FontSize: 24, Opacity: 1},
			{ID: "cover", Type: canvas.ElementImage, ObjectFit: "cover", X: 30, Y: 700, Width: 500, Height: 250, Opacity: 1},
			{ID: "bar", Type: canvas.ElementShape, X: 40, Y: 900, Width: 1000, Height: 8, Opacity: 1},
		},
	})
	before := s.Snapshot()

	seq := []canvas.Dimensions{
		{Width: 1080, Height: 1920},
		{Width: 720, Height: 720},
		{Width: 1920, Height: 1080},
		{Width: 1080, Height: 1080},
	}
	for _, d := range seq {
		if !s.SetCanvasDimensions(d) {
			t.Fatalf("resize to %+v failed", d)
		}
	}
	after := s.Snapshot()
	for i := range before.Template.Elements {
		b, a := before.Template.Elements[i], after.Template.Elements[i]
		for _, pair := range [][2]float64{{b.X, a.X}, {b.Y, a.Y}, {b.Width, a.Width}, {b.Height, a.Height}} {
			if math.Abs(pair[0]-pair[1]) > 1e-6 {
				t.Fatalf("element %s drifted: before %+v after %+v", b.ID, b, a)
			}
		}
	}
}

func TestResizeComposesFromCurrentState(t *testing.T) {
	// Two successive resizes must compose multiplicatively, not replay from
	// a cached original.
	s := NewStore()
	s.SelectTemplate(&canvas.Template{
		ID:               "t",
		CanvasDimensions: canvas.Dimensions{Width: 100, Height: 100},
		Elements: []canvas.Element{{
			ID: "e", Type: canvas.ElementShape, X: 10, Y: 10, Width: 20, Height: 20, Opacity: 1,
		}},
	})
	s.SetCanvasDimensions(canvas.Dimensions{Width: 200, Height: 100})
	s.SetCanvasDimensions(canvas.Dimensions{Width: 400, Height: 100})
	el := s.Snapshot().Template.Elements[0]
	if !near(el.X, 40) || !near(el.Width, 80) {
		t.Fatalf("composed horizontal scale: %+v", el)
	}
	if !near(el.Y, 10) || !near(el.Height, 20) {
		t.Fatalf("vertical axis must be untouched: %+v", el)
	}
}

func TestResizeUpdatesDimensionsAtomically(t *testing.T) {
	s := NewStore()
	s.SelectTemplate(quoteTemplate())
	var seen []canvas.Dimensions
	s.Subscribe(func(st State) { seen = append(seen, st.Template.CanvasDimensions) })
	s.SetCanvasDimensions(canvas.Dimensions{Width: 1080, Height: 1920})
	if len(seen) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(seen))
	}
	if seen[0].Width != 1080 || seen[0].Height != 1920 {
		t.Fatalf("observed intermediate state: %+v", seen[0])
	}
}

func TestResizeRejectsNonPositiveDimensions(t *testing.T) {
	s := NewStore()
	s.SelectTemplate(quoteTemplate())
	before := s.Snapshot()
	if s.SetCanvasDimensions(canvas.Dimensions{Width: 0, Height: 1080}) {
		t.Fatalf("zero width must be rejected")
	}
	if s.SetCanvasDimensions(canvas.Dimensions{Width: 1080, Height: -5}) {
		t.Fatalf("negative height must be rejected")
	}
	after := s.Snapshot()
	if after.Template.CanvasDimensions != before.Template.CanvasDimensions {
		t.Fatalf("dimensions changed on rejected resize")
	}
}

func TestResizeResyncsSelection(t *testing.T) {
	s := NewStore()
	tpl := quoteTemplate()
	s.SelectTemplate(tpl)
	s.SelectElement(&tpl.Elements[0])
	s.SetCanvasDimensions(canvas.Dimensions{Width: 2160, Height: 2160})
	st := s.Snapshot()
	if !near(st.SelectedElement.X, 200) || !near(st.SelectedElement.FontSize, 48) {
		t.Fatalf("selected element not rescaled: %+v", st.SelectedElement)
	}
}
