package canvas

import (
	"math"
	"testing"

	"score-viewer/pkg/geometry"
)

func TestSetZoomClamps(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.0, 1.0},
		{0.5, 0.5},
		{3.0, 3.0},
		{0.1, MinZoom},
		{0.0, MinZoom},
		{10.0, MaxZoom},
		{-2.0, MinZoom},
	}
	for _, c := range cases {
		v := NewView()
		v.SetZoom(c.in)
		if v.Zoom() != c.want {
			t.Errorf("SetZoom(%g): zoom = %g, want %g", c.in, v.Zoom(), c.want)
		}
	}
}

func TestZoomStepsStayInRange(t *testing.T) {
	v := NewView()
	for i := 0; i < 20; i++ {
		v.ZoomIn()
	}
	if v.Zoom() != MaxZoom {
		t.Fatalf("zoom after many steps = %g, want %g", v.Zoom(), MaxZoom)
	}
	for i := 0; i < 40; i++ {
		v.ZoomOut()
	}
	if v.Zoom() != MinZoom {
		t.Fatalf("zoom after many out-steps = %g, want %g", v.Zoom(), MinZoom)
	}
}

func TestScreenDocumentRoundTrip(t *testing.T) {
	v := NewView()
	v.SetZoom(2.0)
	v.SetOffset(-120, 45)

	doc := geometry.NewPoint2D(300, 180)
	screen := v.DocumentToScreen(doc)
	back := v.ScreenToDocument(screen)

	if math.Abs(back.X-doc.X) > 1e-9 || math.Abs(back.Y-doc.Y) > 1e-9 {
		t.Fatalf("round trip %+v -> %+v -> %+v", doc, screen, back)
	}
}

func TestDocumentToScreenAppliesZoomThenPan(t *testing.T) {
	v := NewView()
	v.SetZoom(2.0)
	v.SetOffset(10, 20)

	got := v.DocumentToScreen(geometry.NewPoint2D(5, 7))
	if got.X != 20 || got.Y != 34 {
		t.Fatalf("DocumentToScreen = %+v, want (20, 34)", got)
	}
}

func TestPanBy(t *testing.T) {
	v := NewView()
	v.PanBy(12, -7)
	v.PanBy(3, 2)
	x, y := v.Offset()
	if x != 15 || y != -5 {
		t.Fatalf("offset = (%g, %g), want (15, -5)", x, y)
	}
}

func TestReset(t *testing.T) {
	v := NewView()
	v.SetZoom(2.5)
	v.PanBy(100, 100)
	v.Reset()
	if v.Zoom() != 1.0 {
		t.Fatalf("zoom after reset = %g", v.Zoom())
	}
	if x, y := v.Offset(); x != 0 || y != 0 {
		t.Fatalf("offset after reset = (%g, %g)", x, y)
	}
}
