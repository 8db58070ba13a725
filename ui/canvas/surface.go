package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"score-viewer/pkg/geometry"
)

// RenderSurface is the primitive drawing interface every overlay renders
// through. Overlay code never touches pixels or a toolkit directly; one
// surface implementation is chosen at startup, which keeps the overlays
// free of backend branching.
type RenderSurface interface {
	FillRect(r geometry.Rect, c color.Color)
	StrokeRect(r geometry.Rect, c color.Color, width float64)
	FillCircle(center geometry.Point2D, radius float64, c color.Color)
	DrawText(text string, center geometry.Point2D, c color.Color)
}

// rgbaSurface renders onto an RGBA image in software. It is the surface
// backing the fyne raster widget.
type rgbaSurface struct {
	img *image.RGBA
}

// NewRGBASurface creates a software render surface over an RGBA image.
func NewRGBASurface(img *image.RGBA) RenderSurface {
	return &rgbaSurface{img: img}
}

func (s *rgbaSurface) FillRect(r geometry.Rect, c color.Color) {
	x1, y1, x2, y2 := clipRect(r, s.img.Bounds())
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			s.blend(x, y, c)
		}
	}
}

func (s *rgbaSurface) StrokeRect(r geometry.Rect, c color.Color, width float64) {
	w := width
	if w < 1 {
		w = 1
	}
	top := geometry.NewRect(r.X, r.Y, r.Width, w)
	bottom := geometry.NewRect(r.X, r.Y+r.Height-w, r.Width, w)
	left := geometry.NewRect(r.X, r.Y, w, r.Height)
	right := geometry.NewRect(r.X+r.Width-w, r.Y, w, r.Height)
	for _, edge := range []geometry.Rect{top, bottom, left, right} {
		s.FillRect(edge, c)
	}
}

func (s *rgbaSurface) FillCircle(center geometry.Point2D, radius float64, c color.Color) {
	box := geometry.NewRect(center.X-radius, center.Y-radius, 2*radius, 2*radius)
	x1, y1, x2, y2 := clipRect(box, s.img.Bounds())
	r2 := radius * radius
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			if dx*dx+dy*dy <= r2 {
				s.blend(x, y, c)
			}
		}
	}
}

func (s *rgbaSurface) DrawText(text string, center geometry.Point2D, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()

	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(center.X) - width/2),
			Y: fixed.I(int(center.Y) + face.Metrics().Ascent.Ceil()/2),
		},
	}
	d.DrawString(text)
}

// blend draws a possibly translucent color over the existing pixel.
func (s *rgbaSurface) blend(x, y int, c color.Color) {
	sr, sg, sb, sa := c.RGBA()
	if sa == 0 {
		return
	}
	if sa == 0xffff {
		s.img.Set(x, y, c)
		return
	}
	// RGBA() channels are alpha-premultiplied, so the over operator is
	// src + dst*(1-alpha).
	dr, dg, db, _ := s.img.At(x, y).RGBA()
	inv := 1 - float64(sa)/0xffff
	s.img.Set(x, y, color.RGBA{
		R: uint8(float64(sr>>8) + float64(dr>>8)*inv),
		G: uint8(float64(sg>>8) + float64(dg>>8)*inv),
		B: uint8(float64(sb>>8) + float64(db>>8)*inv),
		A: 255,
	})
}

// clipRect clips a float rect to image bounds, returning integer pixel
// ranges [x1,x2) x [y1,y2).
func clipRect(r geometry.Rect, bounds image.Rectangle) (x1, y1, x2, y2 int) {
	x1 = int(r.X)
	y1 = int(r.Y)
	x2 = int(r.X + r.Width)
	y2 = int(r.Y + r.Height)
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}
	return x1, y1, x2, y2
}
