// seehuhn.de/go/layers - a layered image editing core
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package layer

import (
	"fmt"
	"image"
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/layers/raster"
)

// ShapeType is the geometric primitive of a shape layer.
type ShapeType uint8

const (
	ShapeRectangle ShapeType = iota
	ShapeEllipse
	ShapeTriangle
	ShapeLine
)

var shapeNames = map[ShapeType]string{
	ShapeRectangle: "rectangle",
	ShapeEllipse:   "ellipse",
	ShapeTriangle:  "triangle",
	ShapeLine:      "line",
}

func (t ShapeType) String() string {
	if n, ok := shapeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ShapeType(%d)", t)
}

// MarshalText implements [encoding.TextMarshaler].
func (t ShapeType) MarshalText() ([]byte, error) {
	n, ok := shapeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown shape type %d", t)
	}
	return []byte(n), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *ShapeType) UnmarshalText(text []byte) error {
	for k, n := range shapeNames {
		if n == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown shape type %q", text)
}

// Shape describes the content of a shape layer. The shape fills the
// unscaled content box of its layer.
type Shape struct {
	Type ShapeType

	// Fill is the interior color, or nil for no fill.
	// Lines have no interior.
	Fill *color.NRGBA

	// Stroke is the outline color, or nil for no outline.
	Stroke *color.NRGBA

	// StrokeWidth is given in content units, so it scales with the layer.
	StrokeWidth float64

	Join graphics.LineJoinStyle
	Cap  graphics.LineCapStyle
}

// kappa places the control points of a cubic Bézier quarter ellipse.
const kappa = 0.5522847498

// Outline returns the outline of the shape inside the box (0,0)-(w,h).
func (s *Shape) Outline(w, h float64) path.Path {
	switch s.Type {
	case ShapeEllipse:
		return ellipse(w, h)
	case ShapeTriangle:
		return polyline(true, vec.Vec2{X: w / 2, Y: 0}, vec.Vec2{X: w, Y: h}, vec.Vec2{X: 0, Y: h})
	case ShapeLine:
		return polyline(false, vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: w, Y: h})
	default:
		return polyline(true,
			vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: w, Y: 0},
			vec.Vec2{X: w, Y: h}, vec.Vec2{X: 0, Y: h})
	}
}

// Paint draws the shape onto dst, using ctm to map the content box
// (0,0)-(w,h) to the pixel grid of dst. The fill is drawn first, then
// the stroke, both using source-over compositing.
func (s *Shape) Paint(dst *image.RGBA, r *raster.Rasterizer, ctm matrix.Matrix, w, h float64) {
	b := dst.Rect
	r.CTM = ctm
	r.Clip = rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	}

	outline := s.Outline(w, h)
	if s.Fill != nil && s.Type != ShapeLine {
		r.Fill(outline, raster.NonZero, spanPainter(dst, *s.Fill))
	}
	if s.Stroke != nil && s.StrokeWidth > 0 {
		r.Width = s.StrokeWidth
		r.Join = s.Join
		r.Cap = s.Cap
		r.Stroke(outline, spanPainter(dst, *s.Stroke))
	}
}

// spanPainter returns an emit callback which paints col, weighted by
// coverage, over the existing pixels of dst.
func spanPainter(dst *image.RGBA, col color.NRGBA) raster.EmitFunc {
	return func(y, xMin int, coverage []float32) {
		i := dst.PixOffset(xMin, y)
		for _, c := range coverage {
			a := uint32(c*float32(col.A) + 0.5)
			if a > 0 {
				p := dst.Pix[i : i+4 : i+4]
				inv := 255 - a
				p[0] = uint8((uint32(col.R)*a + uint32(p[0])*inv + 127) / 255)
				p[1] = uint8((uint32(col.G)*a + uint32(p[1])*inv + 127) / 255)
				p[2] = uint8((uint32(col.B)*a + uint32(p[2])*inv + 127) / 255)
				p[3] = uint8((255*a + uint32(p[3])*inv + 127) / 255)
			}
			i += 4
		}
	}
}

func polyline(closed bool, pts ...vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if !yield(path.CmdMoveTo, pts[:1]) {
			return
		}
		for i := 1; i < len(pts); i++ {
			if !yield(path.CmdLineTo, pts[i:i+1]) {
				return
			}
		}
		if closed {
			yield(path.CmdClose, nil)
		}
	}
}

// ellipse approximates the ellipse inscribed in (0,0)-(w,h) by four cubic
// Bézier curves.
func ellipse(w, h float64) path.Path {
	rx, ry := w/2, h/2
	kx, ky := kappa*rx, kappa*ry
	return func(yield func(path.Command, []vec.Vec2) bool) {
		var buf [3]vec.Vec2
		buf[0] = vec.Vec2{X: w, Y: ry}
		if !yield(path.CmdMoveTo, buf[:1]) {
			return
		}
		quarters := [4][3]vec.Vec2{
			{{X: w, Y: ry + ky}, {X: rx + kx, Y: h}, {X: rx, Y: h}},
			{{X: rx - kx, Y: h}, {X: 0, Y: ry + ky}, {X: 0, Y: ry}},
			{{X: 0, Y: ry - ky}, {X: rx - kx, Y: 0}, {X: rx, Y: 0}},
			{{X: rx + kx, Y: 0}, {X: w, Y: ry - ky}, {X: w, Y: ry}},
		}
		for _, q := range quarters {
			buf = q
			if !yield(path.CmdCubeTo, buf[:]) {
				return
			}
		}
		yield(path.CmdClose, nil)
	}
}
