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

// Package geometry provides the vector and affine helpers shared by the
// compositor and the interactive sessions.
//
// Document space has its origin in the top-left corner of the canvas, with
// x increasing to the right and y increasing downwards. Angles are given in
// degrees; positive angles turn clockwise on screen.
//
// Points and vectors are [vec.Vec2] values; addition, subtraction, scaling
// and length come from that type.
package geometry

import (
	"math"

	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Rotate returns v rotated by deg degrees about the origin.
func Rotate(v vec.Vec2, deg float64) vec.Vec2 {
	if deg == 0 {
		return v
	}
	s, c := math.Sincos(deg * math.Pi / 180)
	return vec.Vec2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}

// Angle returns the direction of v in degrees, in the range (-180, 180].
// The zero vector has angle 0.
func Angle(v vec.Vec2) float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b vec.Vec2) float64 {
	return b.Sub(a).Length()
}

// LayerMatrix returns the matrix which maps the local content frame of a
// layer to document space. The local frame has its origin at the top-left
// corner of the unscaled w×h content box. The transformation is
//
//	translate(x, y) · rotate(rot) · scale(sx, sy) · translate(-w/2, -h/2)
//
// so that rotation and scaling act about the content center and the
// layer is placed by its center point.
func LayerMatrix(x, y, w, h, rot, sx, sy float64) matrix.Matrix {
	s, c := math.Sincos(rot * math.Pi / 180)
	a := c * sx
	b := s * sx
	cc := -s * sy
	d := c * sy
	return matrix.Matrix{
		a, b,
		cc, d,
		x - a*w/2 - cc*h/2,
		y - b*w/2 - d*h/2,
	}
}

// Apply maps the point v through m.
func Apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// ToAff3 converts m into the row-major layout used by
// golang.org/x/image/draw.
func ToAff3(m matrix.Matrix) f64.Aff3 {
	return f64.Aff3{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
	}
}

// Box is an axis-aligned rectangle in document space.
type Box struct {
	Left, Top, Right, Bottom float64
}

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// IsEmpty reports whether the box has no area.
func (b Box) IsEmpty() bool { return b.Right <= b.Left || b.Bottom <= b.Top }

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{Left: b.Left + dx, Top: b.Top + dy, Right: b.Right + dx, Bottom: b.Bottom + dy}
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Left:   min(b.Left, o.Left),
		Top:    min(b.Top, o.Top),
		Right:  max(b.Right, o.Right),
		Bottom: max(b.Bottom, o.Bottom),
	}
}

// Intersect returns the overlap of b and o. The result may be empty.
func (b Box) Intersect(o Box) Box {
	return Box{
		Left:   max(b.Left, o.Left),
		Top:    max(b.Top, o.Top),
		Right:  min(b.Right, o.Right),
		Bottom: min(b.Bottom, o.Bottom),
	}
}

// Pixels returns the integer pixel rectangle bounds (left, top, right,
// bottom) covering the box, clamped to [0, w)×[0, h).
// ok is false if no pixel is covered.
func (b Box) Pixels(w, h int) (x0, y0, x1, y1 int, ok bool) {
	x0 = max(int(math.Floor(b.Left)), 0)
	y0 = max(int(math.Floor(b.Top)), 0)
	x1 = min(int(math.Ceil(b.Right)), w)
	y1 = min(int(math.Ceil(b.Bottom)), h)
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}

// BoundingBox returns the axis-aligned box enclosing the image of the
// rectangle (0,0)-(w,h) under m.
func BoundingBox(m matrix.Matrix, w, h float64) Box {
	corners := [4]vec.Vec2{
		Apply(m, vec.Vec2{X: 0, Y: 0}),
		Apply(m, vec.Vec2{X: w, Y: 0}),
		Apply(m, vec.Vec2{X: w, Y: h}),
		Apply(m, vec.Vec2{X: 0, Y: h}),
	}
	box := Box{Left: corners[0].X, Top: corners[0].Y, Right: corners[0].X, Bottom: corners[0].Y}
	for _, p := range corners[1:] {
		box.Left = min(box.Left, p.X)
		box.Right = max(box.Right, p.X)
		box.Top = min(box.Top, p.Y)
		box.Bottom = max(box.Bottom, p.Y)
	}
	return box
}
