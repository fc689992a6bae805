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

package geometry

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"seehuhn.de/go/geom/vec"
)

const eps = 1e-9

func closeVec(a, b vec.Vec2) bool {
	return scalar.EqualWithinAbs(a.X, b.X, eps) && scalar.EqualWithinAbs(a.Y, b.Y, eps)
}

func TestRotate(t *testing.T) {
	cases := []struct {
		in   vec.Vec2
		deg  float64
		want vec.Vec2
	}{
		{vec.Vec2{X: 1, Y: 0}, 0, vec.Vec2{X: 1, Y: 0}},
		{vec.Vec2{X: 1, Y: 0}, 90, vec.Vec2{X: 0, Y: 1}},
		{vec.Vec2{X: 1, Y: 0}, 180, vec.Vec2{X: -1, Y: 0}},
		{vec.Vec2{X: 0, Y: 1}, -90, vec.Vec2{X: 1, Y: 0}},
		{vec.Vec2{X: 2, Y: 3}, 360, vec.Vec2{X: 2, Y: 3}},
	}
	for _, c := range cases {
		got := Rotate(c.in, c.deg)
		if !closeVec(got, c.want) {
			t.Errorf("Rotate(%v, %g) = %v, want %v", c.in, c.deg, got, c.want)
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	v := vec.Vec2{X: 3.5, Y: -1.25}
	for _, deg := range []float64{13, 45, 90, 137.5, -200} {
		got := Rotate(Rotate(v, deg), -deg)
		if !closeVec(got, v) {
			t.Errorf("round trip through %g degrees: got %v, want %v", deg, got, v)
		}
	}
}

func TestAngle(t *testing.T) {
	cases := []struct {
		v    vec.Vec2
		want float64
	}{
		{vec.Vec2{X: 1, Y: 0}, 0},
		{vec.Vec2{X: 0, Y: 1}, 90},
		{vec.Vec2{X: -1, Y: 0}, 180},
		{vec.Vec2{X: 0, Y: -1}, -90},
		{vec.Vec2{X: 1, Y: 1}, 45},
	}
	for _, c := range cases {
		if got := Angle(c.v); !scalar.EqualWithinAbs(got, c.want, eps) {
			t.Errorf("Angle(%v) = %g, want %g", c.v, got, c.want)
		}
	}
}

func TestLayerMatrixCenter(t *testing.T) {
	// the content center always lands on (x, y)
	for _, rot := range []float64{0, 30, 90, -45} {
		m := LayerMatrix(400, 300, 200, 100, rot, 1.5, -0.5)
		got := Apply(m, vec.Vec2{X: 100, Y: 50})
		if !closeVec(got, vec.Vec2{X: 400, Y: 300}) {
			t.Errorf("rot %g: center maps to %v", rot, got)
		}
	}
}

func TestLayerMatrixCorners(t *testing.T) {
	m := LayerMatrix(50, 40, 20, 10, 0, 2, 1)
	if got := Apply(m, vec.Vec2{}); !closeVec(got, vec.Vec2{X: 30, Y: 35}) {
		t.Errorf("top-left maps to %v", got)
	}

	m = LayerMatrix(0, 0, 20, 10, 90, 1, 1)
	// the local top-right corner (20, 0) is (10, -5) from the center,
	// which rotates to (5, 10)
	if got := Apply(m, vec.Vec2{X: 20, Y: 0}); !closeVec(got, vec.Vec2{X: 5, Y: 10}) {
		t.Errorf("rotated corner maps to %v", got)
	}
}

func TestBoundingBox(t *testing.T) {
	m := LayerMatrix(100, 100, 40, 20, 90, 1, 1)
	box := BoundingBox(m, 40, 20)
	want := Box{Left: 90, Top: 80, Right: 110, Bottom: 120}
	if !scalar.EqualWithinAbs(box.Left, want.Left, eps) ||
		!scalar.EqualWithinAbs(box.Top, want.Top, eps) ||
		!scalar.EqualWithinAbs(box.Right, want.Right, eps) ||
		!scalar.EqualWithinAbs(box.Bottom, want.Bottom, eps) {
		t.Errorf("BoundingBox = %+v, want %+v", box, want)
	}
	if box.CenterX() != 100 || box.CenterY() != 100 {
		t.Errorf("center = (%g, %g)", box.CenterX(), box.CenterY())
	}
}

func TestBoxPixels(t *testing.T) {
	b := Box{Left: -3.5, Top: 2.2, Right: 10.1, Bottom: 500}
	x0, y0, x1, y1, ok := b.Pixels(8, 100)
	if !ok || x0 != 0 || y0 != 2 || x1 != 8 || y1 != 100 {
		t.Errorf("Pixels = %d %d %d %d %v", x0, y0, x1, y1, ok)
	}

	_, _, _, _, ok = Box{Left: 20, Top: 0, Right: 30, Bottom: 10}.Pixels(8, 8)
	if ok {
		t.Error("box outside the canvas reported pixels")
	}
}
