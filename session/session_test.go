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

package session

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layers/document"
	"seehuhn.de/go/layers/geometry"
	"seehuhn.de/go/layers/layer"
)

const eps = 1e-9

func box(w, h int) geometry.Box {
	return geometry.Box{Right: float64(w), Bottom: float64(h)}
}

func TestViewport(t *testing.T) {
	v := Viewport{Zoom: 2, Pan: vec.Vec2{X: 10, Y: 20}}
	p := vec.Vec2{X: 3, Y: 4}
	if got := v.ToDocument(v.ToScreen(p)); got != p {
		t.Errorf("round trip gave %v", got)
	}
	if got := v.Delta(vec.Vec2{X: 10, Y: -4}); got != (vec.Vec2{X: 5, Y: -2}) {
		t.Errorf("delta %v", got)
	}
	var zero Viewport
	if got := zero.Delta(vec.Vec2{X: 1, Y: 1}); got != (vec.Vec2{X: 1, Y: 1}) {
		t.Errorf("zero zoom delta %v", got)
	}
}

func TestTransformRotate(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 100, 100, 40, 20)
	tr := StartTransform(l, HandleRotate, false, vec.Vec2{X: 200, Y: 100}, DefaultViewport, ToolTransform)
	p := tr.Update(vec.Vec2{X: 100, Y: 200})
	if !scalar.EqualWithinAbs(p.Rotation, 90, eps) {
		t.Errorf("rotation %g, want 90", p.Rotation)
	}
	if p.X != 100 || p.Y != 100 || p.ScaleX != 1 || p.ScaleY != 1 {
		t.Errorf("rotation changed other fields: %+v", p)
	}
	if !tr.Changed() {
		t.Error("Changed() = false")
	}
	if _, ok := tr.RestoreTool(); ok {
		t.Error("transform tool should not be restored")
	}
}

func TestTransformRightHandle(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 100, 100, 200, 100)
	tr := StartTransform(l, HandleRight, false, vec.Vec2{X: 200, Y: 100}, DefaultViewport, ToolMove)
	p := tr.Update(vec.Vec2{X: 250, Y: 130})

	if p.ScaleX != 1.25 || p.ScaleY != 1 {
		t.Errorf("scale %g %g", p.ScaleX, p.ScaleY)
	}
	// the left edge stays at x=0
	m := p.Apply(l)
	if b := m.Bounds(); !scalar.EqualWithinAbs(b.Left, 0, eps) || !scalar.EqualWithinAbs(b.Right, 250, eps) {
		t.Errorf("bounds %+v", b)
	}
	if tool, ok := tr.RestoreTool(); !ok || tool != ToolMove {
		t.Error("move tool not remembered")
	}
}

func TestTransformZoom(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 100, 100, 100, 100)
	view := Viewport{Zoom: 2}
	tr := StartTransform(l, HandleBottom, false, vec.Vec2{X: 200, Y: 300}, view, ToolTransform)
	p := tr.Update(vec.Vec2{X: 200, Y: 400})
	if p.ScaleY != 1.5 || p.ScaleX != 1 {
		t.Errorf("scale %g %g", p.ScaleX, p.ScaleY)
	}
	if p.Y != 125 {
		t.Errorf("center y %g, want 125", p.Y)
	}
}

func TestTransformRotatedLayer(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 100, 100, 100, 50)
	l.Rotation = 90

	// The local x axis points down on screen.
	tr := StartTransform(l, HandleRight, false, vec.Vec2{X: 100, Y: 150}, DefaultViewport, ToolTransform)
	p := tr.Update(vec.Vec2{X: 100, Y: 200})
	if !scalar.EqualWithinAbs(p.ScaleX, 1.5, eps) || !scalar.EqualWithinAbs(p.ScaleY, 1, eps) {
		t.Errorf("scale %g %g", p.ScaleX, p.ScaleY)
	}
	if !scalar.EqualWithinAbs(p.X, 100, eps) || !scalar.EqualWithinAbs(p.Y, 125, eps) {
		t.Errorf("center %g %g", p.X, p.Y)
	}
}

func TestTransformFlipRoundTrip(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 100, 100, 100, 50)

	rot := StartTransform(l, HandleRotate, false, vec.Vec2{X: 200, Y: 100}, DefaultViewport, ToolTransform)
	l = rot.Update(vec.Vec2{X: 100, Y: 200}).Apply(l)

	// Drag the left handle past the right edge, which flips the layer,
	// and then back to where it started.
	start := vec.Vec2{X: 100, Y: 50}
	tr := StartTransform(l, HandleLeft, false, start, DefaultViewport, ToolTransform)
	flipped := tr.Update(vec.Vec2{X: 100, Y: 250})
	if !scalar.EqualWithinAbs(flipped.ScaleX, -1, eps) {
		t.Fatalf("scaleX %g, want -1", flipped.ScaleX)
	}
	l2 := flipped.Apply(l)

	tr = StartTransform(l2, HandleLeft, false, vec.Vec2{X: 100, Y: 250}, DefaultViewport, ToolTransform)
	back := tr.Update(vec.Vec2{X: 100, Y: 50})
	if !scalar.EqualWithinAbs(back.ScaleX, l.ScaleX, eps) {
		t.Errorf("scaleX %g, want %g", back.ScaleX, l.ScaleX)
	}

	// Returning the pointer to the start restores the values exactly.
	if p := tr.Update(vec.Vec2{X: 100, Y: 250}); p.ScaleX != l2.ScaleX || tr.Changed() {
		t.Errorf("scaleX %g, want %g", p.ScaleX, l2.ScaleX)
	}
}

func TestTransformAspectLock(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 300, 300, 200, 100)

	for _, h := range []Handle{HandleRight, HandleLeft} {
		t.Run(h.String(), func(t *testing.T) {
			dx := 100.0
			if h == HandleLeft {
				dx = -100
			}
			tr := StartTransform(l, h, true, vec.Vec2{X: 0, Y: 0}, DefaultViewport, ToolTransform)
			p := tr.Update(vec.Vec2{X: dx, Y: 7})
			if p.ScaleX != 1.5 || p.ScaleY != 1.5 {
				t.Errorf("scale %g %g, want 1.5 1.5", p.ScaleX, p.ScaleY)
			}
			m := p.Apply(l)
			aw := m.Width * m.ScaleX
			ah := m.Height * m.ScaleY
			if aw/ah != 2 {
				t.Errorf("apparent size %gx%g", aw, ah)
			}
			if p.Y != 300 {
				t.Errorf("center y %g", p.Y)
			}
		})
	}

	// The sign of a flipped coupled axis is kept.
	flipped := l.WithPosition(300, 300)
	flipped.ScaleY = -1
	tr := StartTransform(flipped, HandleRight, true, vec.Vec2{}, DefaultViewport, ToolTransform)
	if p := tr.Update(vec.Vec2{X: 100}); p.ScaleY != -1.5 {
		t.Errorf("scaleY %g, want -1.5", p.ScaleY)
	}

	// Corner handles scale both axes freely.
	tr = StartTransform(l, HandleBottomRight, true, vec.Vec2{}, DefaultViewport, ToolTransform)
	if p := tr.Update(vec.Vec2{X: 100, Y: 10}); p.ScaleX != 1.5 || !scalar.EqualWithinAbs(p.ScaleY, 1.1, eps) {
		t.Errorf("corner scale %g %g", p.ScaleX, p.ScaleY)
	}
}

func TestMoveLocked(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 0, 0, 1, 1).WithLocked(true)
	if StartMove(l, vec.Vec2{}) != nil {
		t.Error("started a move on a locked layer")
	}
}

func TestMoveSnapCanvasLeft(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 200, 250, 100, 100)
	stack := document.NewStack(l)
	targets := Targets(stack, l.ID, box(800, 600))
	if len(targets) != 1 {
		t.Fatalf("%d targets", len(targets))
	}

	m := StartMove(l, vec.Vec2{X: 500, Y: 500})
	p := m.Update(vec.Vec2{X: 353, Y: 500}, l, targets, DefaultViewport, 8)
	if p.X != 50 || p.Y != 250 {
		t.Errorf("position %g %g, want 50 250", p.X, p.Y)
	}
	lines := m.SnapLines()
	if len(lines) != 1 || lines[0].Axis != Vertical || lines[0].Position != 0 {
		t.Fatalf("snap lines %+v", lines)
	}
	if lines[0].Start != 0 || lines[0].End != 600 {
		t.Errorf("line extent %g-%g", lines[0].Start, lines[0].End)
	}

	// Moving away discards the line.
	m.Update(vec.Vec2{X: 450, Y: 500}, l, targets, DefaultViewport, 8)
	if len(m.SnapLines()) != 0 {
		t.Errorf("stale snap lines %+v", m.SnapLines())
	}
}

func TestMoveSnapThresholdScalesWithZoom(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 200, 250, 100, 100)
	targets := Targets(document.NewStack(l), l.ID, box(800, 600))

	// At zoom 4, 8 screen pixels are 2 document units.
	view := Viewport{Zoom: 4}
	m := StartMove(l, vec.Vec2{})
	p := m.Update(vec.Vec2{X: -147 * 4}, l, targets, view, 8)
	if p.X != 53 {
		t.Errorf("snapped outside the threshold: x=%g", p.X)
	}
	p = m.Update(vec.Vec2{X: -148.5 * 4}, l, targets, view, 8)
	if p.X != 50 {
		t.Errorf("x=%g, want 50", p.X)
	}
}

func TestMoveSnapCenterY(t *testing.T) {
	a := layer.NewPixel("A", nil, 100, 200, 100, 100)
	b := layer.NewPixel("B", nil, 500, 400, 60, 50)
	hidden := layer.NewPixel("hidden", nil, 500, 201, 10, 10).WithVisible(false)
	stack := document.NewStack(a, b, hidden)
	targets := Targets(stack, b.ID, box(800, 600))
	if len(targets) != 2 {
		t.Fatalf("%d targets", len(targets))
	}

	m := StartMove(b, vec.Vec2{X: 0, Y: 0})
	p := m.Update(vec.Vec2{X: 0, Y: -198}, b, targets, DefaultViewport, 8)
	if p.Y != a.Bounds().CenterY() || p.X != 500 {
		t.Errorf("position %g %g", p.X, p.Y)
	}
	lines := m.SnapLines()
	if len(lines) != 1 || lines[0].Axis != Horizontal || lines[0].Position != 200 {
		t.Fatalf("snap lines %+v", lines)
	}
	if lines[0].Start != 50 || lines[0].End != 530 {
		t.Errorf("line extent %g-%g", lines[0].Start, lines[0].End)
	}

	final, ok := m.Commit(0.5)
	if !ok || final.Y != 200 {
		t.Errorf("commit %+v %t", final, ok)
	}
}

func TestMoveBothAxes(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 200, 200, 100, 100)
	targets := Targets(document.NewStack(l), l.ID, box(800, 600))
	m := StartMove(l, vec.Vec2{})
	p := m.Update(vec.Vec2{X: 197, Y: 104}, l, targets, DefaultViewport, 8)
	if p.X != 400 || p.Y != 300 {
		t.Errorf("position %g %g", p.X, p.Y)
	}
	if n := len(m.SnapLines()); n != 2 {
		t.Errorf("%d snap lines", n)
	}
}

func TestMoveDeadZone(t *testing.T) {
	l := layer.NewShape("s", layer.Shape{}, 200, 200, 10, 10)
	m := StartMove(l, vec.Vec2{})
	m.Update(vec.Vec2{X: 0.3, Y: 0.2}, l, nil, DefaultViewport, 8)
	if _, ok := m.Commit(0.5); ok {
		t.Error("jitter was committed")
	}
	m.Update(vec.Vec2{X: 3, Y: 0}, l, nil, DefaultViewport, 8)
	if p, ok := m.Commit(0.5); !ok || p.X != 203 {
		t.Errorf("commit %+v %t", p, ok)
	}
}
