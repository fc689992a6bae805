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
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layers/document"
	"seehuhn.de/go/layers/geometry"
	"seehuhn.de/go/layers/layer"
)

// Axis is the orientation of a snap line.
type Axis uint8

const (
	// Vertical lines have a constant x coordinate.
	Vertical Axis = iota
	// Horizontal lines have a constant y coordinate.
	Horizontal
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// SnapLine is an alignment guide in document space.
type SnapLine struct {
	Axis Axis

	// Position is the x coordinate of a vertical line, or the y
	// coordinate of a horizontal line.
	Position float64

	// Start and End give the extent of the line along its axis.
	Start, End float64
}

// Move is an active drag gesture.
type Move struct {
	LayerID layer.ID

	// Start is the pointer position at the start, in screen space.
	Start vec.Vec2

	// Origin is the layer center at the start.
	Origin vec.Vec2

	// Latest is the most recent pointer position, in screen space.
	Latest vec.Vec2

	pos   vec.Vec2
	lines []SnapLine
}

// StartMove begins a drag of l. Locked layers cannot be moved; in this
// case nil is returned.
func StartMove(l *layer.Layer, pointer vec.Vec2) *Move {
	if l == nil || l.Locked {
		return nil
	}
	return &Move{
		LayerID: l.ID,
		Start:   pointer,
		Origin:  l.Center(),
		Latest:  pointer,
		pos:     l.Center(),
	}
}

// Targets returns the boxes a moving layer can snap to: every other
// visible, non-background layer of the stack, followed by the canvas.
func Targets(stack document.Stack, moving layer.ID, canvas geometry.Box) []geometry.Box {
	var res []geometry.Box
	for _, l := range stack.All() {
		if l.ID == moving || !l.Visible || l.Background {
			continue
		}
		res = append(res, l.Bounds())
	}
	return append(res, canvas)
}

// Update computes the preview for the given pointer position.
//
// The candidate position is the start position plus the pointer
// displacement converted to document space. If an edge or the center of
// the moving layer's bounding box comes within threshold screen pixels of
// the same feature of a target box, the position is snapped onto it. At
// most one vertical and one horizontal snap are applied, choosing the
// closest match on each axis.
func (m *Move) Update(pointer vec.Vec2, l *layer.Layer, targets []geometry.Box, view Viewport, threshold float64) layer.Patch {
	m.Latest = pointer
	cand := m.Origin.Add(view.Delta(pointer.Sub(m.Start)))

	box := l.Bounds().Translate(cand.X-l.X, cand.Y-l.Y)
	tol := threshold / view.zoom()

	dx, bx, okX := bestSnap(box, targets, tol, xFeatures)
	dy, by, okY := bestSnap(box, targets, tol, yFeatures)
	cand.X += dx
	cand.Y += dy
	box = box.Translate(dx, dy)

	m.lines = nil
	if okX {
		m.lines = append(m.lines, SnapLine{
			Axis:     Vertical,
			Position: bx.pos,
			Start:    min(box.Top, bx.target.Top),
			End:      max(box.Bottom, bx.target.Bottom),
		})
	}
	if okY {
		m.lines = append(m.lines, SnapLine{
			Axis:     Horizontal,
			Position: by.pos,
			Start:    min(box.Left, by.target.Left),
			End:      max(box.Right, by.target.Right),
		})
	}

	m.pos = cand
	return m.Patch()
}

// Patch returns the most recent preview.
func (m *Move) Patch() layer.Patch {
	return layer.Patch{
		LayerID: m.LayerID,
		Fields:  layer.FieldPosition,
		X:       m.pos.X,
		Y:       m.pos.Y,
	}
}

// Position returns the most recent preview position.
func (m *Move) Position() vec.Vec2 {
	return m.pos
}

// SnapLines returns the guides found by the most recent update.
func (m *Move) SnapLines() []SnapLine {
	return m.lines
}

// Commit returns the final position. The second result is false if the
// layer moved by no more than deadZone document units, in which case the
// gesture should leave no trace.
func (m *Move) Commit(deadZone float64) (layer.Patch, bool) {
	d := geometry.Distance(m.Origin, m.pos)
	if d <= deadZone {
		return layer.Patch{}, false
	}
	return m.Patch(), true
}

// feature extracts the left/center/right or top/center/bottom
// coordinates of a box.
type feature func(b geometry.Box) [3]float64

func xFeatures(b geometry.Box) [3]float64 {
	return [3]float64{b.Left, b.CenterX(), b.Right}
}

func yFeatures(b geometry.Box) [3]float64 {
	return [3]float64{b.Top, b.CenterY(), b.Bottom}
}

type snapMatch struct {
	pos    float64
	target geometry.Box
}

// bestSnap finds the closest pair of matching features within tol.
// It returns the offset to apply to the moving box.
func bestSnap(box geometry.Box, targets []geometry.Box, tol float64, f feature) (float64, snapMatch, bool) {
	moving := f(box)
	best := math.Inf(1)
	var offset float64
	var match snapMatch
	for _, t := range targets {
		tf := f(t)
		for i := range moving {
			if !scalar.EqualWithinAbs(moving[i], tf[i], tol) {
				continue
			}
			if d := math.Abs(tf[i] - moving[i]); d < best {
				best = d
				offset = tf[i] - moving[i]
				match = snapMatch{pos: tf[i], target: t}
			}
		}
	}
	return offset, match, !math.IsInf(best, 1)
}
