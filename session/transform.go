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

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layers/geometry"
	"seehuhn.de/go/layers/layer"
)

// Transform is an active resize or rotate gesture.
//
// The target must be an unlocked, non-background layer. Callers check
// this before starting the session.
type Transform struct {
	// Original is the layer as it was when the gesture started.
	Original *layer.Layer

	Handle     Handle
	AspectLock bool

	// Start is the pointer position at the start, in screen space.
	Start vec.Vec2

	// View is the viewport in effect at the start.
	View Viewport

	restore    Tool
	hasRestore bool

	patch layer.Patch
}

// StartTransform begins a transform gesture on l. If tool is the move
// tool, it is remembered so that it can be restored when the gesture
// ends.
func StartTransform(l *layer.Layer, h Handle, aspectLock bool, pointer vec.Vec2, view Viewport, tool Tool) *Transform {
	return &Transform{
		Original:   l,
		Handle:     h,
		AspectLock: aspectLock,
		Start:      pointer,
		View:       view,
		restore:    tool,
		hasRestore: tool == ToolMove,
		patch:      layer.PatchOf(l, layer.FieldTransform),
	}
}

// LayerID returns the ID of the layer being transformed.
func (t *Transform) LayerID() layer.ID {
	return t.Original.ID
}

// Patch returns the most recent preview.
func (t *Transform) Patch() layer.Patch {
	return t.patch
}

// Changed reports whether the current preview differs from the original.
func (t *Transform) Changed() bool {
	return t.patch.Changes(t.Original)
}

// RestoreTool returns the tool to select when the gesture ends.
// The second result is false if the tool should not change.
func (t *Transform) RestoreTool() (Tool, bool) {
	return t.restore, t.hasRestore
}

// Update computes the preview for the given pointer position, in screen
// space.
func (t *Transform) Update(pointer vec.Vec2) layer.Patch {
	o := t.Original
	p := layer.PatchOf(o, layer.FieldTransform)

	if t.Handle == HandleRotate {
		center := o.Center()
		a0 := geometry.Angle(t.View.ToDocument(t.Start).Sub(center))
		a1 := geometry.Angle(t.View.ToDocument(pointer).Sub(center))
		p.Rotation = o.Rotation + (a1 - a0)
		t.patch = p
		return p
	}

	d := t.View.Delta(pointer.Sub(t.Start))
	local := geometry.Rotate(d, -o.Rotation)

	sx, sy := o.ScaleX, o.ScaleY
	if o.Width > 0 {
		switch {
		case t.Handle.left():
			sx -= local.X / o.Width
		case t.Handle.right():
			sx += local.X / o.Width
		}
	}
	if o.Height > 0 {
		switch {
		case t.Handle.top():
			sy -= local.Y / o.Height
		case t.Handle.bottom():
			sy += local.Y / o.Height
		}
	}

	if t.AspectLock && t.Handle.IsSide() && o.ScaleX != 0 && o.ScaleY != 0 {
		// keep the apparent width:height ratio of the original
		if t.Handle == HandleLeft || t.Handle == HandleRight {
			sy = math.Copysign(math.Abs(sx*o.ScaleY/o.ScaleX), o.ScaleY)
		} else {
			sx = math.Copysign(math.Abs(sy*o.ScaleX/o.ScaleY), o.ScaleX)
		}
	}

	// Scaling about the center moves both edges. Shift the center so
	// that the edge opposite the handle stays put.
	var shift vec.Vec2
	dsx := (sx - o.ScaleX) * o.Width / 2
	dsy := (sy - o.ScaleY) * o.Height / 2
	switch {
	case t.Handle.left():
		shift.X = -dsx
	case t.Handle.right():
		shift.X = dsx
	}
	switch {
	case t.Handle.top():
		shift.Y = -dsy
	case t.Handle.bottom():
		shift.Y = dsy
	}
	center := o.Center().Add(geometry.Rotate(shift, o.Rotation))

	p.X, p.Y = center.X, center.Y
	p.ScaleX, p.ScaleY = sx, sy
	t.patch = p
	return p
}
