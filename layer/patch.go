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

// Field selects properties carried by a [Patch].
type Field uint8

const (
	FieldPosition Field = 1 << iota // X, Y
	FieldRotation                   // Rotation
	FieldScale                      // ScaleX, ScaleY
	FieldOpacity                    // Opacity

	FieldTransform = FieldPosition | FieldRotation | FieldScale
)

// Patch is a transient override of some properties of one layer. It is
// used for live feedback while a gesture is in progress and never enters
// the history.
type Patch struct {
	LayerID ID
	Fields  Field

	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
	Opacity        float64
}

// PatchOf captures the selected properties of l.
func PatchOf(l *Layer, fields Field) Patch {
	return Patch{
		LayerID:  l.ID,
		Fields:   fields,
		X:        l.X,
		Y:        l.Y,
		Rotation: l.Rotation,
		ScaleX:   l.ScaleX,
		ScaleY:   l.ScaleY,
		Opacity:  l.Opacity,
	}
}

// IsEmpty reports whether the patch overrides nothing.
func (p Patch) IsEmpty() bool {
	return p.Fields == 0
}

// Apply returns l with the patch applied. If the patch is empty or
// belongs to a different layer, l itself is returned.
func (p Patch) Apply(l *Layer) *Layer {
	if l == nil || p.IsEmpty() || l.ID != p.LayerID {
		return l
	}
	c := l.clone()
	if p.Fields&FieldPosition != 0 {
		c.X, c.Y = p.X, p.Y
	}
	if p.Fields&FieldRotation != 0 {
		c.Rotation = p.Rotation
	}
	if p.Fields&FieldScale != 0 {
		c.ScaleX, c.ScaleY = p.ScaleX, p.ScaleY
	}
	if p.Fields&FieldOpacity != 0 {
		c.Opacity = min(max(p.Opacity, 0), 1)
	}
	return c
}

// Changes reports whether applying the patch to l would change anything.
func (p Patch) Changes(l *Layer) bool {
	if l == nil || p.IsEmpty() || l.ID != p.LayerID {
		return false
	}
	if p.Fields&FieldPosition != 0 && (p.X != l.X || p.Y != l.Y) {
		return true
	}
	if p.Fields&FieldRotation != 0 && p.Rotation != l.Rotation {
		return true
	}
	if p.Fields&FieldScale != 0 && (p.ScaleX != l.ScaleX || p.ScaleY != l.ScaleY) {
		return true
	}
	if p.Fields&FieldOpacity != 0 && min(max(p.Opacity, 0), 1) != l.Opacity {
		return true
	}
	return false
}
