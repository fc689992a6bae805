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

package layers

import (
	"fmt"

	"seehuhn.de/go/layers/layer"
)

// insertAbove adds l directly above the active layer and commits.
func (e *Editor) insertAbove(l *layer.Layer, label string) (layer.ID, error) {
	if err := e.idle(label); err != nil {
		return layer.NoID, err
	}
	s := e.Stack()
	i := s.Len()
	if a := s.Index(e.active); a >= 0 {
		i = a + 1
	}
	e.commit(s.Insert(i, l), label, l.ID)
	return l.ID, nil
}

// nextName returns a default name for a new layer.
func (e *Editor) nextName(prefix string) string {
	n := 1
	for _, l := range e.Stack().All() {
		if !l.Background {
			n++
		}
	}
	return fmt.Sprintf("%s %d", prefix, n)
}

// AddLayer adds an empty pixel layer covering the document, directly
// above the active layer.
func (e *Editor) AddLayer() (layer.ID, error) {
	w, h := float64(e.doc.Width), float64(e.doc.Height)
	l := layer.NewPixel(e.nextName("Layer"), nil, w/2, h/2, w, h)
	return e.insertAbove(l, "Add Layer")
}

// AddShape adds a shape layer of unscaled size w×h centered at (x, y).
func (e *Editor) AddShape(shape layer.Shape, x, y, w, h float64) (layer.ID, error) {
	l := layer.NewShape(e.nextName("Shape"), shape, x, y, w, h)
	return e.insertAbove(l, "Add Shape")
}

// DeleteLayer removes a layer. Deleting the only remaining layer is
// ignored, in which case false is returned.
func (e *Editor) DeleteLayer(id layer.ID) (bool, error) {
	if err := e.idle("delete layer"); err != nil {
		return false, err
	}
	s := e.Stack()
	i := s.Index(id)
	if i < 0 {
		return false, fmt.Errorf("delete layer %s: %w", id, ErrUnknownLayer)
	}
	if s.Len() == 1 {
		e.log().Debug("ignored", "op", "delete last layer", "layer", id)
		return false, nil
	}

	next := s.Remove(id)
	active := e.active
	if active == id {
		active = next.At(max(i-1, 0)).ID
	}
	e.commit(next, "Delete Layer", active)
	return true, nil
}

// DuplicateLayer adds a copy of a layer directly above it. The copy of a
// background layer is a normal, unlocked layer.
func (e *Editor) DuplicateLayer(id layer.ID) (layer.ID, error) {
	if err := e.idle("duplicate layer"); err != nil {
		return layer.NoID, err
	}
	s := e.Stack()
	i := s.Index(id)
	if i < 0 {
		return layer.NoID, fmt.Errorf("duplicate layer %s: %w", id, ErrUnknownLayer)
	}
	orig := s.At(i)
	c := orig.Duplicate(orig.Name + " copy")
	e.commit(s.Insert(i+1, c), "Duplicate Layer", c.ID)
	return c.ID, nil
}

// MoveLayerTo changes the paint order, placing the layer at the given
// stack index. The background layer stays at the bottom.
func (e *Editor) MoveLayerTo(id layer.ID, index int) error {
	if err := e.idle("reorder layers"); err != nil {
		return err
	}
	s := e.Stack()
	l, err := e.lookup("reorder layers", id)
	if err != nil {
		return err
	}
	if l.Background {
		return e.reject("reorder layers", id, ErrBackgroundEdit)
	}
	next := s.Move(id, index)
	if next.Index(id) == s.Index(id) {
		return nil
	}
	e.commit(next, "Reorder Layers", e.active)
	return nil
}

// update replaces a layer by the result of change and commits. Nothing
// is recorded if change returns the layer unmodified in all visible
// respects.
func (e *Editor) update(op, label string, id layer.ID, change func(*layer.Layer) (*layer.Layer, error)) error {
	if err := e.idle(op); err != nil {
		return err
	}
	l, err := e.lookup(op, id)
	if err != nil {
		return err
	}
	m, err := change(l)
	if err != nil {
		return e.reject(op, id, err)
	}
	if m == nil || *m == *l {
		return nil
	}
	e.commit(e.Stack().Replace(m), label, e.active)
	return nil
}

// Rename changes the display name of a layer.
func (e *Editor) Rename(id layer.ID, name string) error {
	return e.update("rename layer", "Rename Layer", id, func(l *layer.Layer) (*layer.Layer, error) {
		return l.WithName(name), nil
	})
}

// SetOpacity changes the opacity of a layer. Values are clamped to [0, 1].
func (e *Editor) SetOpacity(id layer.ID, opacity float64) error {
	return e.update("set opacity", "Layer Opacity", id, func(l *layer.Layer) (*layer.Layer, error) {
		return l.WithOpacity(opacity), nil
	})
}

// SetBlendMode changes how a layer is blended with the layers below.
func (e *Editor) SetBlendMode(id layer.ID, mode layer.BlendMode) error {
	return e.update("set blend mode", "Blend Mode", id, func(l *layer.Layer) (*layer.Layer, error) {
		return l.WithBlend(mode), nil
	})
}

// SetVisible shows or hides a layer.
func (e *Editor) SetVisible(id layer.ID, visible bool) error {
	label := "Hide Layer"
	if visible {
		label = "Show Layer"
	}
	return e.update("set visibility", label, id, func(l *layer.Layer) (*layer.Layer, error) {
		return l.WithVisible(visible), nil
	})
}

// SetLocked locks or unlocks a layer. Background layers cannot be
// unlocked; use ConvertBackground instead.
func (e *Editor) SetLocked(id layer.ID, locked bool) error {
	label := "Unlock Layer"
	if locked {
		label = "Lock Layer"
	}
	return e.update("set lock", label, id, func(l *layer.Layer) (*layer.Layer, error) {
		if l.Background && !locked {
			return nil, ErrBackgroundEdit
		}
		return l.WithLocked(locked), nil
	})
}

// ConvertBackground turns the background layer into a normal, unlocked
// layer named "Layer 0". Other layers are left unchanged.
func (e *Editor) ConvertBackground(id layer.ID) error {
	return e.update("convert background", "Convert to Layer", id, func(l *layer.Layer) (*layer.Layer, error) {
		if !l.Background {
			return l, nil
		}
		return l.ConvertBackground("Layer 0"), nil
	})
}

// Flip mirrors a layer about its center, horizontally or vertically.
func (e *Editor) Flip(id layer.ID, horizontal bool) error {
	label := "Flip Vertical"
	if horizontal {
		label = "Flip Horizontal"
	}
	return e.update("flip layer", label, id, func(l *layer.Layer) (*layer.Layer, error) {
		if l.Locked {
			return nil, ErrBackgroundEdit
		}
		sx, sy := l.ScaleX, l.ScaleY
		if horizontal {
			sx = -sx
		} else {
			sy = -sy
		}
		return l.WithTransform(l.X, l.Y, l.Rotation, sx, sy), nil
	})
}
