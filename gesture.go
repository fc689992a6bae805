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

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layers/session"
)

// BeginTransform starts a resize or rotate gesture on the active layer.
// The pointer position is given in screen space. Locked and background
// layers are rejected with [ErrBackgroundEdit].
func (e *Editor) BeginTransform(h session.Handle, aspectLock bool, pointer vec.Vec2) error {
	const op = "transform layer"
	if e.gesture != nil {
		return fmt.Errorf("%s: %w", op, ErrGestureActive)
	}
	l, err := e.lookup(op, e.active)
	if err != nil {
		return err
	}
	if l.Locked || l.Background {
		return e.reject(op, l.ID, ErrBackgroundEdit)
	}

	t := session.StartTransform(l, h, aspectLock, pointer, e.view, e.tool)
	e.gesture = t
	p := t.Patch()
	e.preview = &p
	e.tool = session.ToolTransform
	return nil
}

func (e *Editor) transform() (*session.Transform, error) {
	t, ok := e.gesture.(*session.Transform)
	if !ok {
		return nil, ErrNoGesture
	}
	return t, nil
}

// UpdateTransform updates the preview for a new pointer position.
func (e *Editor) UpdateTransform(pointer vec.Vec2) error {
	t, err := e.transform()
	if err != nil {
		return err
	}
	p := t.Update(pointer)
	e.preview = &p
	return nil
}

// CommitTransform ends the transform gesture. If the layer changed, a
// "Transform Layer" history entry is written and true is returned.
func (e *Editor) CommitTransform() (bool, error) {
	t, err := e.transform()
	if err != nil {
		return false, err
	}
	changed := t.Changed()
	if changed {
		e.commit(e.Stack().ApplyPatch(t.Patch()), "Transform Layer", t.LayerID())
	}
	e.endTransform(t)
	return changed, nil
}

// CancelTransform ends the transform gesture without changing anything.
func (e *Editor) CancelTransform() error {
	t, err := e.transform()
	if err != nil {
		return err
	}
	e.endTransform(t)
	return nil
}

func (e *Editor) endTransform(t *session.Transform) {
	if tool, ok := t.RestoreTool(); ok {
		e.tool = tool
	}
	e.gesture = nil
	e.preview = nil
}

// BeginMove starts dragging the active layer. Locked layers cannot be
// moved; in this case the request is ignored and false is returned.
func (e *Editor) BeginMove(pointer vec.Vec2) (bool, error) {
	const op = "move layer"
	if e.gesture != nil {
		return false, fmt.Errorf("%s: %w", op, ErrGestureActive)
	}
	l, err := e.lookup(op, e.active)
	if err != nil {
		return false, err
	}
	m := session.StartMove(l, pointer)
	if m == nil {
		e.log().Debug("ignored", "op", op, "layer", l.ID, "reason", "locked")
		return false, nil
	}
	e.gesture = m
	p := m.Patch()
	e.preview = &p
	return true, nil
}

func (e *Editor) move() (*session.Move, error) {
	m, ok := e.gesture.(*session.Move)
	if !ok {
		return nil, ErrNoGesture
	}
	return m, nil
}

// UpdateMove updates the preview for a new pointer position, snapping
// the layer to the canvas and to other visible layers. If the layer is no
// longer part of the stack, the gesture ends with [ErrUnknownLayer].
func (e *Editor) UpdateMove(pointer vec.Vec2) error {
	m, err := e.move()
	if err != nil {
		return err
	}
	s := e.Stack()
	l := s.Find(m.LayerID)
	if l == nil {
		e.gesture = nil
		e.preview = nil
		return fmt.Errorf("move layer %s: %w", m.LayerID, ErrUnknownLayer)
	}
	targets := session.Targets(s, m.LayerID, e.doc.Bounds())
	p := m.Update(pointer, l, targets, e.view, e.settings.SnapThreshold)
	e.preview = &p
	return nil
}

// SnapLines returns the alignment guides of the move gesture in
// progress.
func (e *Editor) SnapLines() []session.SnapLine {
	if m, ok := e.gesture.(*session.Move); ok {
		return m.SnapLines()
	}
	return nil
}

// CommitMove ends the move gesture. A "Move Layer" history entry is
// written if the layer moved by more than the configured dead zone.
func (e *Editor) CommitMove() (bool, error) {
	m, err := e.move()
	if err != nil {
		return false, err
	}
	e.gesture = nil
	e.preview = nil
	if e.Stack().Index(m.LayerID) < 0 {
		return false, fmt.Errorf("move layer %s: %w", m.LayerID, ErrUnknownLayer)
	}

	p, ok := m.Commit(e.settings.MoveDeadZone)
	if ok {
		e.commit(e.Stack().ApplyPatch(p), "Move Layer", m.LayerID)
	} else {
		e.log().Debug("ignored", "op", "move layer", "reason", "below dead zone")
	}
	return ok, nil
}
