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

package main

import (
	"errors"
	"image"
	"image/color"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/layers"
	"seehuhn.de/go/layers/composite"
	"seehuhn.de/go/layers/layer"
	"seehuhn.de/go/layers/session"
)

// scenarios maps scenario names to the edits they apply to a new document.
var scenarios = map[string]func(e *layers.Editor) error{
	"shapes":    shapes,
	"blend":     blend,
	"transform": transform,
	"snap":      snap,
	"brush":     brush,
	"merge":     merge,
	"history":   history,
}

var (
	red    = color.NRGBA{0xE0, 0x30, 0x30, 0xFF}
	green  = color.NRGBA{0x30, 0xB0, 0x50, 0xFF}
	blue   = color.NRGBA{0x30, 0x60, 0xD0, 0xFF}
	yellow = color.NRGBA{0xF0, 0xC0, 0x20, 0xFF}
	black  = color.NRGBA{0, 0, 0, 0xFF}
)

// center returns the document center and the smaller of its sides.
func center(e *layers.Editor) (x, y, size float64) {
	doc := e.Document()
	w, h := float64(doc.Width), float64(doc.Height)
	return w / 2, h / 2, min(w, h)
}

func shapes(e *layers.Editor) error {
	x, y, s := center(e)
	items := []struct {
		shape      layer.Shape
		x, y, w, h float64
	}{
		{layer.Shape{
			Type: layer.ShapeRectangle,
			Fill: &yellow,
		}, x - s/4, y, s / 3, s / 4},
		{layer.Shape{
			Type:        layer.ShapeEllipse,
			Fill:        &blue,
			Stroke:      &black,
			StrokeWidth: 6,
		}, x + s/4, y, s / 3, s / 3},
		{layer.Shape{
			Type:        layer.ShapeLine,
			Stroke:      &red,
			StrokeWidth: 12,
			Cap:         graphics.LineCapRound,
			Join:        graphics.LineJoinRound,
		}, x, y + s/3, s * 0.8, s / 10},
	}
	for _, it := range items {
		if _, err := e.AddShape(it.shape, it.x, it.y, it.w, it.h); err != nil {
			return err
		}
	}
	return nil
}

// gradient returns a horizontal black to white ramp.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		v := uint8(x * 255 / max(w-1, 1))
		for y := range h {
			img.SetRGBA(x, y, color.RGBA{v, v, v, 0xFF})
		}
	}
	return img
}

func blend(e *layers.Editor) error {
	doc := e.Document()
	if _, err := e.AddGenerated(gradient(doc.Width, doc.Height), "Gradient"); err != nil {
		return err
	}

	modes := []layer.BlendMode{
		layer.BlendNormal, layer.BlendMultiply, layer.BlendScreen,
		layer.BlendOverlay, layer.BlendDarken, layer.BlendLighten,
		layer.BlendColorDodge, layer.BlendColorBurn, layer.BlendHardLight,
		layer.BlendSoftLight, layer.BlendDifference, layer.BlendExclusion,
	}
	cols := 4
	rows := (len(modes) + cols - 1) / cols
	cw := float64(doc.Width) / float64(cols)
	ch := float64(doc.Height) / float64(rows)
	for i, m := range modes {
		x := (float64(i%cols) + 0.5) * cw
		y := (float64(i/cols) + 0.5) * ch
		id, err := e.AddShape(layer.Shape{Type: layer.ShapeEllipse, Fill: &red}, x, y, cw*0.8, ch*0.8)
		if err != nil {
			return err
		}
		if err := e.Rename(id, m.String()); err != nil {
			return err
		}
		if err := e.SetBlendMode(id, m); err != nil {
			return err
		}
	}
	return nil
}

func transform(e *layers.Editor) error {
	x, y, s := center(e)
	if _, err := e.AddShape(layer.Shape{Type: layer.ShapeRectangle, Fill: &green}, x, y, s/3, s/6); err != nil {
		return err
	}

	// widen from the right edge, keeping the aspect ratio
	right := vec.Vec2{X: x + s/6, Y: y}
	if err := e.BeginTransform(session.HandleRight, true, right); err != nil {
		return err
	}
	if err := e.UpdateTransform(right.Add(vec.Vec2{X: s / 6})); err != nil {
		return err
	}
	if _, err := e.CommitTransform(); err != nil {
		return err
	}

	// rotate by a quarter turn about the center
	l := e.Active()
	top := vec.Vec2{X: l.X, Y: l.Bounds().Top}
	if err := e.BeginTransform(session.HandleRotate, false, top); err != nil {
		return err
	}
	if err := e.UpdateTransform(vec.Vec2{X: l.X + (l.Y - top.Y), Y: l.Y}); err != nil {
		return err
	}
	if _, err := e.CommitTransform(); err != nil {
		return err
	}
	return e.Flip(l.ID, true)
}

func snap(e *layers.Editor) error {
	x, y, s := center(e)
	if _, err := e.AddShape(layer.Shape{Type: layer.ShapeRectangle, Fill: &blue}, x-s/4, y, s/4, s/4); err != nil {
		return err
	}
	if _, err := e.AddShape(layer.Shape{Type: layer.ShapeEllipse, Fill: &yellow}, x+s/4, y+s/4, s/6, s/6); err != nil {
		return err
	}

	// drag the ellipse close to the center line of the rectangle
	start := vec.Vec2{X: x + s/4, Y: y + s/4}
	ok, err := e.BeginMove(start)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("layer is locked")
	}
	if err := e.UpdateMove(start.Add(vec.Vec2{X: 10, Y: -s/4 + 3})); err != nil {
		return err
	}
	if len(e.SnapLines()) == 0 {
		return errors.New("no snap guide")
	}
	_, err = e.CommitMove()
	return err
}

func brush(e *layers.Editor) error {
	x, y, s := center(e)
	if _, err := e.AddLayer(); err != nil {
		return err
	}

	var r composite.Renderer
	dab := layer.NewShape("", layer.Shape{
		Type:        layer.ShapeLine,
		Stroke:      &blue,
		StrokeWidth: s / 15,
		Cap:         graphics.LineCapRound,
	}, x, y, s*0.7, s/3)
	if err := e.ApplyStroke(r.RenderLayer(e.Document(), dab), false); err != nil {
		return err
	}

	rubber := layer.NewShape("", layer.Shape{Type: layer.ShapeEllipse, Fill: &black}, x, y, s/8, s/8)
	return e.ApplyStroke(r.RenderLayer(e.Document(), rubber), true)
}

func merge(e *layers.Editor) error {
	doc := e.Document()
	w, h := doc.Width, doc.Height

	stripes := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		if y/20%2 == 0 {
			for x := range w {
				stripes.Set(x, y, green)
			}
		}
	}
	if _, err := e.AddImage(stripes, "Stripes"); err != nil {
		return err
	}
	dots, err := e.AddShape(layer.Shape{Type: layer.ShapeEllipse, Fill: &red}, float64(w)/2, float64(h)/2, float64(h)/2, float64(h)/2)
	if err != nil {
		return err
	}

	// shape layers cannot be merged
	if err := e.MergeDown(dots); !errors.Is(err, layers.ErrMergeUnsupported) {
		return errors.New("shape layer was merged")
	}

	top, err := e.AddImage(gradient(w/2, h/2), "Ramp")
	if err != nil {
		return err
	}
	if err := e.SetBlendMode(top, layer.BlendMultiply); err != nil {
		return err
	}
	if err := e.MoveLayerTo(top, 2); err != nil {
		return err
	}
	return e.MergeDown(top)
}

func history(e *layers.Editor) error {
	x, y, s := center(e)
	a, err := e.AddShape(layer.Shape{Type: layer.ShapeRectangle, Fill: &red}, x, y, s/2, s/2)
	if err != nil {
		return err
	}
	if err := e.SetOpacity(a, 0.5); err != nil {
		return err
	}
	if _, err := e.AddShape(layer.Shape{Type: layer.ShapeEllipse, Fill: &green}, x, y, s/3, s/3); err != nil {
		return err
	}
	e.Undo()
	e.Undo()
	if _, err := e.AddShape(layer.Shape{Type: layer.ShapeEllipse, Fill: &blue}, x, y, s/3, s/3); err != nil {
		return err
	}
	if err := e.SetVisible(a, false); err != nil {
		return err
	}
	if !e.JumpTo(e.HistoryIndex() - 1) {
		return errors.New("history navigation failed")
	}
	return nil
}
