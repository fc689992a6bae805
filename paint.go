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
	"image"
	"math"

	"seehuhn.de/go/layers/composite"
	"seehuhn.de/go/layers/layer"
)

// AddImage adds a pixel layer showing img, centered on the document.
func (e *Editor) AddImage(img *image.RGBA, name string) (layer.ID, error) {
	if name == "" {
		name = e.nextName("Image")
	}
	return e.addRaster(img, name, "Add Image")
}

// AddGenerated adds a pixel layer showing a generated image, centered on
// the document. The label names the operation, for example
// "Generative Fill", and is used for both the layer and the history
// entry.
func (e *Editor) AddGenerated(img *image.RGBA, label string) (layer.ID, error) {
	return e.addRaster(img, label, label)
}

func (e *Editor) addRaster(img *image.RGBA, name, label string) (layer.ID, error) {
	w, h := float64(e.doc.Width), float64(e.doc.Height)
	l := layer.NewPixel(name, img, w/2, h/2, w, h)
	return e.insertAbove(l, label)
}

// ReplaceRaster replaces the pixels of a layer, for example with the
// result of a background removal. The layer keeps its placement.
func (e *Editor) ReplaceRaster(id layer.ID, img *image.RGBA, label string) error {
	return e.update("replace raster", label, id, func(l *layer.Layer) (*layer.Layer, error) {
		if l.Locked {
			return nil, ErrBackgroundEdit
		}
		if l.Kind != layer.KindPixel {
			return nil, ErrNotPixelLayer
		}
		return l.WithRaster(img), nil
	})
}

// ApplyStroke paints a finished brush stroke into the active layer.
// The stroke is given in document coordinates. With erase set, the
// stroke's alpha removes pixels instead of adding paint.
//
// The layer's raster is aligned with the document at its center
// position minus half its unscaled size. Layer rotation and scaling are
// not taken into account.
func (e *Editor) ApplyStroke(stroke *image.RGBA, erase bool) error {
	label, mode := "Brush Stroke", layer.BlendNormal
	if erase {
		label, mode = "Erase", layer.BlendDestinationOut
	}
	if stroke == nil {
		return nil
	}
	return e.update("apply stroke", label, e.active, func(l *layer.Layer) (*layer.Layer, error) {
		if l.Locked {
			return nil, ErrBackgroundEdit
		}
		if l.Kind != layer.KindPixel {
			return nil, ErrNotPixelLayer
		}

		var dst *image.RGBA
		if l.Raster != nil {
			dst = image.NewRGBA(l.Raster.Rect)
			copy(dst.Pix, l.Raster.Pix)
		} else {
			w := max(int(math.Round(l.Width)), 1)
			h := max(int(math.Round(l.Height)), 1)
			dst = image.NewRGBA(image.Rect(0, 0, w, h))
		}
		offset := image.Point{
			X: int(math.Round(l.X - l.Width/2)),
			Y: int(math.Round(l.Y - l.Height/2)),
		}
		composite.Blend(dst, dst.Rect, stroke, offset, mode, 255)
		return l.WithRaster(dst), nil
	})
}

// MergeDown combines a layer with the layer directly below it. The
// result replaces the lower layer and keeps its name, opacity and blend
// mode. It is a document-sized pixel layer; content outside the canvas
// is lost.
//
// Shape layers cannot be merged, and nothing can be merged onto a
// background or shape layer.
func (e *Editor) MergeDown(id layer.ID) error {
	const op = "merge down"
	if err := e.idle(op); err != nil {
		return err
	}
	s := e.Stack()
	i := s.Index(id)
	if i < 0 {
		_, err := e.lookup(op, id)
		return err
	}
	upper := s.At(i)
	if i == 0 || upper.Kind != layer.KindPixel {
		return e.reject(op, id, ErrMergeUnsupported)
	}
	lower := s.At(i - 1)
	if lower.Background || lower.Kind != layer.KindPixel {
		return e.reject(op, id, ErrMergeUnsupported)
	}
	if lower.Locked {
		return e.reject(op, lower.ID, ErrBackgroundEdit)
	}

	dst := e.renderer.RenderLayer(e.doc, lower)
	e.renderer.Composite(dst, upper)

	w, h := float64(e.doc.Width), float64(e.doc.Height)
	merged := lower.WithTransform(w/2, h/2, 0, 1, 1).WithRaster(dst)
	e.commit(s.Remove(upper.ID).Replace(merged), "Merge Down", merged.ID)
	return nil
}
