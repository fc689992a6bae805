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

// Package composite renders a layer stack into a single image.
//
// Layers are painted bottom to top. Each visible layer is placed by its
// transform
//
//	translate(x, y) · rotate(rotation) · scale(scaleX, scaleY) · translate(-width/2, -height/2)
//
// into a scratch buffer, which is then blended onto the result using the
// layer's opacity and blend mode. Background layers always use normal
// blending.
//
// Rendering is deterministic: identical inputs give identical output.
// No state is kept between calls.
package composite

import (
	"fmt"
	"image"
	"math"
	"sort"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/layers/document"
	"seehuhn.de/go/layers/geometry"
	"seehuhn.de/go/layers/layer"
	"seehuhn.de/go/layers/raster"
)

var interpolators = map[string]draw.Interpolator{
	"nearest":         draw.NearestNeighbor,
	"approx-bilinear": draw.ApproxBiLinear,
	"bilinear":        draw.BiLinear,
	"catmull-rom":     draw.CatmullRom,
}

// Interpolator returns the resampling method with the given name.
// Known names are "nearest", "approx-bilinear", "bilinear" and
// "catmull-rom".
func Interpolator(name string) (draw.Interpolator, error) {
	ip, ok := interpolators[name]
	if !ok {
		return nil, fmt.Errorf("unknown interpolation %q", name)
	}
	return ip, nil
}

// InterpolatorNames returns the known interpolation names in sorted order.
func InterpolatorNames() []string {
	names := make([]string, 0, len(interpolators))
	for name := range interpolators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Renderer holds the rendering parameters. The zero value is ready to
// use, with bilinear resampling and the default curve flatness.
type Renderer struct {
	// Interpolator resamples pixel layers. Nil selects [draw.BiLinear].
	Interpolator draw.Interpolator

	// Flatness is the curve approximation tolerance for shape layers, in
	// pixels. Zero selects the rasterizer default.
	Flatness float64
}

// Render composites stack onto a transparent canvas the size of doc,
// using the default parameters.
func Render(doc *document.Document, stack document.Stack) *image.RGBA {
	var r Renderer
	return r.Render(doc, stack)
}

// Render composites stack onto a transparent canvas the size of doc.
func (r *Renderer) Render(doc *document.Document, stack document.Stack) *image.RGBA {
	dst := image.NewRGBA(doc.Rect())
	c := r.newCanvas(dst.Rect)
	for _, l := range stack.All() {
		c.composite(dst, l)
	}
	return dst
}

// RenderLayer renders the content of a single layer onto a transparent
// canvas the size of doc, ignoring the layer's visibility, opacity and
// blend mode.
func (r *Renderer) RenderLayer(doc *document.Document, l *layer.Layer) *image.RGBA {
	dst := image.NewRGBA(doc.Rect())
	c := r.newCanvas(dst.Rect)
	if reg, ok := c.paint(l); ok {
		draw.Draw(dst, reg, c.scratch, reg.Min, draw.Src)
	}
	return dst
}

// Composite blends l onto dst, using the layer's opacity and blend mode.
// The bounds of dst give the document area. Invisible and empty layers
// leave dst unchanged.
func (r *Renderer) Composite(dst *image.RGBA, l *layer.Layer) {
	r.newCanvas(dst.Rect).composite(dst, l)
}

// canvas holds the per-call scratch state.
type canvas struct {
	r       *Renderer
	scratch *image.RGBA
	ras     *raster.Rasterizer
}

func (r *Renderer) newCanvas(bounds image.Rectangle) *canvas {
	return &canvas{
		r:       r,
		scratch: image.NewRGBA(bounds),
	}
}

func (c *canvas) composite(dst *image.RGBA, l *layer.Layer) {
	if !l.Visible || l.Opacity <= 0 || l.IsEmpty() {
		return
	}
	mode := l.Blend
	if l.Background {
		mode = layer.BlendNormal
	}
	opacity := uint8(math.Round(l.Opacity * 255))

	if mode == layer.BlendDestinationIn {
		// Transparent source pixels clear the destination, so the whole
		// canvas is affected.
		draw.Draw(c.scratch, c.scratch.Rect, image.Transparent, image.Point{}, draw.Src)
		c.paint(l)
		Blend(dst, dst.Rect, c.scratch, dst.Rect.Min, mode, opacity)
		return
	}

	reg, ok := c.paint(l)
	if !ok {
		return
	}
	Blend(dst, reg, c.scratch, reg.Min, mode, opacity)
}

// paint renders the layer content into the scratch buffer and returns
// the region which was written. Pixels outside the region are
// transparent.
func (c *canvas) paint(l *layer.Layer) (image.Rectangle, bool) {
	if l.IsEmpty() || l.ScaleX == 0 || l.ScaleY == 0 || l.Width <= 0 || l.Height <= 0 {
		return image.Rectangle{}, false
	}

	sb := c.scratch.Rect
	box := l.Bounds()
	if l.Kind == layer.KindShape {
		box = strokeBounds(box, l)
	}
	x0, y0, x1, y1, ok := box.Pixels(sb.Max.X, sb.Max.Y)
	if !ok {
		return image.Rectangle{}, false
	}
	reg := image.Rect(x0, y0, x1, y1).Intersect(sb)
	if reg.Empty() {
		return image.Rectangle{}, false
	}
	draw.Draw(c.scratch, reg, image.Transparent, image.Point{}, draw.Src)
	sub := c.scratch.SubImage(reg).(*image.RGBA)

	switch l.Kind {
	case layer.KindPixel:
		ip := c.r.Interpolator
		if ip == nil {
			ip = draw.BiLinear
		}
		ip.Transform(sub, geometry.ToAff3(l.Matrix()), l.Raster, l.Raster.Rect, draw.Src, nil)
	case layer.KindShape:
		clip := rect.Rect{
			LLx: float64(reg.Min.X), LLy: float64(reg.Min.Y),
			URx: float64(reg.Max.X), URy: float64(reg.Max.Y),
		}
		if c.ras == nil {
			c.ras = raster.NewRasterizer(clip)
		} else {
			c.ras.Reset(clip)
		}
		if c.r.Flatness > 0 {
			c.ras.Flatness = c.r.Flatness
		}
		l.Shape.Paint(sub, c.ras, l.Matrix(), l.Width, l.Height)
	}
	return reg, true
}

// miterMargin bounds how far a stroke can reach beyond the outline, in
// multiples of the stroke width. It matches the rasterizer's default
// miter limit.
const miterMargin = 5

// strokeBounds extends box to include the stroke of a shape layer.
func strokeBounds(box geometry.Box, l *layer.Layer) geometry.Box {
	s := l.Shape
	if s.Stroke == nil || s.StrokeWidth <= 0 {
		return box
	}
	m := s.StrokeWidth * max(math.Abs(l.ScaleX), math.Abs(l.ScaleY)) * miterMargin
	return geometry.Box{
		Left:   box.Left - m,
		Top:    box.Top - m,
		Right:  box.Right + m,
		Bottom: box.Bottom + m,
	}
}
