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

// Package layer describes a single layer of a document: its content,
// its placement on the canvas and the way it is blended.
//
// Layers are values. Every change produces a new *Layer and leaves the
// original untouched, so that history snapshots can share layers freely.
// Code outside this package must not modify a *Layer or its raster after
// the layer has been handed out.
package layer

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layers/geometry"
)

// ID identifies a layer. IDs are unique and never reused.
type ID uuid.UUID

// NoID is the zero ID. It never refers to a layer.
var NoID ID

// NewID returns a fresh identifier.
func NewID() ID {
	return ID(uuid.Must(uuid.NewV7()))
}

// IsZero reports whether id is NoID.
func (id ID) IsZero() bool { return id == NoID }

func (id ID) String() string { return uuid.UUID(id).String() }

// Kind is the type of content a layer holds.
type Kind uint8

const (
	// KindPixel layers hold a raster buffer.
	KindPixel Kind = iota
	// KindShape layers hold a vector shape descriptor.
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindPixel:
		return "pixel"
	case KindShape:
		return "shape"
	default:
		return "unknown"
	}
}

// Layer is one entry of a layer stack.
type Layer struct {
	ID   ID
	Name string
	Kind Kind

	Visible bool
	Locked  bool

	// Background marks the base layer of a document. A background layer
	// is always locked and always the bottom-most layer of its stack.
	Background bool

	// Opacity is in the range [0, 1].
	Opacity float64

	// Blend is ignored for background layers, which are always
	// composited normally.
	Blend BlendMode

	// X and Y give the position of the content center in document space.
	X, Y float64

	// Width and Height give the unscaled content size. The size on the
	// canvas is Width*|ScaleX| by Height*|ScaleY|.
	Width, Height float64

	// Rotation is in degrees, clockwise on screen.
	Rotation float64

	// ScaleX and ScaleY are independent scale factors. A negative value
	// flips the content along that axis.
	ScaleX, ScaleY float64

	// Raster holds the pixels of a KindPixel layer, with bounds starting
	// at (0, 0). Nil means the layer is empty and fully transparent.
	Raster *image.RGBA

	// Shape describes the content of a KindShape layer.
	Shape *Shape

	// Thumbnail is a small preview of the content, regenerated whenever
	// the content changes.
	Thumbnail *image.RGBA
}

// NewPixel returns a visible pixel layer showing img, centered at (x, y).
// A nil img gives an empty layer of size w×h; otherwise w and h are
// taken from the image.
func NewPixel(name string, img *image.RGBA, x, y, w, h float64) *Layer {
	l := &Layer{
		ID:      NewID(),
		Name:    name,
		Kind:    KindPixel,
		Visible: true,
		Opacity: 1,
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
		ScaleX:  1,
		ScaleY:  1,
	}
	if img != nil {
		img = normalize(img)
		l.Raster = img
		l.Width = float64(img.Rect.Dx())
		l.Height = float64(img.Rect.Dy())
	}
	l.Thumbnail = makeThumbnail(l)
	return l
}

// NewShape returns a visible shape layer of size w×h centered at (x, y).
func NewShape(name string, shape Shape, x, y, w, h float64) *Layer {
	l := &Layer{
		ID:      NewID(),
		Name:    name,
		Kind:    KindShape,
		Visible: true,
		Opacity: 1,
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
		ScaleX:  1,
		ScaleY:  1,
		Shape:   &shape,
	}
	l.Thumbnail = makeThumbnail(l)
	return l
}

// NewBackground returns a locked background layer covering a w×h
// document. If fill is nil, the layer has no raster and the document
// background is transparent.
func NewBackground(w, h int, fill *color.NRGBA) *Layer {
	var img *image.RGBA
	if fill != nil {
		img = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(img, img.Rect, image.NewUniform(*fill), image.Point{}, draw.Src)
	}
	l := NewPixel("Background", img, float64(w)/2, float64(h)/2, float64(w), float64(h))
	l.Locked = true
	l.Background = true
	return l
}

// clone returns a shallow copy of l.
func (l *Layer) clone() *Layer {
	c := *l
	return &c
}

// Duplicate returns a copy of l with a new ID and the given name.
// The background flag is not copied.
func (l *Layer) Duplicate(name string) *Layer {
	c := l.clone()
	c.ID = NewID()
	c.Name = name
	if c.Background {
		c.Background = false
		c.Locked = false
	}
	return c
}

// WithName returns a copy of l with a different name.
func (l *Layer) WithName(name string) *Layer {
	c := l.clone()
	c.Name = name
	return c
}

// WithVisible returns a copy of l with the visibility flag set to v.
func (l *Layer) WithVisible(v bool) *Layer {
	c := l.clone()
	c.Visible = v
	return c
}

// WithLocked returns a copy of l with the lock flag set to v.
// Background layers stay locked.
func (l *Layer) WithLocked(v bool) *Layer {
	c := l.clone()
	c.Locked = v || c.Background
	return c
}

// WithOpacity returns a copy of l with the given opacity, clamped to [0, 1].
func (l *Layer) WithOpacity(o float64) *Layer {
	c := l.clone()
	c.Opacity = min(max(o, 0), 1)
	return c
}

// WithBlend returns a copy of l using blend mode m.
func (l *Layer) WithBlend(m BlendMode) *Layer {
	c := l.clone()
	c.Blend = m
	return c
}

// WithPosition returns a copy of l with its center moved to (x, y).
func (l *Layer) WithPosition(x, y float64) *Layer {
	c := l.clone()
	c.X, c.Y = x, y
	return c
}

// WithTransform returns a copy of l with the given center, rotation and
// scale factors.
func (l *Layer) WithTransform(x, y, rotation, sx, sy float64) *Layer {
	c := l.clone()
	c.X, c.Y = x, y
	c.Rotation = rotation
	c.ScaleX, c.ScaleY = sx, sy
	return c
}

// WithRaster returns a copy of l showing img. The content size is taken
// from the image and the thumbnail is regenerated.
func (l *Layer) WithRaster(img *image.RGBA) *Layer {
	c := l.clone()
	c.Kind = KindPixel
	c.Shape = nil
	c.Raster = nil
	if img != nil {
		c.Raster = normalize(img)
		c.Width = float64(img.Rect.Dx())
		c.Height = float64(img.Rect.Dy())
	}
	c.Thumbnail = makeThumbnail(c)
	return c
}

// ConvertBackground turns a background layer into a normal layer: the
// layer is unlocked, loses its background flag and is renamed.
// This is the only way to clear the background flag.
func (l *Layer) ConvertBackground(name string) *Layer {
	c := l.clone()
	c.Background = false
	c.Locked = false
	c.Name = name
	return c
}

// Center returns the position of the content center.
func (l *Layer) Center() vec.Vec2 {
	return vec.Vec2{X: l.X, Y: l.Y}
}

// Matrix returns the map from the local content frame to document space.
func (l *Layer) Matrix() matrix.Matrix {
	return geometry.LayerMatrix(l.X, l.Y, l.Width, l.Height, l.Rotation, l.ScaleX, l.ScaleY)
}

// Bounds returns the axis-aligned bounding box of the layer on the canvas.
func (l *Layer) Bounds() geometry.Box {
	return geometry.BoundingBox(l.Matrix(), l.Width, l.Height)
}

// IsEmpty reports whether the layer has nothing to paint.
func (l *Layer) IsEmpty() bool {
	switch l.Kind {
	case KindPixel:
		return l.Raster == nil
	case KindShape:
		return l.Shape == nil
	}
	return true
}

// SameTransform reports whether l and o have the same placement.
func (l *Layer) SameTransform(o *Layer) bool {
	return l.X == o.X && l.Y == o.Y &&
		l.Width == o.Width && l.Height == o.Height &&
		l.Rotation == o.Rotation &&
		l.ScaleX == o.ScaleX && l.ScaleY == o.ScaleY
}

// normalize returns img with bounds starting at the origin.
func normalize(img *image.RGBA) *image.RGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	draw.Draw(out, out.Rect, img, img.Rect.Min, draw.Src)
	return out
}
