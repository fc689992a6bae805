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

// Package session implements the interactive gestures which change a
// layer's placement: the transform gesture (resize and rotate by handle)
// and the move gesture (drag with alignment snapping).
//
// A session never modifies a layer. It turns pointer positions into a
// [layer.Patch], which the caller shows as a preview and finally folds
// into a history entry.
package session

import (
	"fmt"

	"seehuhn.de/go/geom/vec"
)

// Viewport describes how the document is shown on screen.
// A document point p appears at screen position p*Zoom + Pan.
type Viewport struct {
	Zoom float64
	Pan  vec.Vec2
}

// DefaultViewport shows the document at 100% with no panning.
var DefaultViewport = Viewport{Zoom: 1}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// ToDocument maps a screen position to document space.
func (v Viewport) ToDocument(p vec.Vec2) vec.Vec2 {
	return p.Sub(v.Pan).Mul(1 / v.zoom())
}

// ToScreen maps a document position to screen space.
func (v Viewport) ToScreen(p vec.Vec2) vec.Vec2 {
	return p.Mul(v.zoom()).Add(v.Pan)
}

// Delta converts a screen-space displacement to document space.
func (v Viewport) Delta(d vec.Vec2) vec.Vec2 {
	return d.Mul(1 / v.zoom())
}

// Tool is the editing tool selected by the user.
type Tool uint8

const (
	ToolMove Tool = iota
	ToolTransform
	ToolBrush
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolMove:
		return "move"
	case ToolTransform:
		return "transform"
	case ToolBrush:
		return "brush"
	case ToolEraser:
		return "eraser"
	default:
		return fmt.Sprintf("Tool(%d)", t)
	}
}

// Handle identifies the part of the selection frame that is dragged.
type Handle uint8

const (
	HandleTopLeft Handle = iota
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleRotate
)

var handleNames = [...]string{
	HandleTopLeft:     "top-left",
	HandleTop:         "top",
	HandleTopRight:    "top-right",
	HandleRight:       "right",
	HandleBottomRight: "bottom-right",
	HandleBottom:      "bottom",
	HandleBottomLeft:  "bottom-left",
	HandleLeft:        "left",
	HandleRotate:      "rotate",
}

func (h Handle) String() string {
	if int(h) < len(handleNames) {
		return handleNames[h]
	}
	return fmt.Sprintf("Handle(%d)", h)
}

func (h Handle) left() bool {
	return h == HandleTopLeft || h == HandleLeft || h == HandleBottomLeft
}

func (h Handle) right() bool {
	return h == HandleTopRight || h == HandleRight || h == HandleBottomRight
}

func (h Handle) top() bool {
	return h == HandleTopLeft || h == HandleTop || h == HandleTopRight
}

func (h Handle) bottom() bool {
	return h == HandleBottomLeft || h == HandleBottom || h == HandleBottomRight
}

// IsSide reports whether h is in the middle of one edge of the frame.
func (h Handle) IsSide() bool {
	return h == HandleTop || h == HandleRight || h == HandleBottom || h == HandleLeft
}
