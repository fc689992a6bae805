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

// Package document holds the document settings and the layer stack.
package document

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"seehuhn.de/go/layers/geometry"
)

// BackgroundMode selects how a new document's background layer is filled.
type BackgroundMode uint8

const (
	BackgroundTransparent BackgroundMode = iota
	BackgroundWhite
	BackgroundColor
)

func (m BackgroundMode) String() string {
	switch m {
	case BackgroundTransparent:
		return "transparent"
	case BackgroundWhite:
		return "white"
	case BackgroundColor:
		return "color"
	default:
		return fmt.Sprintf("BackgroundMode(%d)", m)
	}
}

// Document holds the settings of an image. The size does not change
// after creation.
type Document struct {
	Width, Height int

	Background BackgroundMode

	// Color is the background fill for BackgroundColor.
	Color color.NRGBA
}

// ErrInvalidSize is returned by New for non-positive dimensions.
var ErrInvalidSize = errors.New("invalid document size")

// New returns the settings for a w×h document.
func New(w, h int, mode BackgroundMode, c color.NRGBA) (*Document, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if mode > BackgroundColor {
		return nil, fmt.Errorf("unknown background mode %d", mode)
	}
	return &Document{Width: w, Height: h, Background: mode, Color: c}, nil
}

// Fill returns the color of the background layer, or nil for a
// transparent document.
func (d *Document) Fill() *color.NRGBA {
	switch d.Background {
	case BackgroundWhite:
		return &color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	case BackgroundColor:
		c := d.Color
		return &c
	default:
		return nil
	}
}

// Bounds returns the canvas box (0,0)-(Width,Height).
func (d *Document) Bounds() geometry.Box {
	return geometry.Box{Right: float64(d.Width), Bottom: float64(d.Height)}
}

// Rect returns the canvas as a pixel rectangle.
func (d *Document) Rect() image.Rectangle {
	return image.Rect(0, 0, d.Width, d.Height)
}

// ParseBackground parses a background description. Accepted values are
// "transparent", "white" and colors of the form "#rrggbb" or "#rrggbbaa".
func ParseBackground(s string) (BackgroundMode, color.NRGBA, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "transparent":
		return BackgroundTransparent, color.NRGBA{}, nil
	case "white":
		return BackgroundWhite, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return 0, color.NRGBA{}, fmt.Errorf("invalid background %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, color.NRGBA{}, fmt.Errorf("invalid background %q: %w", s, err)
	}
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return BackgroundColor, c, nil
}
