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

import "errors"

var (
	// ErrBackgroundEdit is returned when an edit targets a locked or
	// background layer. The user should convert or unlock the layer
	// first.
	ErrBackgroundEdit = errors.New("layer is locked")

	// ErrMergeUnsupported is returned by MergeDown for shape layers, for
	// the bottom layer, and when the layer below is a background or
	// shape layer.
	ErrMergeUnsupported = errors.New("merge not supported")

	// ErrNotPixelLayer is returned when a pixel operation targets a
	// shape layer.
	ErrNotPixelLayer = errors.New("not a pixel layer")

	// ErrUnknownLayer is returned when a layer ID is not in the stack.
	ErrUnknownLayer = errors.New("unknown layer")

	// ErrGestureActive is returned when a gesture is started while
	// another one is in progress.
	ErrGestureActive = errors.New("another gesture is in progress")

	// ErrNoGesture is returned when a gesture operation is called with no
	// matching gesture in progress.
	ErrNoGesture = errors.New("no gesture in progress")
)
